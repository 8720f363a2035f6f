package domain

import "time"

// LoginCode es un código de acceso de un solo uso ligado a un email.
type LoginCode struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Consumed indica si el código ya fue canjeado.
func (c LoginCode) Consumed() bool {
	return c.UsedAt != nil
}

// Expired indica si el código venció respecto a now.
func (c LoginCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
