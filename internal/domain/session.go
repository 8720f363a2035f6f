package domain

import "time"

// Session liga un token bearer opaco con un usuario. El token es la clave
// primaria; no hay expiración del lado del servidor, solo logout explícito.
type Session struct {
	Token      string    `json:"token"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}
