package domain

import "time"

// Contact pertenece siempre a exactamente un usuario; todas las consultas
// filtran por UserID en la capa de datos.
type Contact struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	ValueCents int64     `json:"value_cents"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	Tag        string    `json:"tag,omitempty"`
	JobType    string    `json:"job_type,omitempty"`
	Custom1    string    `json:"custom1,omitempty"`
	Custom2    string    `json:"custom2,omitempty"`
	Custom3    string    `json:"custom3,omitempty"`
	Custom4    string    `json:"custom4,omitempty"`
	Custom5    string    `json:"custom5,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
