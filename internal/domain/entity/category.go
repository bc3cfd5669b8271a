package entity

import "time"

// Category agrupa productos de un usuario.
type Category struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
