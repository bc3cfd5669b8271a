package entity

import "time"

// User representa un usuario del sistema. Cada usuario solo ve y modifica
// sus propios productos, categorías, movimientos y alertas.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	CreatedAt    time.Time
}
