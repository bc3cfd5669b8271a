package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeInbound  = "INBOUND"  // entrada
	MovementTypeOutbound = "OUTBOUND" // salida
)

// ValidMovementType indica si el tipo corresponde a un movimiento soportado.
func ValidMovementType(t string) bool {
	return t == MovementTypeInbound || t == MovementTypeOutbound
}

// Movement representa un movimiento registrado de stock (entrada o salida).
// Inmutable una vez creado; su borrado exige revertir el stock del producto.
type Movement struct {
	ID        string
	ProductID string
	Type      string // INBOUND, OUTBOUND
	Quantity  int    // estrictamente positivo
	Reason    string
	Notes     string
	UserID    string // actor que registró el movimiento
	CreatedAt time.Time
}
