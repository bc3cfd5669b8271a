package entity

import "time"

// Alert señala que el stock de un producto cayó bajo su umbral mínimo.
// Invariante: a lo sumo una alerta no resuelta por producto; las alertas
// se resuelven (nunca se borran) cuando el stock se recupera.
type Alert struct {
	ID         string
	ProductID  string
	UserID     string
	IsResolved bool
	CreatedAt  time.Time
	ResolvedAt *time.Time // solo asignado al resolver
}
