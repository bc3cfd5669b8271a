package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de un usuario.
// CurrentStock se modifica únicamente vía movimientos (motor de stock).
type Product struct {
	ID           string
	SKU          string // único global, generado por el sistema
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta, 2 decimales, >= 0
	MinStock     int             // umbral de alerta de stock bajo
	CurrentStock int
	Barcode      string
	CategoryID   string
	UserID       string // dueño: scoping de todas las consultas
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
