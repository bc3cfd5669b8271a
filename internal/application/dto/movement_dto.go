package dto

import "time"

// CreateMovementRequest entrada para registrar un movimiento de stock.
type CreateMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=INBOUND OUTBOUND"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required"`
	Notes     string `json:"notes"`
}

// MovementListQuery filtros del listado de movimientos.
type MovementListQuery struct {
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	StartDate string `query:"start_date"` // RFC 3339 o YYYY-MM-DD
	EndDate   string `query:"end_date"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementProductSnapshot estado del producto tras aplicar el movimiento.
type MovementProductSnapshot struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PreviousStock int    `json:"previous_stock"`
	CurrentStock  int    `json:"current_stock"`
	MinStock      int    `json:"min_stock"`
}

// CreateMovementResponse movimiento persistido + stock previo y nuevo.
type CreateMovementResponse struct {
	Movement MovementResponse        `json:"movement"`
	Product  MovementProductSnapshot `json:"product"`
}

// MovementListItem movimiento con snapshot del producto para listados.
type MovementListItem struct {
	MovementResponse
	Product struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		SKU          string `json:"sku"`
		CurrentStock int    `json:"current_stock"`
	} `json:"product"`
}

// DeleteMovementResponse resultado de revertir un movimiento.
type DeleteMovementResponse struct {
	Message  string `json:"message"`
	NewStock int    `json:"new_stock"`
}
