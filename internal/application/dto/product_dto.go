package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El SKU no se recibe:
// lo genera el sistema.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	MinStock     int             `json:"min_stock" validate:"min=0"`
	CurrentStock int             `json:"current_stock" validate:"min=0"`
	CategoryID   string          `json:"category_id" validate:"required"`
	Barcode      string          `json:"barcode"`
}

// UpdateProductRequest entrada para actualizar un producto. CurrentStock no
// es editable: solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	CategoryID  *string          `json:"category_id"`
	Barcode     *string          `json:"barcode"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Status   string `query:"status"` // critico, bajo, suficiente
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	MinStock     int             `json:"min_stock"`
	CurrentStock int             `json:"current_stock"`
	Barcode      string          `json:"barcode,omitempty"`
	CategoryID   string          `json:"category_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos del usuario.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
