package dto

import "time"

// AlertProductSnapshot snapshot del producto embebido en cada alerta.
type AlertProductSnapshot struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// AlertResponse salida de una alerta con su producto.
type AlertResponse struct {
	ID         string               `json:"id"`
	Product    AlertProductSnapshot `json:"product"`
	IsResolved bool                 `json:"is_resolved"`
	CreatedAt  time.Time            `json:"created_at"`
	ResolvedAt *time.Time           `json:"resolved_at"`
}

// ResolveAlertResponse resultado de resolver una alerta manualmente.
type ResolveAlertResponse struct {
	Message string `json:"message"`
	Alert   struct {
		ID         string     `json:"id"`
		ProductID  string     `json:"product_id"`
		IsResolved bool       `json:"is_resolved"`
		ResolvedAt *time.Time `json:"resolved_at"`
	} `json:"alert"`
}

// AlertStatsResponse conteos de alertas del usuario.
type AlertStatsResponse struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
}
