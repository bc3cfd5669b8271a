package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// AlertWithProduct alerta junto con un snapshot del producto y su categoría,
// tal como la expone el listado de alertas.
type AlertWithProduct struct {
	Alert        entity.Alert
	ProductName  string
	ProductSKU   string
	CurrentStock int
	MinStock     int
	CategoryID   string
	CategoryName string
}

// AlertStats conteos de alertas de un usuario.
type AlertStats struct {
	Total    int
	Active   int
	Resolved int
}

// AlertRepository define el puerto de persistencia para alertas.
// Create debe mapear la violación del índice único parcial
// (product_id WHERE NOT is_resolved) a domain.ErrDuplicate: esa constraint
// es la garantía autoritativa de "una sola alerta activa por producto".
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(id string) (*entity.Alert, error)
	GetByIDAndUser(id, userID string) (*entity.Alert, error)
	// ListUnresolvedByProduct devuelve las alertas activas de un producto.
	// Bajo el invariante es a lo sumo una; la firma admite más para que el
	// evaluador pueda resolverlas todas defensivamente.
	ListUnresolvedByProduct(productID string) ([]*entity.Alert, error)
	MarkResolved(id string, resolvedAt time.Time) error
	ListByUser(userID string, isResolved *bool) ([]*AlertWithProduct, error)
	GetWithProductByIDAndUser(id, userID string) (*AlertWithProduct, error)
	StatsByUser(userID string) (*AlertStats, error)
	Delete(id string) error
}
