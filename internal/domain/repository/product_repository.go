package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// Estados de stock para el filtro de listado de productos.
const (
	StockStatusCritical   = "critico"    // currentStock < minStock
	StockStatusLow        = "bajo"       // minStock <= currentStock < minStock*1.5
	StockStatusSufficient = "suficiente" // currentStock >= minStock*1.5
)

// ProductFilter filtros opcionales para listar productos de un usuario.
type ProductFilter struct {
	CategoryID  string
	Search      string // match parcial por nombre o SKU
	StockStatus string // critico, bajo, suficiente (vacío = todos)
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// CurrentStock solo se modifica vía UpdateStock, dentro de la transacción
// del motor de stock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByIDAndUser(id, userID string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar lectura-modificación-escritura de stock por producto.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stock int, updatedAt time.Time) error
	ListByUser(userID string, filter ProductFilter) ([]*entity.Product, error)
	Delete(id string) error
}
