package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos de un usuario.
type MovementFilter struct {
	ProductID string
	Type      string // INBOUND, OUTBOUND (vacío = ambos)
	From      *time.Time
	To        *time.Time
}

// MovementWithProduct movimiento junto con un snapshot del producto
// para respuestas de listado (evita N+1 en el handler).
type MovementWithProduct struct {
	Movement     entity.Movement
	ProductName  string
	ProductSKU   string
	CurrentStock int
}

// MovementRepository define el puerto de persistencia para movimientos.
// Delete participa en la reversión de stock y solo debe invocarse dentro
// de la transacción del motor; devuelve ErrNotFound si la fila ya no existe,
// de modo que dos reversiones del mismo movimiento no puedan confirmar ambas.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByUser(userID string, filter MovementFilter) ([]*MovementWithProduct, error)
	Delete(id string) error
}
