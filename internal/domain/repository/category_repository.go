package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// CategoryWithCount categoría con el número de productos que agrupa.
type CategoryWithCount struct {
	Category     entity.Category
	ProductCount int
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByIDAndUser(id, userID string) (*entity.Category, error)
	ListByUser(userID string) ([]*CategoryWithCount, error)
	Update(category *entity.Category) error
	Delete(id string) error
}
