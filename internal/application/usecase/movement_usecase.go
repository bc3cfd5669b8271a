package usecase

import (
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// MovementUseCase consultas de movimientos (el registro y la reversión los
// hace el motor de stock, inventory.StockLedger).
type MovementUseCase struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewMovementUseCase construye el caso de uso de lectura de movimientos.
func NewMovementUseCase(movRepo repository.MovementRepository, productRepo repository.ProductRepository) *MovementUseCase {
	return &MovementUseCase{movRepo: movRepo, productRepo: productRepo}
}

// List lista los movimientos del usuario con filtros opcionales de
// producto, tipo y rango de fechas.
func (uc *MovementUseCase) List(userID string, filter repository.MovementFilter) ([]dto.MovementListItem, error) {
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movRepo.ListByUser(userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementListItem, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementListItem(m))
	}
	return items, nil
}

// GetByID obtiene un movimiento cuyo producto pertenezca al usuario.
// Un movimiento ajeno responde ErrNotFound: la existencia no se filtra.
func (uc *MovementUseCase) GetByID(id, userID string) (*dto.MovementListItem, error) {
	movement, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if movement == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByIDAndUser(movement.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	item := toMovementListItem(&repository.MovementWithProduct{
		Movement:     *movement,
		ProductName:  product.Name,
		ProductSKU:   product.SKU,
		CurrentStock: product.CurrentStock,
	})
	return &item, nil
}

func toMovementListItem(m *repository.MovementWithProduct) dto.MovementListItem {
	item := dto.MovementListItem{
		MovementResponse: dto.MovementResponse{
			ID:        m.Movement.ID,
			ProductID: m.Movement.ProductID,
			Type:      m.Movement.Type,
			Quantity:  m.Movement.Quantity,
			Reason:    m.Movement.Reason,
			Notes:     m.Movement.Notes,
			CreatedAt: m.Movement.CreatedAt,
		},
	}
	item.Product.ID = m.Movement.ProductID
	item.Product.Name = m.ProductName
	item.Product.SKU = m.ProductSKU
	item.Product.CurrentStock = m.CurrentStock
	return item
}
