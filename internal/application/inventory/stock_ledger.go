package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// StockLedger aplica y revierte movimientos de stock de forma transaccional:
// bloqueo de fila del producto (SELECT FOR UPDATE), guard de stock
// insuficiente, persistencia del movimiento + actualización de stock +
// evaluación de alertas como una sola unidad con Commit/Rollback.
type StockLedger struct {
	txRunner TxRunner
	alerts   *AlertEvaluator
	cache    ProductCacheInvalidator // opcional, puede ser nil
}

// NewStockLedger construye el motor. cache puede ser nil (sin caché).
func NewStockLedger(txRunner TxRunner, alerts *AlertEvaluator, cache ProductCacheInvalidator) *StockLedger {
	return &StockLedger{txRunner: txRunner, alerts: alerts, cache: cache}
}

// MovementInput entrada para aplicar un movimiento de stock.
type MovementInput struct {
	ProductID string
	Type      string // INBOUND, OUTBOUND
	Quantity  int
	Reason    string
	Notes     string
	UserID    string // actor autenticado; también scoping de propiedad
}

// MovementResult movimiento persistido más el estado de stock del producto.
type MovementResult struct {
	Movement      entity.Movement
	ProductName   string
	PreviousStock int
	CurrentStock  int
	MinStock      int
}

// ApplyMovement valida la entrada, bloquea la fila del producto y aplica el
// delta: suma en INBOUND, resta en OUTBOUND. Una salida cuyo resultado sea
// <= 0 se rechaza con InsufficientStockError sin persistir nada: el guard
// exige que quede al menos una unidad, agotar el stock exacto no pasa.
// Movimiento, stock y alerta se confirman o revierten juntos.
//
// Un producto inexistente o de otro usuario responde ErrNotFound: la
// existencia no se filtra a través del límite de propiedad.
func (l *StockLedger) ApplyMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if input.ProductID == "" || input.Reason == "" || input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *MovementResult
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.UserID != input.UserID {
			return domain.ErrNotFound
		}

		previous := product.CurrentStock
		var newStock int
		if input.Type == entity.MovementTypeInbound {
			newStock = previous + input.Quantity
		} else {
			newStock = previous - input.Quantity
			if newStock <= 0 {
				return &domain.InsufficientStockError{CurrentStock: previous, Requested: input.Quantity}
			}
		}

		now := time.Now()
		movement := &entity.Movement{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			Notes:     input.Notes,
			UserID:    input.UserID,
			CreatedAt: now,
		}
		if err := movRepo.Create(movement); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(product.ID, newStock, now); err != nil {
			return err
		}
		if err := l.alerts.Evaluate(alertRepo, product.ID, input.UserID, newStock, product.MinStock, now); err != nil {
			return err
		}

		result = &MovementResult{
			Movement:      *movement,
			ProductName:   product.Name,
			PreviousStock: previous,
			CurrentStock:  newStock,
			MinStock:      product.MinStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.Invalidate(ctx, input.ProductID)
	}
	return result, nil
}

// ReverseMovement deshace un movimiento al borrarlo: delta inverso (resta lo
// entrado, devuelve lo salido), sin guard de piso porque revierte una
// operación que fue válida. Borra el movimiento, persiste el stock
// recalculado y reevalúa la alerta en la misma transacción.
// Devuelve el stock resultante.
//
// Dos reversiones concurrentes del mismo movimiento no pueden confirmar
// ambas: la lectura inicial ocurre antes del bloqueo de fila, pero el DELETE
// del perdedor no afecta filas y el repositorio lo reporta como ErrNotFound,
// lo que revierte su transacción completa.
func (l *StockLedger) ReverseMovement(ctx context.Context, movementID, actorID string) (int, error) {
	if movementID == "" || actorID == "" {
		return 0, domain.ErrInvalidInput
	}

	var newStock int
	var productID string
	err := l.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		movement, err := movRepo.GetByID(movementID)
		if err != nil {
			return err
		}
		if movement == nil {
			return domain.ErrNotFound
		}
		product, err := productRepo.GetForUpdate(movement.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.UserID != actorID {
			return domain.ErrNotFound
		}

		if movement.Type == entity.MovementTypeInbound {
			newStock = product.CurrentStock - movement.Quantity
		} else {
			newStock = product.CurrentStock + movement.Quantity
		}
		productID = product.ID

		now := time.Now()
		if err := movRepo.Delete(movement.ID); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(product.ID, newStock, now); err != nil {
			return err
		}
		return l.alerts.Evaluate(alertRepo, product.ID, actorID, newStock, product.MinStock, now)
	})
	if err != nil {
		return 0, err
	}

	if l.cache != nil {
		l.cache.Invalidate(ctx, productID)
	}
	return newStock, nil
}
