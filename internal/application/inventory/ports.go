package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad de la unidad
// movimiento + stock + alerta: o se confirma todo o se revierte todo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error) error
}

// ProductCacheInvalidator invalida la entrada cacheada de un producto tras
// una escritura. Implementación opcional (Redis); nil desactiva el caché.
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, productID string)
}
