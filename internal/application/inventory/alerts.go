package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// AlertEvaluator mantiene el ciclo de vida de alertas de stock bajo.
// Máquina de estados por producto: sin alerta activa <-> alerta activa,
// dirigida por el stock resultante de cada operación.
//
// Debe invocarse con el repositorio atado a la transacción en curso y con
// la fila del producto ya bloqueada, de modo que evaluaciones concurrentes
// sobre el mismo producto queden serializadas.
type AlertEvaluator struct{}

// NewAlertEvaluator construye el evaluador.
func NewAlertEvaluator() *AlertEvaluator {
	return &AlertEvaluator{}
}

// Evaluate reestablece el invariante (currentStock < minStock) <=> (existe
// alerta no resuelta) para un producto:
//   - bajo umbral y sin alerta activa: crea una alerta no resuelta
//   - bajo umbral con alerta activa: no-op (nunca una segunda alerta)
//   - en o sobre umbral: resuelve todas las alertas activas (defensivo: el
//     invariante dice que hay a lo sumo una, pero si hubiera más se
//     resuelven todas)
//
// La creación tolera la carrera con otra evaluación: el índice único parcial
// sobre (product_id WHERE NOT is_resolved) convierte el duplicado en
// ErrDuplicate, que aquí equivale al no-op de "ya existe alerta activa".
func (e *AlertEvaluator) Evaluate(alertRepo repository.AlertRepository, productID, userID string, currentStock, minStock int, now time.Time) error {
	active, err := alertRepo.ListUnresolvedByProduct(productID)
	if err != nil {
		return err
	}

	if currentStock < minStock {
		if len(active) > 0 {
			return nil
		}
		alert := &entity.Alert{
			ID:         uuid.New().String(),
			ProductID:  productID,
			UserID:     userID,
			IsResolved: false,
			CreatedAt:  now,
		}
		if err := alertRepo.Create(alert); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return nil
			}
			return err
		}
		return nil
	}

	for _, a := range active {
		if err := alertRepo.MarkResolved(a.ID, now); err != nil {
			return err
		}
	}
	return nil
}
