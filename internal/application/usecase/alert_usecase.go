package usecase

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// Valores aceptados por el filtro de estado de alertas.
const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
	AlertStatusAll      = "all"
)

// AlertUseCase consultas y acciones manuales sobre alertas. La creación y
// resolución automática las hace el evaluador dentro del motor de stock.
type AlertUseCase struct {
	repo repository.AlertRepository
}

// NewAlertUseCase construye el caso de uso de alertas.
func NewAlertUseCase(repo repository.AlertRepository) *AlertUseCase {
	return &AlertUseCase{repo: repo}
}

// List lista las alertas del usuario, filtrables por estado
// (active, resolved, all o vacío = todas), con snapshot de producto.
func (uc *AlertUseCase) List(userID, status string) ([]dto.AlertResponse, error) {
	var isResolved *bool
	switch status {
	case AlertStatusActive:
		v := false
		isResolved = &v
	case AlertStatusResolved:
		v := true
		isResolved = &v
	case AlertStatusAll, "":
	default:
		return nil, domain.ErrInvalidInput
	}

	list, err := uc.repo.ListByUser(userID, isResolved)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAlertResponse(a))
	}
	return items, nil
}

// GetByID obtiene una alerta del usuario con su producto.
func (uc *AlertUseCase) GetByID(id, userID string) (*dto.AlertResponse, error) {
	alert, err := uc.repo.GetWithProductByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	resp := toAlertResponse(alert)
	return &resp, nil
}

// Resolve resuelve una alerta manualmente. Guard de idempotencia: resolver
// una alerta ya resuelta falla con ErrAlertAlreadyResolved.
func (uc *AlertUseCase) Resolve(id, userID string) (*entity.Alert, error) {
	alert, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.IsResolved {
		return nil, domain.ErrAlertAlreadyResolved
	}
	now := time.Now()
	if err := uc.repo.MarkResolved(alert.ID, now); err != nil {
		return nil, err
	}
	alert.IsResolved = true
	alert.ResolvedAt = &now
	return alert, nil
}

// Delete elimina una alerta explícitamente (acción de usuario, fuera del
// ciclo de vida automático, que solo resuelve).
func (uc *AlertUseCase) Delete(id, userID string) error {
	alert, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(alert.ID)
}

// Stats devuelve los conteos total/activas/resueltas del usuario.
func (uc *AlertUseCase) Stats(userID string) (*dto.AlertStatsResponse, error) {
	stats, err := uc.repo.StatsByUser(userID)
	if err != nil {
		return nil, err
	}
	return &dto.AlertStatsResponse{
		Total:    stats.Total,
		Active:   stats.Active,
		Resolved: stats.Resolved,
	}, nil
}

func toAlertResponse(a *repository.AlertWithProduct) dto.AlertResponse {
	return dto.AlertResponse{
		ID: a.Alert.ID,
		Product: dto.AlertProductSnapshot{
			ID:           a.Alert.ProductID,
			Name:         a.ProductName,
			SKU:          a.ProductSKU,
			CurrentStock: a.CurrentStock,
			MinStock:     a.MinStock,
			CategoryID:   a.CategoryID,
			CategoryName: a.CategoryName,
		},
		IsResolved: a.Alert.IsResolved,
		CreatedAt:  a.Alert.CreatedAt,
		ResolvedAt: a.Alert.ResolvedAt,
	}
}
