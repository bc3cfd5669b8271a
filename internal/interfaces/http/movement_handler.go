package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/inventory"
	"github.com/tu-usuario/almacen-api/internal/application/usecase"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP de movimientos de stock
// (protegido). Las escrituras pasan por el motor transaccional; las
// lecturas por el caso de uso de consulta.
type MovementHandler struct {
	ledger *inventory.StockLedger
	uc     *usecase.MovementUseCase
}

// NewMovementHandler construye el handler de movimientos.
func NewMovementHandler(ledger *inventory.StockLedger, uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{ledger: ledger, uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento de stock (entrada o salida)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, type (INBOUND|OUTBOUND), quantity, reason, notes"
// @Success      201   {object}  dto.CreateMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.ledger.ApplyMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Notes:     in.Notes,
		UserID:    userID,
	})
	if err != nil {
		var insufficientErr *domain.InsufficientStockError
		if errors.As(err, &insufficientErr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.InsufficientStockResponse{
				Code:         "INSUFFICIENT_STOCK",
				Message:      "stock insuficiente para la salida solicitada",
				CurrentStock: insufficientErr.CurrentStock,
				Requested:    insufficientErr.Requested,
			})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toCreateMovementResponse(result))
}

// List godoc
// @Summary      Listar movimientos del usuario
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (UUID)"
// @Param        type        query  string  false  "INBOUND | OUTBOUND"
// @Param        start_date  query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (RFC 3339 o YYYY-MM-DD)"
// @Success      200  {array}   dto.MovementListItem
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var q dto.MovementListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	filter := repository.MovementFilter{ProductID: q.ProductID, Type: q.Type}
	if q.StartDate != "" {
		t, err := parseDate(q.StartDate, false)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date inválida"})
		}
		filter.From = &t
	}
	if q.EndDate != "" {
		t, err := parseDate(q.EndDate, true)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date inválida"})
		}
		filter.To = &t
	}
	out, err := h.uc.List(userID, filter)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser INBOUND u OUTBOUND"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementListItem
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.GetByID(c.Params("id"), userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Revertir movimiento (aplica el delta inverso y lo elimina)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.DeleteMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	newStock, err := h.ledger.ReverseMovement(c.Context(), c.Params("id"), userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.DeleteMovementResponse{Message: "movimiento revertido", NewStock: newStock})
}

func toCreateMovementResponse(r *inventory.MovementResult) dto.CreateMovementResponse {
	return dto.CreateMovementResponse{
		Movement: dto.MovementResponse{
			ID:        r.Movement.ID,
			ProductID: r.Movement.ProductID,
			Type:      r.Movement.Type,
			Quantity:  r.Movement.Quantity,
			Reason:    r.Movement.Reason,
			Notes:     r.Movement.Notes,
			CreatedAt: r.Movement.CreatedAt,
		},
		Product: dto.MovementProductSnapshot{
			ID:            r.Movement.ProductID,
			Name:          r.ProductName,
			PreviousStock: r.PreviousStock,
			CurrentStock:  r.CurrentStock,
			MinStock:      r.MinStock,
		},
	}
}

// parseDate acepta RFC 3339 o fecha simple YYYY-MM-DD; endOfDay extiende la
// fecha simple al final del día para que el rango sea inclusivo.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
