package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrAlertAlreadyResolved   = errors.New("la alerta ya fue resuelta")
	ErrSKUGenerationExhausted = errors.New("generación de SKU agotada tras varios intentos")
)

// InsufficientStockError detalla un rechazo de salida: el caller necesita
// el stock actual y la cantidad solicitada para informar al usuario.
type InsufficientStockError struct {
	CurrentStock int
	Requested    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: actual %d, solicitado %d", e.CurrentStock, e.Requested)
}

// Unwrap permite detectar el error con errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
