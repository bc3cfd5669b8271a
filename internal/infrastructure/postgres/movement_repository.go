package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, type, quantity, reason, notes, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.Reason, nullable(movement.Notes), movement.UserID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `
		SELECT id, product_id, type, quantity, reason, notes, user_id, created_at
		FROM movements WHERE id = $1`
	var m entity.Movement
	var notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &notes, &m.UserID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if notes != nil {
		m.Notes = *notes
	}
	return &m, nil
}

// ListByUser lista los movimientos de productos del usuario con filtros de
// producto, tipo y rango de fechas, más reciente primero, con snapshot del
// producto para evitar N+1.
func (r *MovementRepo) ListByUser(userID string, filter repository.MovementFilter) ([]*repository.MovementWithProduct, error) {
	query := `
		SELECT m.id, m.product_id, m.type, m.quantity, m.reason, m.notes, m.user_id, m.created_at,
		       p.name, p.sku, p.current_stock
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.user_id = $1`
	args := []any{userID}
	pos := 2
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND m.type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += " ORDER BY m.created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementWithProduct
	for rows.Next() {
		var item repository.MovementWithProduct
		var notes *string
		if err := rows.Scan(
			&item.Movement.ID, &item.Movement.ProductID, &item.Movement.Type,
			&item.Movement.Quantity, &item.Movement.Reason, &notes,
			&item.Movement.UserID, &item.Movement.CreatedAt,
			&item.ProductName, &item.ProductSKU, &item.CurrentStock,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if notes != nil {
			item.Movement.Notes = *notes
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// Delete elimina un movimiento (solo dentro de la transacción de reversión).
// Si el DELETE no afecta filas el movimiento ya fue borrado por otra
// reversión concurrente: devuelve ErrNotFound para que la transacción aborte
// en lugar de aplicar el delta una segunda vez.
func (r *MovementRepo) Delete(id string) error {
	ct, err := r.q.Exec(context.Background(), `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
