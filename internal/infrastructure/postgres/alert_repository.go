package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta. El índice único parcial
// (product_id WHERE NOT is_resolved) se mapea a ErrDuplicate: dos
// evaluaciones concurrentes nunca dejan dos alertas activas del mismo
// producto.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	query := `
		INSERT INTO alerts (id, product_id, user_id, is_resolved, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.UserID, alert.IsResolved, alert.CreatedAt, alert.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	query := `
		SELECT id, product_id, user_id, is_resolved, created_at, resolved_at
		FROM alerts WHERE id = $1`
	return scanAlertRow(r.q.QueryRow(context.Background(), query, id), "get alert")
}

// GetByIDAndUser obtiene una alerta por ID limitada al dueño.
func (r *AlertRepo) GetByIDAndUser(id, userID string) (*entity.Alert, error) {
	query := `
		SELECT id, product_id, user_id, is_resolved, created_at, resolved_at
		FROM alerts WHERE id = $1 AND user_id = $2`
	return scanAlertRow(r.q.QueryRow(context.Background(), query, id, userID), "get alert by user")
}

// ListUnresolvedByProduct devuelve las alertas activas de un producto
// (a lo sumo una bajo el invariante; todas si este se rompió).
func (r *AlertRepo) ListUnresolvedByProduct(productID string) ([]*entity.Alert, error) {
	query := `
		SELECT id, product_id, user_id, is_resolved, created_at, resolved_at
		FROM alerts WHERE product_id = $1 AND NOT is_resolved`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list unresolved alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// MarkResolved marca la alerta como resuelta con su timestamp. Las alertas
// nunca se borran al resolverse.
func (r *AlertRepo) MarkResolved(id string, resolvedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE alerts SET is_resolved = true, resolved_at = $2 WHERE id = $1`,
		id, resolvedAt,
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

const alertWithProductQuery = `
	SELECT a.id, a.product_id, a.user_id, a.is_resolved, a.created_at, a.resolved_at,
	       p.name, p.sku, p.current_stock, p.min_stock, c.id, c.name
	FROM alerts a
	JOIN products p ON p.id = a.product_id
	JOIN categories c ON c.id = p.category_id`

// ListByUser lista las alertas del usuario con snapshot de producto y
// categoría; isResolved nil trae todas.
func (r *AlertRepo) ListByUser(userID string, isResolved *bool) ([]*repository.AlertWithProduct, error) {
	query := alertWithProductQuery + ` WHERE a.user_id = $1`
	args := []any{userID}
	if isResolved != nil {
		query += ` AND a.is_resolved = $2`
		args = append(args, *isResolved)
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*repository.AlertWithProduct
	for rows.Next() {
		item, err := scanAlertWithProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// GetWithProductByIDAndUser obtiene una alerta del usuario con su snapshot.
func (r *AlertRepo) GetWithProductByIDAndUser(id, userID string) (*repository.AlertWithProduct, error) {
	query := alertWithProductQuery + ` WHERE a.id = $1 AND a.user_id = $2`
	item, err := scanAlertWithProduct(r.q.QueryRow(context.Background(), query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert with product: %w", err)
	}
	return item, nil
}

// StatsByUser cuenta alertas totales, activas y resueltas del usuario.
func (r *AlertRepo) StatsByUser(userID string) (*repository.AlertStats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE NOT is_resolved),
		       count(*) FILTER (WHERE is_resolved)
		FROM alerts WHERE user_id = $1`
	var s repository.AlertStats
	err := r.q.QueryRow(context.Background(), query, userID).Scan(&s.Total, &s.Active, &s.Resolved)
	if err != nil {
		return nil, fmt.Errorf("alert stats: %w", err)
	}
	return &s, nil
}

// Delete elimina una alerta explícitamente (acción de usuario).
func (r *AlertRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

func scanAlertRow(row pgx.Row, op string) (*entity.Alert, error) {
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	err := row.Scan(&a.ID, &a.ProductID, &a.UserID, &a.IsResolved, &a.CreatedAt, &a.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAlertWithProduct(row pgx.Row) (*repository.AlertWithProduct, error) {
	var item repository.AlertWithProduct
	err := row.Scan(
		&item.Alert.ID, &item.Alert.ProductID, &item.Alert.UserID,
		&item.Alert.IsResolved, &item.Alert.CreatedAt, &item.Alert.ResolvedAt,
		&item.ProductName, &item.ProductSKU, &item.CurrentStock, &item.MinStock,
		&item.CategoryID, &item.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
