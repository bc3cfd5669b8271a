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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, category.UserID, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM categories WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get category")
}

// GetByIDAndUser obtiene una categoría por ID limitada al dueño.
func (r *CategoryRepo) GetByIDAndUser(id, userID string) (*entity.Category, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM categories WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id, userID), "get category by user")
}

// ListByUser lista las categorías del usuario con su conteo de productos.
func (r *CategoryRepo) ListByUser(userID string) ([]*repository.CategoryWithCount, error) {
	query := `
		SELECT c.id, c.name, c.user_id, c.created_at, c.updated_at, count(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id, c.name, c.user_id, c.created_at, c.updated_at
		ORDER BY c.name ASC`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*repository.CategoryWithCount
	for rows.Next() {
		var item repository.CategoryWithCount
		if err := rows.Scan(
			&item.Category.ID, &item.Category.Name, &item.Category.UserID,
			&item.Category.CreatedAt, &item.Category.UpdatedAt, &item.ProductCount,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// Update renombra una categoría.
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, category.ID, category.Name, category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete elimina una categoría. La FK de products la protege: borrar una
// categoría con productos responde ErrConflict.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) scanOne(row pgx.Row, op string) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
