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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, price, min_stock, current_stock, barcode, category_id, user_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. La constraint UNIQUE de sku se mapea a
// ErrDuplicate para que el generador de SKU pueda reintentar.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, nullable(product.Description),
		product.Price, product.MinStock, product.CurrentStock, nullable(product.Barcode),
		product.CategoryID, product.UserID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByIDAndUser obtiene un producto por ID limitado al dueño.
func (r *ProductRepo) GetByIDAndUser(id, userID string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id, userID), "get product by user")
}

// GetBySKU obtiene un producto por SKU (chequeo previo del generador).
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku), "get product by sku")
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE)
// para serializar el ciclo leer-calcular-persistir stock por producto.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// Update actualiza los campos editables. No toca current_stock ni sku
// (stock vía movimientos, sku inmutable).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, min_stock = $5, barcode = $6, category_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, nullable(product.Description), product.Price,
		product.MinStock, nullable(product.Barcode), product.CategoryID, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock actualiza solo el stock (usado por el motor, dentro de su tx).
func (r *ProductRepo) UpdateStock(id string, stock int, updatedAt time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET current_stock = $2, updated_at = $3 WHERE id = $1`,
		id, stock, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// ListByUser lista productos del usuario con filtros de categoría, búsqueda
// (nombre o SKU) y estado de stock respecto al umbral mínimo.
func (r *ProductRepo) ListByUser(userID string, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1`
	args := []any{userID}
	pos := 2
	if filter.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, filter.CategoryID)
		pos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE '%%' || $%d || '%%' OR sku ILIKE '%%' || $%d || '%%')", pos, pos)
		args = append(args, filter.Search)
		pos++
	}
	switch filter.StockStatus {
	case repository.StockStatusCritical:
		query += " AND current_stock < min_stock"
	case repository.StockStatusLow:
		query += " AND current_stock >= min_stock AND current_stock::numeric < min_stock * 1.5"
	case repository.StockStatusSufficient:
		query += " AND current_stock::numeric >= min_stock * 1.5"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID; movimientos y alertas caen en cascada.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var description, barcode *string
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &description, &p.Price, &p.MinStock,
		&p.CurrentStock, &barcode, &p.CategoryID, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	return &p, nil
}

// nullable convierte string vacío a NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
