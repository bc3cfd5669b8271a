package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/inventory"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/internal/domain/sku"
)

// ProductCache caché de lectura opcional para productos (Redis).
// nil desactiva el caché sin tocar la lógica.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, bool)
	Set(ctx context.Context, product *entity.Product)
	Invalidate(ctx context.Context, id string)
}

// ProductUseCase casos de uso CRUD para productos. El SKU lo genera el
// sistema al crear; CurrentStock solo cambia vía movimientos. Las escrituras
// que tocan alertas (crear, cambiar umbral) van por el txRunner para que
// producto y alerta se confirmen juntos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     inventory.TxRunner
	skuGen       *sku.Generator
	alerts       *inventory.AlertEvaluator
	cache        ProductCache
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txRunner inventory.TxRunner,
	skuGen *sku.Generator,
	alerts *inventory.AlertEvaluator,
	cache ProductCache,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		txRunner:     txRunner,
		skuGen:       skuGen,
		alerts:       alerts,
		cache:        cache,
	}
}

// skuStore adapta el repositorio de productos al chequeo de SKU del generador.
type skuStore struct {
	repo repository.ProductRepository
}

func (s skuStore) SKUExists(skuValue string) (bool, error) {
	p, err := s.repo.GetBySKU(skuValue)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// Create crea un producto: valida, genera un SKU único y evalúa la alerta
// inicial (stock de arranque ya bajo umbral crea una alerta no resuelta).
// INSERT y alerta inicial comparten transacción: un producto bajo umbral no
// queda persistido sin su alerta si la escritura de la alerta falla.
//
// La constraint UNIQUE de sku es la garantía final: si el INSERT reporta
// duplicado (otra creación concurrente ganó el mismo candidato) la
// transacción se revierte y se vuelve a generar, acotado por el mismo tope
// de intentos del generador.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" || in.CategoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.MinStock < 0 || in.CurrentStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	category, err := uc.categoryRepo.GetByIDAndUser(in.CategoryID, userID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price.Round(2),
		MinStock:     in.MinStock,
		CurrentStock: in.CurrentStock,
		Barcode:      in.Barcode,
		CategoryID:   in.CategoryID,
		UserID:       userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created := false
	for attempt := 0; attempt < sku.DefaultMaxAttempts; attempt++ {
		candidate, err := uc.skuGen.Generate(skuStore{repo: uc.repo})
		if err != nil {
			return nil, err
		}
		product.SKU = candidate
		err = uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			_ repository.MovementRepository,
			alertRepo repository.AlertRepository,
		) error {
			if err := productRepo.Create(product); err != nil {
				return err
			}
			// Alerta inicial: misma regla general del ciclo de vida
			// (currentStock < minStock crea la alerta).
			return uc.alerts.Evaluate(alertRepo, product.ID, userID, product.CurrentStock, product.MinStock, now)
		})
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, domain.ErrDuplicate) {
			continue // carrera sobre el mismo candidato: regenerar
		}
		return nil, err
	}
	if !created {
		return nil, domain.ErrSKUGenerationExhausted
	}

	return toProductResponse(product), nil
}

// GetByID obtiene un producto del usuario; lectura vía caché cuando está
// habilitado. Un producto de otro usuario responde ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id, userID string) (*dto.ProductResponse, error) {
	if uc.cache != nil {
		if p, ok := uc.cache.Get(ctx, id); ok {
			if p.UserID != userID {
				return nil, domain.ErrNotFound
			}
			return toProductResponse(p), nil
		}
	}
	product, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, product)
	}
	return toProductResponse(product), nil
}

// List lista los productos del usuario con filtros de categoría, búsqueda
// y estado de stock (critico, bajo, suficiente).
func (uc *ProductUseCase) List(ctx context.Context, userID string, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	switch q.Status {
	case "", repository.StockStatusCritical, repository.StockStatusLow, repository.StockStatusSufficient:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByUser(userID, repository.ProductFilter{
		CategoryID:  q.Category,
		Search:      q.Search,
		StockStatus: q.Status,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Update actualiza campos editables del producto. No permite modificar
// CurrentStock (se maneja vía movimientos) ni el SKU.
//
// Cambiar MinStock mueve la frontera de la alerta, así que se reevalúa el
// ciclo de alertas con el stock vigente, en la misma transacción que
// persiste el nuevo umbral.
func (uc *ProductUseCase) Update(ctx context.Context, id, userID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		category, err := uc.categoryRepo.GetByIDAndUser(*in.CategoryID, userID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price.Round(2)
	}
	minStockChanged := false
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		minStockChanged = *in.MinStock != product.MinStock
		product.MinStock = *in.MinStock
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	product.UpdatedAt = time.Now()

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		if minStockChanged {
			// Bloquear la fila para evaluar contra el stock vigente, no
			// contra la lectura previa a la transacción.
			locked, err := productRepo.GetForUpdate(product.ID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			product.CurrentStock = locked.CurrentStock
		}
		if err := productRepo.Update(product); err != nil {
			return err
		}
		if minStockChanged {
			return uc.alerts.Evaluate(alertRepo, product.ID, userID, product.CurrentStock, product.MinStock, product.UpdatedAt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, product.ID)
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto del usuario; movimientos y alertas asociados
// caen en cascada (FK ON DELETE CASCADE).
func (uc *ProductUseCase) Delete(ctx context.Context, id, userID string) error {
	product, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, id)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		MinStock:     p.MinStock,
		CurrentStock: p.CurrentStock,
		Barcode:      p.Barcode,
		CategoryID:   p.CategoryID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
