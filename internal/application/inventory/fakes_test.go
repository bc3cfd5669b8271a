package inventory_test

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-api/internal/application/inventory"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia.
//
// No simulan transacciones reales: el fakeTxRunner ejecuta la función sobre
// los mismos repos. Alcanza porque los tests validan la lógica del motor
// (guards, deltas, ciclo de alertas), no el commit/rollback de pgx.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDAndUser(id, userID string) (*entity.Product, error) {
	p, err := r.GetByID(id)
	if err != nil || p == nil || p.UserID != userID {
		return nil, err
	}
	return p, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if existing, ok := r.products[p.ID]; ok {
		stock := existing.CurrentStock
		cp := *p
		cp.CurrentStock = stock
		r.products[p.ID] = &cp
	}
	return nil
}

func (r *fakeProductRepo) UpdateStock(id string, stock int, updatedAt time.Time) error {
	if p, ok := r.products[id]; ok {
		p.CurrentStock = stock
		p.UpdatedAt = updatedAt
	}
	return nil
}

func (r *fakeProductRepo) ListByUser(userID string, _ repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

type fakeMovementRepo struct {
	movements map[string]*entity.Movement
	createErr error
	deleteErr error // si se setea, Delete lo devuelve (simula el borrado ganado por otra tx)
}

func newFakeMovementRepo(movements ...*entity.Movement) *fakeMovementRepo {
	r := &fakeMovementRepo{movements: map[string]*entity.Movement{}}
	for _, m := range movements {
		cp := *m
		r.movements[m.ID] = &cp
	}
	return r
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *m
	r.movements[m.ID] = &cp
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	m, ok := r.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovementRepo) ListByUser(userID string, _ repository.MovementFilter) ([]*repository.MovementWithProduct, error) {
	var list []*repository.MovementWithProduct
	for _, m := range r.movements {
		if m.UserID == userID {
			list = append(list, &repository.MovementWithProduct{Movement: *m})
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) Delete(id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.movements, id)
	return nil
}

type fakeAlertRepo struct {
	alerts    map[string]*entity.Alert
	createErr error // si se setea, Create lo devuelve (simula carrera contra el índice parcial)
}

func newFakeAlertRepo(alerts ...*entity.Alert) *fakeAlertRepo {
	r := &fakeAlertRepo{alerts: map[string]*entity.Alert{}}
	for _, a := range alerts {
		cp := *a
		r.alerts[a.ID] = &cp
	}
	return r
}

func (r *fakeAlertRepo) Create(a *entity.Alert) error {
	if r.createErr != nil {
		return r.createErr
	}
	// Índice único parcial: una sola alerta activa por producto.
	for _, existing := range r.alerts {
		if existing.ProductID == a.ProductID && !existing.IsResolved {
			return domain.ErrDuplicate
		}
	}
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *fakeAlertRepo) GetByID(id string) (*entity.Alert, error) {
	a, ok := r.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAlertRepo) GetByIDAndUser(id, userID string) (*entity.Alert, error) {
	a, err := r.GetByID(id)
	if err != nil || a == nil || a.UserID != userID {
		return nil, err
	}
	return a, nil
}

func (r *fakeAlertRepo) ListUnresolvedByProduct(productID string) ([]*entity.Alert, error) {
	var list []*entity.Alert
	for _, a := range r.alerts {
		if a.ProductID == productID && !a.IsResolved {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeAlertRepo) MarkResolved(id string, resolvedAt time.Time) error {
	if a, ok := r.alerts[id]; ok {
		a.IsResolved = true
		ts := resolvedAt
		a.ResolvedAt = &ts
	}
	return nil
}

func (r *fakeAlertRepo) ListByUser(userID string, isResolved *bool) ([]*repository.AlertWithProduct, error) {
	var list []*repository.AlertWithProduct
	for _, a := range r.alerts {
		if a.UserID != userID {
			continue
		}
		if isResolved != nil && a.IsResolved != *isResolved {
			continue
		}
		list = append(list, &repository.AlertWithProduct{Alert: *a})
	}
	return list, nil
}

func (r *fakeAlertRepo) GetWithProductByIDAndUser(id, userID string) (*repository.AlertWithProduct, error) {
	a, err := r.GetByIDAndUser(id, userID)
	if err != nil || a == nil {
		return nil, err
	}
	return &repository.AlertWithProduct{Alert: *a}, nil
}

func (r *fakeAlertRepo) StatsByUser(userID string) (*repository.AlertStats, error) {
	var s repository.AlertStats
	for _, a := range r.alerts {
		if a.UserID != userID {
			continue
		}
		s.Total++
		if a.IsResolved {
			s.Resolved++
		} else {
			s.Active++
		}
	}
	return &s, nil
}

func (r *fakeAlertRepo) Delete(id string) error {
	delete(r.alerts, id)
	return nil
}

// activeAlerts cuenta las alertas no resueltas de un producto.
func (r *fakeAlertRepo) activeAlerts(productID string) int {
	n := 0
	for _, a := range r.alerts {
		if a.ProductID == productID && !a.IsResolved {
			n++
		}
	}
	return n
}

// fakeTxRunner ejecuta la función directamente sobre los repos en memoria.
type fakeTxRunner struct {
	products  *fakeProductRepo
	movements *fakeMovementRepo
	alerts    *fakeAlertRepo
}

func (tx *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	return fn(tx.products, tx.movements, tx.alerts)
}

// fakeInvalidator registra las invalidaciones de caché.
type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, productID string) {
	f.invalidated = append(f.invalidated, productID)
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)
var _ inventory.ProductCacheInvalidator = (*fakeInvalidator)(nil)
