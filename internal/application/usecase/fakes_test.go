package usecase_test

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-api/internal/application/inventory"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// Fakes en memoria de los puertos que consumen los casos de uso.

type fakeProductRepo struct {
	products map[string]*entity.Product
	// createErrs se consume en orden en cada Create; agotada la lista,
	// Create persiste normalmente. Simula la carrera del INSERT de SKU.
	createErrs []error
	creates    int
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
	r.creates++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
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

type fakeCategoryRepo struct {
	categories map[string]*entity.Category
}

func newFakeCategoryRepo(categories ...*entity.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: map[string]*entity.Category{}}
	for _, c := range categories {
		cp := *c
		r.categories[c.ID] = &cp
	}
	return r
}

func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByIDAndUser(id, userID string) (*entity.Category, error) {
	c, err := r.GetByID(id)
	if err != nil || c == nil || c.UserID != userID {
		return nil, err
	}
	return c, nil
}

func (r *fakeCategoryRepo) ListByUser(userID string) ([]*repository.CategoryWithCount, error) {
	var list []*repository.CategoryWithCount
	for _, c := range r.categories {
		if c.UserID == userID {
			list = append(list, &repository.CategoryWithCount{Category: *c})
		}
	}
	return list, nil
}

func (r *fakeCategoryRepo) Update(c *entity.Category) error {
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(id string) error {
	delete(r.categories, id)
	return nil
}

type fakeAlertRepo struct {
	alerts    map[string]*entity.Alert
	createErr error // si se setea, Create lo devuelve (simula el fallo del INSERT de la alerta)
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

func (r *fakeAlertRepo) activeAlerts(productID string) int {
	n := 0
	for _, a := range r.alerts {
		if a.ProductID == productID && !a.IsResolved {
			n++
		}
	}
	return n
}

// fakeTxRunner simula la transacción tomando un snapshot de los repos y
// restaurándolo si la función falla: lo escrito antes del error no queda
// persistido, igual que con un Rollback real.
type fakeTxRunner struct {
	products *fakeProductRepo
	alerts   *fakeAlertRepo
}

func (tx *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
) error) error {
	productsBefore := snapshotProducts(tx.products.products)
	alertsBefore := snapshotAlerts(tx.alerts.alerts)
	// Los casos de uso de producto no tocan movimientos.
	if err := fn(tx.products, nil, tx.alerts); err != nil {
		tx.products.products = productsBefore
		tx.alerts.alerts = alertsBefore
		return err
	}
	return nil
}

func snapshotProducts(m map[string]*entity.Product) map[string]*entity.Product {
	out := make(map[string]*entity.Product, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func snapshotAlerts(m map[string]*entity.Alert) map[string]*entity.Alert {
	out := make(map[string]*entity.Alert, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)
