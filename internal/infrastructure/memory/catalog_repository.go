package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

type productRepo struct {
	s *Store
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.s.products[id]; ok {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, &p)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return lessByName(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return paginate(out, limit, offset), nil
}

// Delete falla con ErrConflict si el producto tiene saldo o historial.
func (r *productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	if r.s.productInUse(id) {
		return domain.ErrConflict
	}
	delete(r.s.products, id)
	return nil
}

type warehouseRepo struct {
	s *Store
}

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.RLock()
	out := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		out = append(out, &w)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return lessByName(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return paginate(out, limit, offset), nil
}

// Delete falla con ErrConflict si la bodega tiene saldo o historial.
func (r *warehouseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[id]; !ok {
		return domain.ErrNotFound
	}
	if r.s.warehouseInUse(id) {
		return domain.ErrConflict
	}
	delete(r.s.warehouses, id)
	return nil
}

func lessByName(a, aID, b, bID string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return aID < bID
}

// productInUse y warehouseInUse emulan las llaves foráneas del esquema SQL. Requieren s.mu.
func (s *Store) productInUse(id string) bool {
	for _, b := range s.balances {
		if b.ProductID == id {
			return true
		}
	}
	for _, m := range s.movements {
		if m.ProductID == id {
			return true
		}
	}
	for _, t := range s.transfers {
		if t.ProductID == id {
			return true
		}
	}
	return false
}

func (s *Store) warehouseInUse(id string) bool {
	for _, b := range s.balances {
		if b.WarehouseID == id {
			return true
		}
	}
	for _, m := range s.movements {
		if m.WarehouseID == id {
			return true
		}
	}
	for _, t := range s.transfers {
		if t.OriginWarehouseID == id || t.DestinationWarehouseID == id {
			return true
		}
	}
	return false
}
