package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

type movementRepo struct {
	s  *Store
	tx *txState
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, *m)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *movementRepo) List(_ context.Context, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	out := make([]*entity.Movement, 0)
	for _, m := range r.s.movements {
		if warehouseID == "" || m.WarehouseID == warehouseID {
			m := m
			out = append(out, &m)
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
