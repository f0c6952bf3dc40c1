package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

type transferRepo struct {
	s  *Store
	tx *txState
}

func (r *transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	if r.tx != nil {
		r.tx.transfers = append(r.tx.transfers, *t)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transfers = append(r.s.transfers, *t)
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.transfers {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *transferRepo) List(_ context.Context, limit, offset int) ([]*entity.Transfer, error) {
	r.s.mu.RLock()
	out := make([]*entity.Transfer, 0, len(r.s.transfers))
	for _, t := range r.s.transfers {
		t := t
		out = append(out, &t)
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
