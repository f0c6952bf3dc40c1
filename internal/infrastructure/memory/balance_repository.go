package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

type balanceRepo struct {
	s  *Store
	tx *txState
}

func (r *balanceRepo) Get(_ context.Context, warehouseID, productID string) (*entity.Balance, error) {
	key := entity.BalanceKey(warehouseID, productID)
	if r.tx != nil {
		if b, ok := r.tx.balances[key]; ok {
			return &b, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.balances[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

// GetForUpdate las transacciones del store ya son exclusivas; equivale a Get.
func (r *balanceRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.Balance, error) {
	return r.Get(ctx, warehouseID, productID)
}

func (r *balanceRepo) Upsert(ctx context.Context, warehouseID, productID string, quantity, fractionalQuantity int64) (*entity.Balance, error) {
	now := r.s.now()
	b := entity.Balance{WarehouseID: warehouseID, ProductID: productID, CreatedAt: now}
	if cur, err := r.Get(ctx, warehouseID, productID); err == nil {
		b.CreatedAt = cur.CreatedAt
	}
	b.Quantity = quantity
	b.FractionalQuantity = fractionalQuantity
	b.UpdatedAt = now

	if r.tx != nil {
		r.tx.balances[b.Key()] = b
		return &b, nil
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[b.Key()] = b
	return &b, nil
}

func (r *balanceRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.Balance, error) {
	return r.list(func(b entity.Balance) bool { return b.WarehouseID == warehouseID }), nil
}

func (r *balanceRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Balance, error) {
	return r.list(func(b entity.Balance) bool { return b.ProductID == productID }), nil
}

func (r *balanceRepo) list(match func(entity.Balance) bool) []*entity.Balance {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Balance, 0)
	for _, b := range r.s.balances {
		if match(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
