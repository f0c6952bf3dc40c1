package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// TxRunner ejecuta fn con repositorios que escriben en un buffer; si fn termina sin error el
// buffer se aplica al store, si no se descarta.
type TxRunner struct {
	s *Store
}

type txState struct {
	balances  map[string]entity.Balance
	movements []entity.Movement
	transfers []entity.Transfer
}

// Run abre la transacción, ejecuta fn y confirma o descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	balanceRepo repository.BalanceRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	tx := &txState{balances: make(map[string]entity.Balance)}
	if err := fn(ctx, &movementRepo{s: r.s, tx: tx}, &transferRepo{s: r.s, tx: tx}, &balanceRepo{s: r.s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	r.s.commit(tx)
	return nil
}

func (s *Store) commit(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, b := range tx.balances {
		s.balances[k] = b
	}
	s.movements = append(s.movements, tx.movements...)
	s.transfers = append(s.transfers, tx.transfers...)
}
