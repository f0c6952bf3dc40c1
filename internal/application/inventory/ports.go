package inventory

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error nada de lo escrito dentro de la transacción queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
		balanceRepo repository.BalanceRepository,
	) error) error
}

// Locker serializa el ciclo leer-validar-escribir por saldo (bodega+producto).
// Lock bloquea todas las llaves o ninguna; unlock libera lo adquirido y es idempotente.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}
