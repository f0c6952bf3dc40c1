package repository

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// BalanceRepository es el acceso al saldo bodega+producto. No valida nada: lectura y
// escritura por llave. Get y GetForUpdate devuelven domain.ErrNotFound si la fila no
// existe, lo que para el motor de inventario equivale a saldo cero.
type BalanceRepository interface {
	Get(ctx context.Context, warehouseID, productID string) (*entity.Balance, error)
	// GetForUpdate lee el saldo bloqueándolo hasta el fin de la transacción
	// (también bloquea la llave cuando la fila aún no existe).
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.Balance, error)
	Upsert(ctx context.Context, warehouseID, productID string, quantity, fractionalQuantity int64) (*entity.Balance, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Balance, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Balance, error)
}
