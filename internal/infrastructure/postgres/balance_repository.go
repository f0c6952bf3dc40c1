package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

const balanceColumns = `warehouse_id::text, product_id::text, quantity, fractional_quantity, created_at, updated_at`

// BalanceRepo saldo bodega+producto sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

func scanBalance(row pgx.Row) (*entity.Balance, error) {
	var b entity.Balance
	err := row.Scan(&b.WarehouseID, &b.ProductID, &b.Quantity, &b.FractionalQuantity, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get obtiene el saldo. domain.ErrNotFound si no hay fila.
func (r *BalanceRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.Balance, error) {
	if !validID(warehouseID) || !validID(productID) {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE warehouse_id = $1 AND product_id = $2`
	b, err := scanBalance(r.q.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetForUpdate bloquea la llave del saldo hasta el fin de la transacción y lee la fila con
// SELECT FOR UPDATE. El advisory lock cubre también el caso en que la fila aún no existe.
// Solo tiene efecto dentro de una transacción.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.Balance, error) {
	if !validID(warehouseID) || !validID(productID) {
		return nil, domain.ErrNotFound
	}
	key := entity.BalanceKey(warehouseID, productID)
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// Upsert inserta o actualiza el saldo. Los CHECK (>= 0) de la tabla son la última barrera
// contra saldos negativos.
func (r *BalanceRepo) Upsert(ctx context.Context, warehouseID, productID string, quantity, fractionalQuantity int64) (*entity.Balance, error) {
	query := `
		INSERT INTO balances (warehouse_id, product_id, quantity, fractional_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              fractional_quantity = EXCLUDED.fractional_quantity,
		              updated_at = now()
		RETURNING ` + balanceColumns
	b, err := scanBalance(r.q.QueryRow(ctx, query, warehouseID, productID, quantity, fractionalQuantity))
	if err != nil {
		if isCheckViolation(err) {
			return nil, fmt.Errorf("%w: saldo negativo rechazado por la base de datos", domain.ErrInsufficientStock)
		}
		return nil, mapWriteError("upsert balance", err)
	}
	return b, nil
}

// ListByWarehouse saldos de una bodega.
func (r *BalanceRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Balance, error) {
	if !validID(warehouseID) {
		return []*entity.Balance{}, nil
	}
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE warehouse_id = $1 ORDER BY product_id`
	return r.list(ctx, query, warehouseID)
}

// ListByProduct saldos de un producto en todas las bodegas.
func (r *BalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Balance, error) {
	if !validID(productID) {
		return []*entity.Balance{}, nil
	}
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE product_id = $1 ORDER BY warehouse_id`
	return r.list(ctx, query, productID)
}

func (r *BalanceRepo) list(ctx context.Context, query string, arg string) ([]*entity.Balance, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
