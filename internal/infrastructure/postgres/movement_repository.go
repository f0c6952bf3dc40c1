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

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id::text, product_id::text, warehouse_id::text, type, quantity, fractional_quantity,
	date, employee_id::text, notes, created_at`

// MovementRepo kardex sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	err := row.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &typ, &m.Quantity, &m.FractionalQuantity,
		&m.Date, &m.EmployeeID, &m.Notes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	return &m, nil
}

// Create registra un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, warehouse_id, type, quantity, fractional_quantity, date, employee_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, string(m.Type), m.Quantity, m.FractionalQuantity,
		m.Date, m.EmployeeID, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento. domain.ErrNotFound si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List kardex más reciente primero; warehouseID vacío lista todas las bodegas.
func (r *MovementRepo) List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	if warehouseID != "" && !validID(warehouseID) {
		return []*entity.Movement{}, nil
	}
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE ($1 = '' OR warehouse_id::text = $1)
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
