package repository

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// MovementRepository persistencia append-only del kardex.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List ordena por fecha descendente; warehouseID vacío lista todas las bodegas.
	List(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Movement, error)
}
