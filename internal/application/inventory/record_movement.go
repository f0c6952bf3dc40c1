package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// RecordMovement registra una entrada o salida de kardex y ajusta el saldo de la bodega.
// Valida el comando y las referencias antes de tocar el store; bloquea el saldo y dentro de
// una transacción crea el movimiento y aplica el ajuste (entrada suma, salida resta).
// Si el ajuste falla (p. ej. ErrInsufficientStock) el movimiento tampoco queda registrado.
func (s *MovementService) RecordMovement(ctx context.Context, cmd RecordMovementCommand) (*entity.Movement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	product, err := s.lookup(ctx, cmd.ProductID, []string{cmd.WarehouseID}, cmd.EmployeeID)
	if err != nil {
		return nil, err
	}
	frac := fractional(cmd.FractionalQuantity)
	if frac > 0 && !product.Fractionable {
		return nil, domain.ErrFractionNotAllowed
	}

	now := s.now()
	mov := &entity.Movement{
		ID:                 uuid.New().String(),
		ProductID:          cmd.ProductID,
		WarehouseID:        cmd.WarehouseID,
		Type:               cmd.Type,
		Quantity:           cmd.Quantity,
		FractionalQuantity: storedFraction(cmd.FractionalQuantity),
		Date:               dayOf(cmd.Date, now),
		EmployeeID:         cmd.EmployeeID,
		Notes:              cmd.Notes,
		CreatedAt:          now,
	}
	adj := stock.Adjustment{
		Direction:    stock.Credit,
		Quantity:     cmd.Quantity,
		Fractional:   frac,
		Fractionable: product.Fractionable,
	}
	if cmd.Type == entity.MovementTypeSalida {
		adj.Direction = stock.Debit
	}

	keys := []string{entity.BalanceKey(cmd.WarehouseID, cmd.ProductID)}
	if frac > 0 {
		keys = append(keys, entity.ProductKey(cmd.ProductID))
	}
	unlock, err := s.lockBalances(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()
	if frac > 0 {
		if err := s.recheckFractionable(ctx, cmd.ProductID); err != nil {
			s.logRejected(err, "movement", cmd.ProductID)
			return nil, err
		}
	}

	var balance *entity.Balance
	err = s.txRunner.Run(ctx, func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		_ repository.TransferRepository,
		balanceRepo repository.BalanceRepository,
	) error {
		if err := movRepo.Create(ctx, mov); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}
		b, err := adjustBalance(ctx, balanceRepo, mov.WarehouseID, mov.ProductID, adj)
		if err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		s.logRejected(err, "movement", cmd.ProductID)
		return nil, err
	}

	s.log.Info().
		Str("movement_id", mov.ID).
		Str("type", string(mov.Type)).
		Str("warehouse_id", mov.WarehouseID).
		Str("product_id", mov.ProductID).
		Int64("quantity", mov.Quantity).
		Int64("fractional_quantity", frac).
		Int64("balance_quantity", balance.Quantity).
		Int64("balance_fractional", balance.FractionalQuantity).
		Msg("movimiento registrado")
	return mov, nil
}
