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

// RecordTransfer traslada stock de una bodega a otra. Dentro de una sola transacción crea el
// traslado, descuenta del origen y luego acredita el destino; si el origen no alcanza, el
// destino no se toca y nada queda registrado.
func (s *MovementService) RecordTransfer(ctx context.Context, cmd RecordTransferCommand) (*entity.Transfer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	product, err := s.lookup(ctx, cmd.ProductID, []string{cmd.OriginWarehouseID, cmd.DestinationWarehouseID}, "")
	if err != nil {
		return nil, err
	}
	frac := fractional(cmd.FractionalQuantity)
	if frac > 0 && !product.Fractionable {
		return nil, domain.ErrFractionNotAllowed
	}

	now := s.now()
	tr := &entity.Transfer{
		ID:                     uuid.New().String(),
		ProductID:              cmd.ProductID,
		OriginWarehouseID:      cmd.OriginWarehouseID,
		DestinationWarehouseID: cmd.DestinationWarehouseID,
		Quantity:               cmd.Quantity,
		FractionalQuantity:     storedFraction(cmd.FractionalQuantity),
		Date:                   dayOf(cmd.Date, now),
		Notes:                  cmd.Notes,
		CreatedAt:              now,
	}
	debit := stock.Adjustment{Direction: stock.Debit, Quantity: cmd.Quantity, Fractional: frac, Fractionable: product.Fractionable}
	credit := debit
	credit.Direction = stock.Credit

	keys := []string{
		entity.BalanceKey(cmd.OriginWarehouseID, cmd.ProductID),
		entity.BalanceKey(cmd.DestinationWarehouseID, cmd.ProductID),
	}
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
			s.logRejected(err, "transfer", cmd.ProductID)
			return nil, err
		}
	}

	err = s.txRunner.Run(ctx, func(
		ctx context.Context,
		_ repository.MovementRepository,
		transferRepo repository.TransferRepository,
		balanceRepo repository.BalanceRepository,
	) error {
		if err := transferRepo.Create(ctx, tr); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		// Origen primero: si no alcanza, el destino nunca se acredita.
		if _, err := adjustBalance(ctx, balanceRepo, tr.OriginWarehouseID, tr.ProductID, debit); err != nil {
			return err
		}
		_, err := adjustBalance(ctx, balanceRepo, tr.DestinationWarehouseID, tr.ProductID, credit)
		return err
	})
	if err != nil {
		s.logRejected(err, "transfer", cmd.ProductID)
		return nil, err
	}

	s.log.Info().
		Str("transfer_id", tr.ID).
		Str("origin_warehouse_id", tr.OriginWarehouseID).
		Str("destination_warehouse_id", tr.DestinationWarehouseID).
		Str("product_id", tr.ProductID).
		Int64("quantity", tr.Quantity).
		Int64("fractional_quantity", frac).
		Msg("traslado registrado")
	return tr, nil
}
