package inventory

import (
	"context"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// RecordMovementFromRequest adapta el request HTTP al comando RecordMovement.
func (s *MovementService) RecordMovementFromRequest(ctx context.Context, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	mov, err := s.RecordMovement(ctx, RecordMovementCommand{
		ProductID:          in.ProductID,
		WarehouseID:        in.WarehouseID,
		Type:               entity.MovementType(in.Type),
		Quantity:           in.Quantity,
		FractionalQuantity: in.FractionalQuantity,
		EmployeeID:         in.EmployeeID,
		Date:               date,
		Notes:              in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

// RecordTransferFromRequest adapta el request HTTP al comando RecordTransfer.
func (s *MovementService) RecordTransferFromRequest(ctx context.Context, in dto.RecordTransferRequest) (*dto.TransferResponse, error) {
	date, err := dto.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	tr, err := s.RecordTransfer(ctx, RecordTransferCommand{
		ProductID:              in.ProductID,
		OriginWarehouseID:      in.OriginWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		Quantity:               in.Quantity,
		FractionalQuantity:     in.FractionalQuantity,
		Date:                   date,
		Notes:                  in.Notes,
	})
	if err != nil {
		return nil, err
	}
	out := toTransferResponse(tr)
	return &out, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                 m.ID,
		ProductID:          m.ProductID,
		WarehouseID:        m.WarehouseID,
		Type:               string(m.Type),
		Quantity:           m.Quantity,
		FractionalQuantity: m.FractionalQuantity,
		Date:               m.Date.Format(dto.DateLayout),
		EmployeeID:         m.EmployeeID,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:                     t.ID,
		ProductID:              t.ProductID,
		OriginWarehouseID:      t.OriginWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		Quantity:               t.Quantity,
		FractionalQuantity:     t.FractionalQuantity,
		Date:                   t.Date.Format(dto.DateLayout),
		Notes:                  t.Notes,
		CreatedAt:              t.CreatedAt,
	}
}

// toBalanceResponse p puede ser nil si el producto fue borrado del catálogo.
func toBalanceResponse(b *entity.Balance, p *entity.Product) dto.BalanceResponse {
	out := dto.BalanceResponse{
		WarehouseID:        b.WarehouseID,
		ProductID:          b.ProductID,
		Quantity:           b.Quantity,
		FractionalQuantity: b.FractionalQuantity,
	}
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		out.UpdatedAt = &t
	}
	if p != nil {
		out.ProductName = p.Name
		out.Fractionable = p.Fractionable
		out.UnitsPerPackage = p.UnitsPerPackage
	}
	return out
}
