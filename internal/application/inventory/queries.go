package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
)

// ListMovements devuelve el kardex, más reciente primero. warehouseID vacío lista todas las bodegas.
func (s *MovementService) ListMovements(ctx context.Context, warehouseID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page = page.Normalize()
	list, err := s.movRepo.List(ctx, warehouseID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListTransfers devuelve los traslados, más reciente primero.
func (s *MovementService) ListTransfers(ctx context.Context, page dto.PageRequest) (*dto.TransferListResponse, error) {
	page = page.Normalize()
	list, err := s.transferRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetBalance saldo de un producto en una bodega. Sin fila devuelve saldo cero.
func (s *MovementService) GetBalance(ctx context.Context, warehouseID, productID string) (*dto.BalanceResponse, error) {
	product, err := s.lookup(ctx, productID, []string{warehouseID}, "")
	if err != nil {
		return nil, err
	}
	b, err := s.balanceRepo.Get(ctx, warehouseID, productID)
	if errors.Is(err, domain.ErrNotFound) {
		b = &entity.Balance{WarehouseID: warehouseID, ProductID: productID}
	} else if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	out := toBalanceResponse(b, product)
	return &out, nil
}

// ListWarehouseBalances inventario de una bodega con datos del producto, ordenado por nombre.
func (s *MovementService) ListWarehouseBalances(ctx context.Context, warehouseID string) (*dto.BalanceListResponse, error) {
	w, err := s.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, warehouseID)
	}
	balances, err := s.balanceRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	items, err := s.enrichBalances(ctx, balances)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ProductName < items[j].ProductName })
	return &dto.BalanceListResponse{WarehouseID: warehouseID, Items: items}, nil
}

// ListProductBalances saldo de un producto en cada bodega donde ha tenido movimiento.
func (s *MovementService) ListProductBalances(ctx context.Context, productID string) ([]dto.BalanceResponse, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	balances, err := s.balanceRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceResponse(b, p))
	}
	return items, nil
}

func (s *MovementService) enrichBalances(ctx context.Context, balances []*entity.Balance) ([]dto.BalanceResponse, error) {
	ids := make([]string, 0, len(balances))
	for _, b := range balances {
		ids = append(ids, b.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceResponse(b, byID[b.ProductID]))
	}
	return items, nil
}
