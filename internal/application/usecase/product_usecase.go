package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// Locker bloqueo por llave compartido con el servicio de movimientos.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	balanceRepo repository.BalanceRepository
	records     repository.RecordStore
	locker      Locker
}

// NewProductUseCase construye el caso de uso. locker debe ser el mismo que usa el servicio
// de movimientos para que el cambio de fraccionable no se cruce con una entrada fraccionada.
func NewProductUseCase(repo repository.ProductRepository, balanceRepo repository.BalanceRepository, records repository.RecordStore, locker Locker) *ProductUseCase {
	return &ProductUseCase{repo: repo, balanceRepo: balanceRepo, records: records, locker: locker}
}

// Create crea un nuevo producto. UnitsPerPackage solo se guarda si es fraccionable.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		CategoryID:   in.CategoryID,
		Fractionable: in.Fractionable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Fractionable {
		product.UnitsPerPackage = in.UnitsPerPackage
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No se puede dejar de ser fraccionable mientras quede
// stock fraccionado en alguna bodega.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Fractionable != nil && !*in.Fractionable {
		// Lectura, verificación y escritura bajo la llave del producto.
		unlock, err := uc.locker.Lock(ctx, entity.ProductKey(id))
		if err != nil {
			return nil, fmt.Errorf("lock product: %w", err)
		}
		defer unlock()
	}
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Fractionable != nil && !*in.Fractionable && product.Fractionable {
		if err := uc.checkNoFractionalStock(ctx, id); err != nil {
			return nil, err
		}
		product.Fractionable = false
	} else if in.Fractionable != nil {
		product.Fractionable = *in.Fractionable
	}
	if in.UnitsPerPackage != nil {
		product.UnitsPerPackage = in.UnitsPerPackage
	}
	if !product.Fractionable {
		product.UnitsPerPackage = nil
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page = page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto. Falla con domain.ErrConflict si tiene saldo o movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	_, err := uc.records.FindOne(ctx, repository.TableCategories, repository.Filter{"id": categoryID})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidInput, categoryID)
	}
	return err
}

func (uc *ProductUseCase) checkNoFractionalStock(ctx context.Context, productID string) error {
	balances, err := uc.balanceRepo.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	for _, b := range balances {
		if b.FractionalQuantity > 0 {
			return fmt.Errorf("%w: hay unidades fraccionadas en bodega %s", domain.ErrConflict, b.WarehouseID)
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		CategoryID:      p.CategoryID,
		Fractionable:    p.Fractionable,
		UnitsPerPackage: p.UnitsPerPackage,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
