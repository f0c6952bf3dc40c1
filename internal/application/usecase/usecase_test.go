package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func TestWarehouseUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewWarehouseUseCase(memory.NewStore().Warehouses())

	_, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Zona Norte", Kind: "gris"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	b, err := uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Zona Norte", Kind: "blanca", City: "Cali"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Name: "Almacén Central", Kind: "oscura"})
	require.NoError(t, err)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Almacén Central", list.Items[0].Name)
	assert.Equal(t, dto.DefaultLimit, list.Page.Limit)

	upd, err := uc.Update(ctx, b.ID, dto.UpdateWarehouseRequest{City: ptr("Palmira")})
	require.NoError(t, err)
	assert.Equal(t, "Palmira", upd.City)
	assert.Equal(t, "Zona Norte", upd.Name)

	require.NoError(t, uc.Delete(ctx, b.ID))
	_, err = uc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_FractionableRules(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Products(), store.Balances(), store.Records(), lock.NewKeyedMutex())

	plain, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Arroz", Price: decimal.NewFromInt(3500), UnitsPerPackage: ptr(int64(12))})
	require.NoError(t, err)
	assert.Nil(t, plain.UnitsPerPackage)

	frac, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Tornillos", Fractionable: true, UnitsPerPackage: ptr(int64(100))})
	require.NoError(t, err)
	require.NotNil(t, frac.UnitsPerPackage)
	assert.Equal(t, int64(100), *frac.UnitsPerPackage)

	_, err = store.Balances().Upsert(ctx, "w1", frac.ID, 2, 30)
	require.NoError(t, err)
	_, err = uc.Update(ctx, frac.ID, dto.UpdateProductRequest{Fractionable: ptr(false)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "Sal", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Apagar fraccionable espera la llave del producto que toman los movimientos fraccionados.
func TestProductUseCase_DisableFractionableWaitsForProductKey(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	locker := lock.NewKeyedMutex()
	uc := usecase.NewProductUseCase(store.Products(), store.Balances(), store.Records(), locker)

	p, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Tornillos", Fractionable: true, UnitsPerPackage: ptr(int64(10))})
	require.NoError(t, err)

	unlock, err := locker.Lock(ctx, entity.ProductKey(p.ID))
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = uc.Update(short, p.ID, dto.UpdateProductRequest{Fractionable: ptr(false)})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Fractionable, "sin la llave no se toca el producto")

	unlock()
	upd, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Fractionable: ptr(false)})
	require.NoError(t, err)
	assert.False(t, upd.Fractionable)
	assert.Nil(t, upd.UnitsPerPackage)
}

func TestProductUseCase_CategoryMustExist(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := usecase.NewProductUseCase(store.Products(), store.Balances(), store.Records(), lock.NewKeyedMutex())
	categories := usecase.NewCategoryUseCase(store.Records())

	_, err := products.Create(ctx, dto.CreateProductRequest{Name: "Arroz", CategoryID: "nope"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	cat, err := categories.Create(ctx, dto.CategoryRequest{Name: "Granos"})
	require.NoError(t, err)
	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Arroz", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, p.CategoryID)

	// la categoría está en uso
	assert.ErrorIs(t, categories.Delete(ctx, cat.ID), domain.ErrConflict)
}

func TestCategoryUseCase_ListOrderedByName(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCategoryUseCase(memory.NewStore().Records())

	for _, name := range []string{"Limpieza", "Aseo", "Granos"} {
		_, err := uc.Create(ctx, dto.CategoryRequest{Name: name})
		require.NoError(t, err)
	}
	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Aseo", "Granos", "Limpieza"}, []string{list[0].Name, list[1].Name, list[2].Name})

	upd, err := uc.Update(ctx, list[0].ID, dto.CategoryRequest{Name: "Aseo personal"})
	require.NoError(t, err)
	assert.Equal(t, "Aseo personal", upd.Name)
	assert.Equal(t, list[0].CreatedAt, upd.CreatedAt)
}

func TestEmployeeUseCase_Validation(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewEmployeeUseCase(memory.NewStore().Records())

	_, err := uc.Create(ctx, dto.EmployeeRequest{Name: "Ana", Email: "no-es-correo"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	e, err := uc.Create(ctx, dto.EmployeeRequest{Name: "Ana", Email: "ana@example.com", Position: "Bodeguera"})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bodeguera", got.Position)

	require.NoError(t, uc.Delete(ctx, e.ID))
	_, err = uc.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyUseCase_SaveCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCompanyUseCase(memory.NewStore().Records())

	_, err := uc.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	first, err := uc.Save(ctx, dto.UpdateCompanyRequest{Name: "Distribuidora", TaxID: "900123456"})
	require.NoError(t, err)
	second, err := uc.Save(ctx, dto.UpdateCompanyRequest{Name: "Distribuidora SAS", TaxID: "900123456"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora SAS", got.Name)
}
