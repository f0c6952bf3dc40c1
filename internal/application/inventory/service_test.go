package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-bodegas/internal/application/dto"
	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
)

// ────────────────────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	svc   *inventory.MovementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixtureWithRunner(t, store, store.TxRunner())
}

func newFixtureWithRunner(t *testing.T, store *memory.Store, runner inventory.TxRunner) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	units := int64(10)
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Arroz", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", Name: "Tornillos", Fractionable: true, UnitsPerPackage: &units, CreatedAt: now, UpdatedAt: now}))
	for _, id := range []string{"w1", "w2"} {
		require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: id, Name: "Bodega " + id, Kind: entity.WarehouseKindBlanca}))
	}
	_, err := store.Records().Insert(ctx, repository.TableEmployees, repository.Record{"id": "e1", "name": "Ana"})
	require.NoError(t, err)

	svc := inventory.NewMovementService(inventory.ServiceDeps{
		TxRunner:   runner,
		Locker:     lock.NewKeyedMutex(),
		Products:   store.Products(),
		Warehouses: store.Warehouses(),
		Records:    store.Records(),
		Movements:  store.Movements(),
		Transfers:  store.Transfers(),
		Balances:   store.Balances(),
	}, zerolog.Nop())
	return &fixture{store: store, svc: svc}
}

func (f *fixture) seed(t *testing.T, warehouseID, productID string, qty, frac int64) {
	t.Helper()
	_, err := f.store.Balances().Upsert(context.Background(), warehouseID, productID, qty, frac)
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, warehouseID, productID string) entity.Balance {
	t.Helper()
	b, err := f.store.Balances().Get(context.Background(), warehouseID, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return entity.Balance{WarehouseID: warehouseID, ProductID: productID}
	}
	require.NoError(t, err)
	return *b
}

func i64(v int64) *int64 { return &v }

func entrada(productID, warehouseID string, qty int64) inventory.RecordMovementCommand {
	return inventory.RecordMovementCommand{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Type:        entity.MovementTypeEntrada,
		Quantity:    qty,
		EmployeeID:  "e1",
	}
}

func salida(productID, warehouseID string, qty int64) inventory.RecordMovementCommand {
	cmd := entrada(productID, warehouseID, qty)
	cmd.Type = entity.MovementTypeSalida
	return cmd
}

// ────────────────────────────────────────────────────────────────────────────
// Movimientos
// ────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaCreatesBalance(t *testing.T) {
	f := newFixture(t)

	mov, err := f.svc.RecordMovement(context.Background(), entrada("p1", "w1", 10))
	require.NoError(t, err)
	assert.NotEmpty(t, mov.ID)
	assert.Nil(t, mov.FractionalQuantity)
	assert.False(t, mov.Date.IsZero())

	b := f.balance(t, "w1", "p1")
	assert.Equal(t, int64(10), b.Quantity)
	assert.Equal(t, int64(0), b.FractionalQuantity)
}

func TestRecordMovement_SalidaInsufficientRollsBackAudit(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p1", 5, 0)

	_, err := f.svc.RecordMovement(context.Background(), salida("p1", "w1", 10))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.balance(t, "w1", "p1").Quantity)
	list, err := f.svc.ListMovements(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRecordMovement_FractionalSalida(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p2", 20, 3)

	cmd := salida("p2", "w1", 5)
	cmd.FractionalQuantity = i64(2)
	mov, err := f.svc.RecordMovement(context.Background(), cmd)
	require.NoError(t, err)
	require.NotNil(t, mov.FractionalQuantity)
	assert.Equal(t, int64(2), *mov.FractionalQuantity)

	b := f.balance(t, "w1", "p2")
	assert.Equal(t, int64(15), b.Quantity)
	assert.Equal(t, int64(1), b.FractionalQuantity)
}

func TestRecordMovement_FractionOnNonFractionableProduct(t *testing.T) {
	f := newFixture(t)

	cmd := entrada("p1", "w1", 1)
	cmd.FractionalQuantity = i64(3)
	_, err := f.svc.RecordMovement(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrFractionNotAllowed)
	assert.Equal(t, int64(0), f.balance(t, "w1", "p1").Quantity)
}

func TestRecordMovement_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		cmd  inventory.RecordMovementCommand
		want error
	}{
		{"sin producto", entrada("", "w1", 1), domain.ErrInvalidInput},
		{"tipo inválido", func() inventory.RecordMovementCommand {
			c := entrada("p1", "w1", 1)
			c.Type = "ajuste"
			return c
		}(), domain.ErrInvalidInput},
		{"cantidad cero", entrada("p1", "w1", 0), domain.ErrInvalidInput},
		{"cantidad negativa", entrada("p1", "w1", -1), domain.ErrInvalidInput},
		{"sin empleado", func() inventory.RecordMovementCommand {
			c := entrada("p1", "w1", 1)
			c.EmployeeID = ""
			return c
		}(), domain.ErrInvalidInput},
		{"producto inexistente", entrada("nope", "w1", 1), domain.ErrNotFound},
		{"bodega inexistente", entrada("p1", "nope", 1), domain.ErrNotFound},
		{"empleado inexistente", func() inventory.RecordMovementCommand {
			c := entrada("p1", "w1", 1)
			c.EmployeeID = "nadie"
			return c
		}(), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordMovement(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecordMovement_OnlyFractionalAmountIsValid(t *testing.T) {
	f := newFixture(t)

	cmd := entrada("p2", "w1", 0)
	cmd.FractionalQuantity = i64(4)
	_, err := f.svc.RecordMovement(context.Background(), cmd)
	require.NoError(t, err)

	b := f.balance(t, "w1", "p2")
	assert.Equal(t, int64(0), b.Quantity)
	assert.Equal(t, int64(4), b.FractionalQuantity)
}

func TestRecordMovement_EntradaOverflowLeavesBalance(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p1", 5, 0)
	f.seed(t, "w1", "p2", 0, 7)

	_, err := f.svc.RecordMovement(context.Background(), entrada("p1", "w1", math.MaxInt64))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(5), f.balance(t, "w1", "p1").Quantity)

	cmd := entrada("p2", "w1", 0)
	cmd.FractionalQuantity = i64(math.MaxInt64)
	_, err = f.svc.RecordMovement(context.Background(), cmd)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(7), f.balance(t, "w1", "p2").FractionalQuantity)

	list, err := f.svc.ListMovements(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "una entrada rechazada no deja rastro en el kardex")
}

func TestRecordMovement_LargeAmountsAreNotSummed(t *testing.T) {
	f := newFixture(t)

	cmd := entrada("p2", "w1", math.MaxInt64)
	cmd.FractionalQuantity = i64(1)
	_, err := f.svc.RecordMovement(context.Background(), cmd)
	require.NoError(t, err)

	b := f.balance(t, "w1", "p2")
	assert.Equal(t, int64(math.MaxInt64), b.Quantity)
	assert.Equal(t, int64(1), b.FractionalQuantity)
}

// unfractionOnLock simula que el producto pasa a no fraccionable justo antes de obtener el bloqueo.
type unfractionOnLock struct {
	inner    inventory.Locker
	products repository.ProductRepository
}

func (l unfractionOnLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	for _, k := range keys {
		if k != entity.ProductKey("p2") {
			continue
		}
		p, err := l.products.GetByID(ctx, "p2")
		if err != nil {
			return nil, err
		}
		changed := *p
		changed.Fractionable = false
		changed.UnitsPerPackage = nil
		if err := l.products.Update(ctx, &changed); err != nil {
			return nil, err
		}
	}
	return l.inner.Lock(ctx, keys...)
}

func TestRecordMovement_RechecksFractionableUnderLock(t *testing.T) {
	f := newFixture(t)
	svc := inventory.NewMovementService(inventory.ServiceDeps{
		TxRunner:   f.store.TxRunner(),
		Locker:     unfractionOnLock{inner: lock.NewKeyedMutex(), products: f.store.Products()},
		Products:   f.store.Products(),
		Warehouses: f.store.Warehouses(),
		Records:    f.store.Records(),
		Movements:  f.store.Movements(),
		Transfers:  f.store.Transfers(),
		Balances:   f.store.Balances(),
	}, zerolog.Nop())

	cmd := entrada("p2", "w1", 1)
	cmd.FractionalQuantity = i64(2)
	_, err := svc.RecordMovement(context.Background(), cmd)
	require.ErrorIs(t, err, domain.ErrFractionNotAllowed)

	b := f.balance(t, "w1", "p2")
	assert.Equal(t, int64(0), b.Quantity)
	assert.Equal(t, int64(0), b.FractionalQuantity)
	list, err := svc.ListMovements(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRecordMovement_DateDefaultsToToday(t *testing.T) {
	f := newFixture(t)

	mov, err := f.svc.RecordMovement(context.Background(), entrada("p1", "w1", 1))
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format(dto.DateLayout), mov.Date.Format(dto.DateLayout))

	cmd := entrada("p1", "w1", 1)
	cmd.Date = time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
	mov, err = f.svc.RecordMovement(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", mov.Date.Format(dto.DateLayout))
}

func TestRecordMovement_ConcurrentSalidasNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p1", 10, 0)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RecordMovement(context.Background(), salida("p1", "w1", 1))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, fail)
	assert.Equal(t, int64(0), f.balance(t, "w1", "p1").Quantity)
}

// ────────────────────────────────────────────────────────────────────────────
// Traslados
// ────────────────────────────────────────────────────────────────────────────

func TestRecordTransfer_MovesStock(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p1", 10, 0)

	tr, err := f.svc.RecordTransfer(context.Background(), inventory.RecordTransferCommand{
		ProductID: "p1", OriginWarehouseID: "w1", DestinationWarehouseID: "w2", Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "w1", tr.OriginWarehouseID)
	assert.Equal(t, "w2", tr.DestinationWarehouseID)

	assert.Equal(t, int64(6), f.balance(t, "w1", "p1").Quantity)
	assert.Equal(t, int64(4), f.balance(t, "w2", "p1").Quantity)

	list, err := f.svc.ListTransfers(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, tr.ID, list.Items[0].ID)
}

func TestRecordTransfer_InsufficientOriginLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p1", 3, 0)

	_, err := f.svc.RecordTransfer(context.Background(), inventory.RecordTransferCommand{
		ProductID: "p1", OriginWarehouseID: "w1", DestinationWarehouseID: "w2", Quantity: 4,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(3), f.balance(t, "w1", "p1").Quantity)
	_, err = f.store.Balances().Get(context.Background(), "w2", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.svc.ListTransfers(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRecordTransfer_SameWarehouse(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RecordTransfer(context.Background(), inventory.RecordTransferCommand{
		ProductID: "p1", OriginWarehouseID: "w1", DestinationWarehouseID: "w1", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrSameWarehouse)
}

// failingCreditRunner hace fallar la segunda escritura de saldo (el crédito al destino).
type failingCreditRunner struct {
	inner *memory.TxRunner
}

var errStoreDown = errors.New("store caído")

func (r failingCreditRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
	balanceRepo repository.BalanceRepository,
) error) error {
	return r.inner.Run(ctx, func(ctx context.Context, m repository.MovementRepository, tr repository.TransferRepository, b repository.BalanceRepository) error {
		return fn(ctx, m, tr, &failSecondUpsert{BalanceRepository: b})
	})
}

type failSecondUpsert struct {
	repository.BalanceRepository
	calls int
}

func (f *failSecondUpsert) Upsert(ctx context.Context, w, p string, q, fr int64) (*entity.Balance, error) {
	f.calls++
	if f.calls == 2 {
		return nil, errStoreDown
	}
	return f.BalanceRepository.Upsert(ctx, w, p, q, fr)
}

func TestRecordTransfer_StoreFailureOnCreditRollsBackDebit(t *testing.T) {
	store := memory.NewStore()
	f := newFixtureWithRunner(t, store, failingCreditRunner{inner: store.TxRunner()})
	f.seed(t, "w1", "p1", 10, 0)

	_, err := f.svc.RecordTransfer(context.Background(), inventory.RecordTransferCommand{
		ProductID: "p1", OriginWarehouseID: "w1", DestinationWarehouseID: "w2", Quantity: 4,
	})
	require.ErrorIs(t, err, errStoreDown)

	assert.Equal(t, int64(10), f.balance(t, "w1", "p1").Quantity)
	assert.Equal(t, int64(0), f.balance(t, "w2", "p1").Quantity)
	list, err := f.svc.ListTransfers(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestRecordTransfer_ConcurrentKeepsTotals(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p1", 50, 0)
	f.seed(t, "w2", "p1", 50, 0)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		origin, dest := "w1", "w2"
		if i%2 == 1 {
			origin, dest = dest, origin
		}
		go func() {
			defer wg.Done()
			_, _ = f.svc.RecordTransfer(context.Background(), inventory.RecordTransferCommand{
				ProductID: "p1", OriginWarehouseID: origin, DestinationWarehouseID: dest, Quantity: 3,
			})
		}()
	}
	wg.Wait()

	w1, w2 := f.balance(t, "w1", "p1"), f.balance(t, "w2", "p1")
	assert.Equal(t, int64(100), w1.Quantity+w2.Quantity)
	assert.GreaterOrEqual(t, w1.Quantity, int64(0))
	assert.GreaterOrEqual(t, w2.Quantity, int64(0))

	balances, err := f.svc.ListProductBalances(context.Background(), "p1")
	require.NoError(t, err)
	var total int64
	for _, b := range balances {
		total += b.Quantity
	}
	assert.Equal(t, int64(100), total)
}

// ────────────────────────────────────────────────────────────────────────────
// Consultas
// ────────────────────────────────────────────────────────────────────────────

func TestGetBalance_MissingRowIsZero(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.GetBalance(context.Background(), "w1", "p2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Quantity)
	assert.Equal(t, "Tornillos", b.ProductName)
	assert.True(t, b.Fractionable)
	assert.Nil(t, b.UpdatedAt)

	_, err = f.svc.GetBalance(context.Background(), "nope", "p2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListWarehouseBalances_EnrichedAndSorted(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "w1", "p2", 7, 2)
	f.seed(t, "w1", "p1", 3, 0)
	f.seed(t, "w2", "p1", 1, 0)

	res, err := f.svc.ListWarehouseBalances(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Arroz", res.Items[0].ProductName)
	assert.Equal(t, "Tornillos", res.Items[1].ProductName)
	assert.Equal(t, int64(2), res.Items[1].FractionalQuantity)
	require.NotNil(t, res.Items[1].UnitsPerPackage)
	assert.Equal(t, int64(10), *res.Items[1].UnitsPerPackage)
}

func TestListMovements_NewestFirstAndFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := entrada("p1", "w1", 1)
	old.Date = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := entrada("p1", "w1", 2)
	recent.Date = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	other := entrada("p1", "w2", 3)
	other.Date = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, cmd := range []inventory.RecordMovementCommand{old, recent, other} {
		_, err := f.svc.RecordMovement(ctx, cmd)
		require.NoError(t, err)
	}

	all, err := f.svc.ListMovements(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "2024-06-01", all.Items[0].Date)
	assert.Equal(t, "2024-03-01", all.Items[1].Date)

	w1, err := f.svc.ListMovements(ctx, "w1", dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, w1.Items, 1)
	assert.Equal(t, int64(2), w1.Items[0].Quantity)
	assert.Equal(t, 1, w1.Page.Limit)
}

func TestRecordMovementFromRequest_ParsesDate(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.RecordMovementFromRequest(context.Background(), dto.RecordMovementRequest{
		ProductID: "p1", WarehouseID: "w1", Type: "entrada", Quantity: 2, EmployeeID: "e1", Date: "2024-05-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", out.Date)
	assert.Equal(t, "entrada", out.Type)

	_, err = f.svc.RecordMovementFromRequest(context.Background(), dto.RecordMovementRequest{
		ProductID: "p1", WarehouseID: "w1", Type: "entrada", Quantity: 2, EmployeeID: "e1", Date: "10/05/2024",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
