package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-bodegas/internal/domain"
	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/domain/stock"
)

// ServiceDeps dependencias del servicio de movimientos. Los repositorios sueltos sirven
// las consultas; las escrituras pasan siempre por TxRunner.
type ServiceDeps struct {
	TxRunner   TxRunner
	Locker     Locker
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Records    repository.RecordStore
	Movements  repository.MovementRepository
	Transfers  repository.TransferRepository
	Balances   repository.BalanceRepository
}

// MovementService registra entradas, salidas y traslados manteniendo el saldo por bodega:
// el registro de auditoría y los ajustes de saldo se confirman juntos o no se confirman.
type MovementService struct {
	txRunner      TxRunner
	locker        Locker
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	records       repository.RecordStore
	movRepo       repository.MovementRepository
	transferRepo  repository.TransferRepository
	balanceRepo   repository.BalanceRepository
	log           zerolog.Logger
	now           func() time.Time
}

// NewMovementService construye el servicio.
func NewMovementService(deps ServiceDeps, log zerolog.Logger) *MovementService {
	return &MovementService{
		txRunner:      deps.TxRunner,
		locker:        deps.Locker,
		productRepo:   deps.Products,
		warehouseRepo: deps.Warehouses,
		records:       deps.Records,
		movRepo:       deps.Movements,
		transferRepo:  deps.Transfers,
		balanceRepo:   deps.Balances,
		log:           log.With().Str("component", "inventory").Logger(),
		now:           time.Now,
	}
}

// lookup verifica en paralelo que producto, bodegas y empleado existan. employeeID vacío omite
// la verificación del empleado. Devuelve el producto para resolver si es fraccionable.
func (s *MovementService) lookup(ctx context.Context, productID string, warehouseIDs []string, employeeID string) (*entity.Product, error) {
	g, gctx := errgroup.WithContext(ctx)

	var product *entity.Product
	g.Go(func() error {
		p, err := s.productRepo.GetByID(gctx, productID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		product = p
		return nil
	})
	for _, id := range warehouseIDs {
		g.Go(func() error {
			w, err := s.warehouseRepo.GetByID(gctx, id)
			if err != nil {
				return fmt.Errorf("get warehouse: %w", err)
			}
			if w == nil {
				return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
			}
			return nil
		})
	}
	if employeeID != "" {
		g.Go(func() error {
			_, err := s.records.FindOne(gctx, repository.TableEmployees, repository.Filter{"id": employeeID})
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: empleado %s", domain.ErrNotFound, employeeID)
			}
			if err != nil {
				return fmt.Errorf("get employee: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return product, nil
}

// lockBalances toma el bloqueo de cada saldo afectado en orden estable.
func (s *MovementService) lockBalances(ctx context.Context, keys ...string) (func(), error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	unlock, err := s.locker.Lock(ctx, sorted...)
	if err != nil {
		return nil, fmt.Errorf("lock balances: %w", err)
	}
	return unlock, nil
}

// recheckFractionable relee el producto ya con su llave tomada: un cambio a no fraccionable
// confirmado entre la validación y el bloqueo rechaza la operación.
func (s *MovementService) recheckFractionable(ctx context.Context, productID string) error {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if !p.Fractionable {
		return domain.ErrFractionNotAllowed
	}
	return nil
}

// adjustBalance lee el saldo bloqueado (ausente = cero), aplica el ajuste y lo escribe.
// Si el ajuste es rechazado no escribe nada.
func adjustBalance(ctx context.Context, balanceRepo repository.BalanceRepository, warehouseID, productID string, adj stock.Adjustment) (*entity.Balance, error) {
	current := entity.Balance{WarehouseID: warehouseID, ProductID: productID}
	b, err := balanceRepo.GetForUpdate(ctx, warehouseID, productID)
	switch {
	case err == nil:
		current = *b
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, fmt.Errorf("get balance: %w", err)
	}

	next, err := stock.Apply(current, adj)
	if err != nil {
		return nil, err
	}
	updated, err := balanceRepo.Upsert(ctx, warehouseID, productID, next.Quantity, next.FractionalQuantity)
	if err != nil {
		return nil, fmt.Errorf("upsert balance: %w", err)
	}
	return updated, nil
}

// logRejected registra el fallo de una operación: rechazos de negocio en Warn, el resto en Error.
func (s *MovementService) logRejected(err error, op, productID string) {
	ev := s.log.Error()
	if isBusinessError(err) {
		ev = s.log.Warn()
	}
	ev.Err(err).Str("op", op).Str("product_id", productID).Msg("operación de inventario rechazada")
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrInsufficientStock,
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrFractionNotAllowed,
		domain.ErrSameWarehouse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// dayOf devuelve la fecha de la operación; cero = hoy.
func dayOf(d, now time.Time) time.Time {
	if d.IsZero() {
		d = now
	}
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}
