package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/inventario-bodegas/internal/domain/entity"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
)

// Store almacenamiento en memoria que implementa los mismos puertos que el adaptador de
// PostgreSQL. Las transacciones se ejecutan una a la vez y sus escrituras solo se
// publican al confirmar.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	products   map[string]entity.Product
	warehouses map[string]entity.Warehouse
	balances   map[string]entity.Balance
	movements  []entity.Movement
	transfers  []entity.Transfer
	tables     map[string]map[string]repository.Record
	now        func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		balances:   make(map[string]entity.Balance),
		tables:     make(map[string]map[string]repository.Record),
		now:        time.Now,
	}
}

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{s: s} }

// Balances repositorio de saldos fuera de transacción.
func (s *Store) Balances() repository.BalanceRepository { return &balanceRepo{s: s} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Transfers repositorio de traslados fuera de transacción.
func (s *Store) Transfers() repository.TransferRepository { return &transferRepo{s: s} }

// Records store genérico de categorías, empleados y empresa.
func (s *Store) Records() repository.RecordStore { return &recordStore{s: s} }

// TxRunner ejecutor de transacciones sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }
