package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-bodegas/internal/application/inventory"
	"github.com/jhoicas/inventario-bodegas/internal/application/usecase"
	"github.com/jhoicas/inventario-bodegas/internal/domain/repository"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-bodegas/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-bodegas/internal/interfaces/http"
	"github.com/jhoicas/inventario-bodegas/pkg/config"
	"github.com/jhoicas/inventario-bodegas/pkg/logger"
)

// stores adaptadores de persistencia elegidos según STORE_DRIVER.
type stores struct {
	txRunner   inventory.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	balances   repository.BalanceRepository
	movements  repository.MovementRepository
	transfers  repository.TransferRepository
	records    repository.RecordStore
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer st.close()

	var locker inventory.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Enabled() {
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, cfg.Lock.TTL, log.Component("lock"))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo de saldos distribuido (Redis)")
	}

	movementSvc := inventory.NewMovementService(inventory.ServiceDeps{
		TxRunner:   st.txRunner,
		Locker:     locker,
		Products:   st.products,
		Warehouses: st.warehouses,
		Records:    st.records,
		Movements:  st.movements,
		Transfers:  st.transfers,
		Balances:   st.balances,
	}, log.Zerolog())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Bodegas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements:   movementSvc,
		CompanyUC:   usecase.NewCompanyUseCase(st.records),
		WarehouseUC: usecase.NewWarehouseUseCase(st.warehouses),
		ProductUC:   usecase.NewProductUseCase(st.products, st.balances, st.records, locker),
		CategoryUC:  usecase.NewCategoryUseCase(st.records),
		EmployeeUC:  usecase.NewEmployeeUseCase(st.records),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &stores{
			txRunner:   mem.TxRunner(),
			products:   mem.Products(),
			warehouses: mem.Warehouses(),
			balances:   mem.Balances(),
			movements:  mem.Movements(),
			transfers:  mem.Transfers(),
			records:    mem.Records(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		txRunner:   postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		balances:   postgres.NewBalanceRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		transfers:  postgres.NewTransferRepository(pool),
		records:    postgres.NewRecordStore(pool),
		close:      pool.Close,
	}, nil
}
