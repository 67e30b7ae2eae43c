package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fluxa-api/internal/application/auth"
	appinventory "github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/application/report"
	"github.com/jhoicas/fluxa-api/internal/application/sales"
	"github.com/jhoicas/fluxa-api/internal/application/usecase"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/memstore"
	infrapdf "github.com/jhoicas/fluxa-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/fluxa-api/internal/interfaces/http"
	"github.com/jhoicas/fluxa-api/pkg/config"
	"github.com/jhoicas/fluxa-api/pkg/logger"
	"github.com/jhoicas/fluxa-api/pkg/metrics"
)

const swaggerFile = "./docs/swagger.json"

// stores repositorios y unidad de trabajo del driver elegido.
type stores struct {
	uow       repository.UnitOfWork
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	sales     repository.SaleRepository
	users     repository.UserRepository
	close     func()
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

	m := metrics.New("fluxa")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer st.close()

	// Idempotency-Key solo con Redis configurado; si no responde al arrancar se sigue sin él.
	var idem httpRouter.IdempotencyStore
	if cfg.Redis.Enabled() {
		client := redisstore.NewClient(cfg.Redis)
		defer client.Close()
		store := redisstore.NewIdempotencyStore(client, "", cfg.Redis.IdempotencyTTL)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := store.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, idempotencia desactivada")
		} else {
			idem = store
		}
		cancel()
	}

	ledger := appinventory.NewStockLedger(m, log)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// PDF: reporte mensual de stock y finanzas
	pdfGenerator := infrapdf.NewMarotoReportGenerator("Fluxa")

	var swagger string
	if _, err := os.Stat(swaggerFile); err == nil {
		swagger = swaggerFile
	}

	app := httpRouter.NewApp(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	}, httpRouter.RouterDeps{
		AppName:          cfg.App.Name,
		SupplierUC:       usecase.NewSupplierUseCase(st.suppliers),
		ProductUC:        usecase.NewProductUseCase(st.uow, ledger, st.products),
		UserUC:           usecase.NewUserUseCase(st.users),
		RegisterMovement: appinventory.NewRegisterMovementUseCase(st.uow, ledger, st.products, st.movements),
		CreateSale:       sales.NewCreateSaleUseCase(st.uow, ledger, m, log),
		ListSales:        sales.NewListSalesUseCase(st.sales),
		ReportUC:         report.NewReportUseCase(st.sales, st.products, pdfGenerator, cfg.Report.LowStockThreshold),
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
		Metrics:          m,
		Logger:           log,
		Idempotency:      idem,
		SwaggerFile:      swagger,
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
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memstore.New()
		return &stores{
			uow:       mem,
			suppliers: mem.Suppliers(),
			products:  mem.Products(),
			movements: mem.StockMovements(),
			sales:     mem.Sales(),
			users:     mem.Users(),
			close:     func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		mg, err := postgres.NewMigrator(cfg.DB.ConnectionString())
		if err != nil {
			return nil, err
		}
		err = mg.Up()
		_ = mg.Close()
		if err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		uow:       postgres.NewUnitOfWork(pool),
		suppliers: postgres.NewSupplierRepository(pool),
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}, nil
}
