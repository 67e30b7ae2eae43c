// migrate administra el esquema de PostgreSQL y carga datos de demostración.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down --steps 1
//	go run ./cmd/migrate version
//	go run ./cmd/migrate seed
//
// La conexión sale de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	appinventory "github.com/jhoicas/fluxa-api/internal/application/inventory"
	"github.com/jhoicas/fluxa-api/internal/application/usecase"
	"github.com/jhoicas/fluxa-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fluxa-api/pkg/config"
	"github.com/jhoicas/fluxa-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "migraciones y datos de demostración de Fluxa",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "aplica las migraciones pendientes",
				Action: withMigrator(func(_ *cli.Context, mg *postgres.Migrator) error { return mg.Up() }),
			},
			{
				Name:  "down",
				Usage: "revierte migraciones",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "cantidad a revertir (0 = todas)"},
				},
				Action: withMigrator(func(c *cli.Context, mg *postgres.Migrator) error {
					return mg.Down(c.Int("steps"))
				}),
			},
			{
				Name:  "version",
				Usage: "muestra la versión aplicada",
				Action: withMigrator(func(_ *cli.Context, mg *postgres.Migrator) error {
					v, dirty, err := mg.Version()
					if err != nil {
						return err
					}
					fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
					return nil
				}),
			},
			{
				Name:   "seed",
				Usage:  "crea un proveedor y productos de demostración con su stock inicial",
				Action: seed,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func withMigrator(fn func(*cli.Context, *postgres.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		mg, err := postgres.NewMigrator(cfg.DB.ConnectionString())
		if err != nil {
			return err
		}
		defer mg.Close()
		return fn(c, mg)
	}
}

type seedProduct struct {
	title, category string
	purchase, sale  string
	quantity        int
}

var demoProducts = []seedProduct{
	{"Silla Eames", "Sillas", "45.00", "89.90", 12},
	{"Mesa de roble", "Mesas", "180.00", "349.00", 4},
	{"Lámpara de pie", "Iluminación", "22.50", "54.99", 8},
	{"Estantería modular", "Almacenaje", "95.00", "179.00", 0},
}

// seed pasa por ProductUseCase para que cada stock inicial quede en el libro de movimientos.
func seed(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	uow := postgres.NewUnitOfWork(pool)
	ledger := appinventory.NewStockLedger(nil, log)
	supplierUC := usecase.NewSupplierUseCase(postgres.NewSupplierRepository(pool))
	productUC := usecase.NewProductUseCase(uow, ledger, postgres.NewProductRepository(pool))

	sup, err := supplierUC.Create(ctx, dto.CreateSupplierRequest{
		CompanyName: "Muebles Demo S.A.S.",
		TaxID:       "900000001",
		ContactName: "Equipo Fluxa",
		Phone:       "6010000000",
	})
	if err != nil {
		return fmt.Errorf("crear proveedor: %w", err)
	}
	for _, p := range demoProducts {
		out, err := productUC.Create(ctx, dto.CreateProductRequest{
			Title:         p.title,
			Category:      p.category,
			PurchasePrice: decimal.RequireFromString(p.purchase),
			SalePrice:     decimal.RequireFromString(p.sale),
			Quantity:      p.quantity,
			SupplierID:    sup.ID,
		})
		if err != nil {
			return fmt.Errorf("crear producto %q: %w", p.title, err)
		}
		log.Info().Int64("product_id", out.ID).Str("title", out.Title).Int("quantity", out.Quantity).Msg("producto de demostración creado")
	}
	return nil
}
