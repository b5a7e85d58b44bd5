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
	"github.com/jhoicas/Kardex-api/internal/application/billing"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/seed"
	"github.com/jhoicas/Kardex-api/internal/application/trade"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	domaininv "github.com/jhoicas/Kardex-api/internal/domain/inventory"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

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
		Str("log_level", cfg.App.LogLevel).
		Str("db_driver", cfg.DB.Driver).
		Str("tax_rate", cfg.Ledger.TaxRate.String()).
		Str("delete_policy", cfg.Ledger.DeletePolicy).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	var txRunner inventory.TxRunner
	if cfg.DB.Driver == "memory" {
		txRunner = memory.NewStore()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	ledger := inventory.NewLedgerUseCase(txRunner)
	lowStockUC := inventory.NewLowStockUseCase(txRunner)
	catalogUC := usecase.NewCatalogUseCase(txRunner)
	transactionUC := trade.NewTransactionUseCase(
		txRunner, ledger,
		domaininv.FixedTaxRate(cfg.Ledger.TaxRate),
		trade.Options{
			MoneyScale:    cfg.Ledger.MoneyScale,
			CascadeDelete: cfg.Ledger.DeletePolicy == config.DeletePolicyCascade,
		},
		log.Component("trade"),
	)
	invoiceUC := billing.NewInvoiceUseCase(txRunner)
	paymentUC := billing.NewPaymentUseCase(txRunner)

	// Almacén en memoria: datos de ejemplo para poder probar la API sin BD
	if cfg.DB.Driver == "memory" {
		res, err := seed.Demo(ctx, catalogUC, ledger, "seed")
		if err != nil {
			log.Fatal().Err(err).Msg("datos de ejemplo")
		}
		log.Info().
			Int("products", len(res.ProductIDs)).
			Int("clients", len(res.ClientIDs)).
			Int("suppliers", len(res.SupplierIDs)).
			Msg("datos de ejemplo cargados en memoria")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Kardex API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:    catalogUC,
		Ledger:       ledger,
		LowStock:     lowStockUC,
		Transactions: transactionUC,
		Invoices:     invoiceUC,
		Payments:     paymentUC,
		JWTSecret:    cfg.JWT.Secret,
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
