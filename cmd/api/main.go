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

	"github.com/tra18/systeme-gestion-stock/internal/application/auth"
	"github.com/tra18/systeme-gestion-stock/internal/application/purchases"
	"github.com/tra18/systeme-gestion-stock/internal/application/requests"
	"github.com/tra18/systeme-gestion-stock/internal/application/stock"
	"github.com/tra18/systeme-gestion-stock/internal/application/suppliers"
	"github.com/tra18/systeme-gestion-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tra18/systeme-gestion-stock/internal/interfaces/http"
	"github.com/tra18/systeme-gestion-stock/pkg/config"
	"github.com/tra18/systeme-gestion-stock/pkg/logger"
	"github.com/tra18/systeme-gestion-stock/pkg/numbering"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	reqRepo := postgres.NewPurchaseRequestRepository(pool)
	itemRepo := postgres.NewStockItemRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	numbers := numbering.New()
	workflowUC := requests.NewWorkflowUseCase(txRunner, reqRepo, supplierRepo, numbers)
	ledgerUC := stock.NewLedgerUseCase(txRunner, itemRepo, movRepo)
	purchaseUC := purchases.NewRecordUseCase(txRunner, purchaseRepo)
	supplierUC := suppliers.NewUseCase(supplierRepo)
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestion Achats API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WorkflowUC: workflowUC,
		LedgerUC:   ledgerUC,
		PurchaseUC: purchaseUC,
		SupplierUC: supplierUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
