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
	"github.com/jhoicas/Merenda-api/docs"
	"github.com/jhoicas/Merenda-api/internal/application/billing"
	"github.com/jhoicas/Merenda-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Merenda-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Merenda-api/internal/interfaces/http"
	"github.com/jhoicas/Merenda-api/pkg/config"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// @title                       Merenda API
// @version                     1.0
// @description                 Motor de faturamento por modalidad: reparto por repasse, consumo de saldos y redistribución.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 "Bearer <token>"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("esquema de faturamento aplicado")
	}

	var (
		billingMetrics billing.Metrics
		metricsHandler fiber.Handler
	)
	if cfg.Metrics.Enabled {
		m := metrics.New()
		billingMetrics = m
		metricsHandler = m.Handler()
	}

	txRunner := postgres.NewTxRunner(pool)
	repos := postgres.NewRepositories(pool)
	generateUC := billing.NewGenerateBillingUseCase(txRunner, repos, log, billingMetrics, cfg.Billing.NumberWidth)
	consumptionUC := billing.NewConsumptionUseCase(txRunner, repos, log, billingMetrics)
	removalUC := billing.NewRemoveModalityUseCase(txRunner, log, billingMetrics)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Billing:     generateUC,
		Consumption: consumptionUC,
		Removal:     removalUC,
		Log:         log,
		JWTSecret:   cfg.JWT.Secret,
		AppName:     cfg.App.Name,
		Metrics:     metricsHandler,
		MetricsPath: cfg.Metrics.Path,
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
