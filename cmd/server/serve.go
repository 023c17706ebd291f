package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/localnerve/viverodb/internal/config"
	"github.com/localnerve/viverodb/internal/database"
	"github.com/localnerve/viverodb/internal/handlers"
	"github.com/localnerve/viverodb/internal/metrics"
	"github.com/localnerve/viverodb/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func serveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
}

func runServe(opts *options) error {
	cfg, log, db, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApp(cfg, db, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Info("Starting server", "port", cfg.Port, "database", cfg.DBType)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newApp builds the Fiber application with its middleware and every route.
// Domain and HTTP metrics are registered with registry.
func newApp(cfg *config.Config, db *gorm.DB, log *slog.Logger, registry prometheus.Registerer) (*fiber.App, error) {
	m, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               "viverodb",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// Prometheus metrics
	prom := fiberprometheus.NewWithRegistry(registry, "viverodb", "http", "", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Config: cfg, DB: db, Log: log}
	app.Get("/", handlers.Welcome)
	app.Get("/health", health.Health)

	// API routes under /api
	handlers.New(store.New(db), log, m).Register(app.Group("/api"))

	// 404 handler
	app.Use(handlers.NotFound)

	return app, nil
}
