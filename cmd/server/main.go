// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"escpos-printer-service/internal/audit"
	"escpos-printer-service/internal/config"
	"escpos-printer-service/internal/database"
	"escpos-printer-service/internal/hub"
	"escpos-printer-service/internal/routes"
	"escpos-printer-service/internal/server"
	"escpos-printer-service/internal/utils"
)

// Application wires together the printer TCP listener, the renderer
// WebSocket hub, the optional audit sink, and the admin HTTP API.
type Application struct {
	config *config.Config
	logger *zap.Logger

	httpServer *http.Server
	database   *database.DB

	printerListener *server.Listener
	elementHub      *hub.Hub
	auditStore      *audit.Store

	printerCancel context.CancelFunc
}

// @title ESC/POS Virtual Printer Service API
// @version 1.0.0
// @description Admin API for a virtual thermal receipt printer: session introspection, health, and the renderer's live WebSocket element feed. The ESC/POS protocol itself is served over raw TCP, not HTTP.
// @termsOfService http://swagger.io/terms/

// @contact.name Printer Service Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "escpos-printer-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeAudit(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit sink: %w", err)
	}

	if err := app.initializePrinterListener(); err != nil {
		return nil, fmt.Errorf("failed to initialize printer listener: %w", err)
	}

	if err := app.initializeHTTPServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize http server: %w", err)
	}

	return app, nil
}

// initializeAudit sets up the optional Postgres audit sink and runs its
// migrations. Per config.AuditConfig.Enabled, the sink may be entirely
// absent — the printer listener works with a nil audit sink.
func (app *Application) initializeAudit() error {
	if !app.config.Audit.Enabled {
		app.logger.Info("audit sink disabled")
		return nil
	}

	db, err := database.NewConnection(&app.config.Audit, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create audit database connection: %w", err)
	}
	app.database = db

	migrator := database.NewMigrator(db, app.logger, &app.config.Audit)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run audit migrations: %w", err)
	}

	app.auditStore = audit.NewStore(db, app.logger)
	app.logger.Info("audit sink initialized")
	return nil
}

// initializePrinterListener sets up the renderer hub and the TCP printer
// listener, but does not start accepting connections yet — that happens in
// Start. NewApplication's only other side effects are config/logging setup
// and, when enabled, the audit database connection and its migrations.
func (app *Application) initializePrinterListener() error {
	app.elementHub = hub.New(app.logger)

	listenerCfg := server.Config{
		Addr:         app.config.GetPrinterAddr(),
		ReadTimeout:  app.config.Printer.ReadTimeout,
		WriteTimeout: app.config.Printer.WriteTimeout,
		BufferSize:   app.config.Printer.BufferSize,
	}

	app.printerListener = server.New(listenerCfg, app.elementHub, app.logger)
	if app.auditStore != nil {
		app.printerListener = app.printerListener.WithAudit(app.auditStore)
	}

	return nil
}

// initializeHTTPServer wires the admin API's gin router.
func (app *Application) initializeHTTPServer() error {
	router := routes.NewRouter(app.config, app.logger, app.database, app.printerListener, app.elementHub)
	engine := router.SetupRouter()

	app.httpServer = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("admin HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)

	return nil
}

// Start runs the printer listener, the renderer hub's fan-out loop, and the
// admin HTTP server, then blocks until shutdown.
func (app *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.printerCancel = cancel

	go app.elementHub.Run()

	go func() {
		if err := app.printerListener.Serve(ctx); err != nil {
			app.logger.Error("printer listener stopped", zap.Error(err))
		}
	}()

	go func() {
		app.logger.Info("starting admin HTTP server", zap.String("address", app.httpServer.Addr))

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.httpServer.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("failed to start admin HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()

	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "escpos-printer-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	if app.printerCancel != nil {
		app.printerCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.httpServer.Shutdown(ctx); err != nil {
		app.logger.Error("admin HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("admin HTTP server stopped")
	}

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("audit database close error", zap.Error(err))
		} else {
			app.logger.Info("audit database connection closed")
		}
	}

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("logger close error: %v\n", err)
	}

	app.logger.Info("application shutdown completed")
}
