package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/app"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	warnProductionSettings(cfg, appLogger)

	tp := timeProvider.NewRealTimeProvider()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to initialize application", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Error("Failed to release resources", map[string]any{"error": err.Error()})
		}
	}()

	// Run migrations and load reference data
	if err := container.DB.Migrate(ctx); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if err := container.DB.Seed(ctx); err != nil {
		appLogger.Error("Failed to load seed data", map[string]any{
			"error": err.Error(),
			"file":  cfg.Database.SeedFile,
		})
		os.Exit(1)
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp, cfg.Server.RequestTimeout)
	routes.SetupRoutes(router, routes.Handlers{
		Auth:        handler.NewAuthHandler(container.Auth),
		User:        handler.NewUserHandler(container.Users, appLogger),
		Account:     handler.NewAccountHandler(container.Accounts, container.Limits),
		Transaction: handler.NewTransactionHandler(container.Ledger, appLogger),
		Recurring:   handler.NewRecurringHandler(container.Recurring),
		Card:        handler.NewCardHandler(container.Cards, appLogger),
		Web3:        handler.NewWeb3Handler(container.Web3, container.Web3),
		Health:      handler.NewHealthHandler(container.DB, version),
	}, routes.Security{Auth: container.Auth, AdminAPIKey: cfg.Auth.AdminAPIKey})

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     cfg.Environment,
			"version": version,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := tp.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// warnProductionSettings logs settings that are legal but unsafe in production
func warnProductionSettings(cfg *config.Config, appLogger coreport.Logger) {
	if cfg.Environment != config.Production {
		return
	}
	var warnings []string

	switch strings.ToLower(cfg.Database.SSLMode) {
	case "require", "verify-ca", "verify-full":
	default:
		warnings = append(warnings, "database.sslMode should be require, verify-ca or verify-full")
	}
	if cfg.Auth.AdminAPIKey == "" {
		warnings = append(warnings, "auth.adminApiKey is empty, back-office routes are disabled")
	}
	if cfg.Auth.BcryptCost < 12 {
		warnings = append(warnings, "auth.bcryptCost is below 12")
	}

	if len(warnings) > 0 {
		appLogger.Warn("Potential security issues in production configuration", map[string]any{
			"warnings": warnings,
		})
	}
}
