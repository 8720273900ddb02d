package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kivahq/kiva-waitlist/config"
	"github.com/kivahq/kiva-waitlist/domain"
	"github.com/kivahq/kiva-waitlist/internal/log"
	"github.com/kivahq/kiva-waitlist/pkg/migrations"
	"github.com/kivahq/kiva-waitlist/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	logger.Info("Kiva waitlist server initialized ✅")

	autoMigrate := false
	runMigrations := false

	for _, arg := range os.Args[1:] {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			autoMigrate = true
		case "--migrate":
			runMigrations = true
		}
	}

	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrate)
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		os.Exit(1)
	}

	if runMigrations {
		if err := applyMigrations(appConfig, logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			appConfig.Cleanup()
			os.Exit(1)
		}
	}

	domain.SetupCoreDomain(appConfig)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server...")
		if err := appConfig.RouterService.RunHTTPServer(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("Server error", "error", err)
		appConfig.Cleanup()
		os.Exit(1)
	case <-quit:
		logger.Info("Shutdown signal received, shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		} else {
			logger.Info("HTTP server shut down gracefully")
		}
		appConfig.Cleanup()

		logger.Info("Graceful shutdown completed")
	}
}

// applyMigrations runs the SQL migrations before the server starts
// serving traffic.
func applyMigrations(appConfig *config.ApplicationConfig, logger *log.Logger) error {
	sqlDB, err := appConfig.DB.DB()
	if err != nil {
		return err
	}

	migrationsDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Up(ctx, sqlDB, migrations.Config{Dir: migrationsDir, Logger: logger})
}
