package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akeren/choosepure-waitlist/config"
	"github.com/akeren/choosepure-waitlist/domain"
	"github.com/akeren/choosepure-waitlist/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := log.NewLoggerWithJSONOutput()

	var autoMigrate bool
	flag.BoolVar(&autoMigrate, "auto-migrate", false, "create or update tables from the gorm models (non-production only)")
	flag.BoolVar(&autoMigrate, "m", false, "shorthand for --auto-migrate")
	flag.Parse()

	if err := run(logger, autoMigrate); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger, autoMigrate bool) error {
	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrate)
	if err != nil {
		return err
	}
	defer appConfig.Cleanup()

	if err := domain.SetupCoreDomain(appConfig); err != nil {
		return err
	}
	appConfig.Scheduler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining in-flight requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("HTTP server shut down gracefully")
	return nil
}
