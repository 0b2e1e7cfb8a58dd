// Package cli consolidates the initialization shared by the binaries:
// env loading, logging setup, config validation and signal handling.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"undangan/internal/config"
	"undangan/internal/log"
)

// Bootstrap loads .env, sets up logging and returns a validated config.
// Exits the process when the configuration is unusable.
func Bootstrap() (*config.Config, *slog.Logger) {
	// .env is for local development; missing files are fine
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.Setup(log.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()
	return ctx, cancel
}
