package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"undangan/internal/backend"
	"undangan/internal/cli"
	apphttp "undangan/internal/http"
	"undangan/internal/log"
)

func main() {
	cfg, logger := cli.Bootstrap()

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	b, err := backend.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer b.Close()

	srv := apphttp.NewServer(":"+cfg.Port, b, log.For("http"))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	srv.WatchInvalidate(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting undangan server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
