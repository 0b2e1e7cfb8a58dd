package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"undangan/internal/amqp"
	"undangan/internal/backend"
	"undangan/internal/cli"
	"undangan/internal/export"
	googleexport "undangan/internal/export/google"
	memoryexport "undangan/internal/export/memory"
	"undangan/internal/log"
	"undangan/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger.Info("Starting undangan-worker")

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if cfg.AMQPURL == "" {
		logger.Error("Worker requires AMQP_URL to consume partition changes")
		os.Exit(1)
	}

	b, err := backend.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer b.Close()
	if b.Events == nil {
		logger.Error("AMQP client unavailable, cannot consume partition changes")
		os.Exit(1)
	}

	var writer export.StatementWriter
	if cfg.ExportEnabled() {
		writer, err = googleexport.NewClient(ctx, googleexport.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		}, log.For("sheets"))
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memoryexport.New()
		logger.Info("No spreadsheet configured, statements stay in memory")
	}

	w := worker.NewExportWorker(b.Orders, b.Transactions, writer, log.For("worker"))

	g, gctx := errgroup.WithContext(ctx)

	// On startup, re-export the current year to recover from missed
	// messages while the worker was down.
	g.Go(func() error {
		if err := w.ExportYear(gctx, time.Now().Year()); err != nil {
			logger.Warn("Startup export incomplete", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		// The debounce keeps a burst of partition changes from
		// hammering the spreadsheet.
		var last time.Time
		return b.Events.ConsumePartitionChanges(gctx, func(msg *amqp.PartitionChangedMessage) error {
			if since := time.Since(last); since < cfg.ExportDebounce {
				time.Sleep(cfg.ExportDebounce - since)
			}
			last = time.Now()
			return w.HandlePartitionChanged(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
