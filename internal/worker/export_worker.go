// Package worker rebuilds and exports monthly statements when a
// persistence partition changes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"undangan/internal/amqp"
	"undangan/internal/export"
	"undangan/internal/ledger"
	"undangan/internal/orders"
	"undangan/internal/transactions"
)

type ExportWorker struct {
	orders       *orders.Store
	transactions *transactions.Store
	writer       export.StatementWriter
	logger       *slog.Logger
	now          func() time.Time
}

func NewExportWorker(orderStore *orders.Store, txStore *transactions.Store, writer export.StatementWriter, logger *slog.Logger) *ExportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{
		orders:       orderStore,
		transactions: txStore,
		writer:       writer,
		logger:       logger,
		now:          time.Now,
	}
}

// HandlePartitionChanged rebuilds the statement for the changed scope
// and exports it. Messages without a usable scope fall back to the
// current calendar month. A change also shifts the next month's opening
// balance, so that statement is re-exported too.
func (w *ExportWorker) HandlePartitionChanged(ctx context.Context, msg *amqp.PartitionChangedMessage) error {
	year, month := msg.Year, msg.Month
	if year == 0 || month == 0 {
		t := w.now()
		year, month = t.Year(), int(t.Month())
		w.logger.WarnContext(ctx, "Partition change without scope, exporting current month",
			"key", msg.Key, "kind", msg.Kind)
	}

	if err := w.Export(ctx, year, month); err != nil {
		return err
	}

	nextYear, nextMonth := year, month+1
	if nextMonth > 12 {
		nextYear, nextMonth = year+1, 1
	}
	if err := w.Export(ctx, nextYear, nextMonth); err != nil {
		w.logger.WarnContext(ctx, "Failed to re-export following month",
			"year", nextYear, "month", nextMonth, "error", err)
	}
	return nil
}

// Export rebuilds and writes the statement for one scope.
func (w *ExportWorker) Export(ctx context.Context, year, month int) error {
	orderList, err := w.orders.List(ctx, year, month)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	txList, err := w.transactions.List(ctx, transactions.Scope{Year: year, Month: month})
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	st, err := ledger.Build(ctx, w.orders, year, month, orderList, txList)
	if err != nil {
		return fmt.Errorf("build statement: %w", err)
	}

	if err := w.writer.WriteStatement(ctx, st); err != nil {
		return fmt.Errorf("write statement: %w", err)
	}

	w.logger.InfoContext(ctx, "Statement exported",
		"year", year, "month", month,
		"orders", len(orderList), "transactions", len(txList))
	return nil
}

// ExportYear re-exports all twelve statements of a year. Used at
// startup to recover from missed partition-change messages.
func (w *ExportWorker) ExportYear(ctx context.Context, year int) error {
	var failed int
	for month := 1; month <= 12; month++ {
		if err := w.Export(ctx, year, month); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export statement",
				"year", year, "month", month, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("exported year %d with %d failed months", year, failed)
	}
	return nil
}
