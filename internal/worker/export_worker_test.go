package worker

import (
	"context"
	"testing"
	"time"

	"undangan/internal/amqp"
	"undangan/internal/core"
	exportmemory "undangan/internal/export/memory"
	kvmemory "undangan/internal/kv/memory"
	"undangan/internal/orders"
	"undangan/internal/transactions"
)

func newWorker(t *testing.T) (*ExportWorker, *orders.Store, *transactions.Store, *exportmemory.Writer) {
	t.Helper()
	kv := kvmemory.New()
	orderStore := orders.New(kv, nil)
	txStore := transactions.New(kv, nil)
	writer := exportmemory.New()
	w := NewExportWorker(orderStore, txStore, writer, nil)
	w.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	return w, orderStore, txStore, writer
}

func TestHandlePartitionChangedExportsScopeAndNextMonth(t *testing.T) {
	ctx := context.Background()
	w, orderStore, txStore, writer := newWorker(t)

	if _, err := orderStore.Add(ctx, orders.Input{
		ClientName:    "Ayu",
		OrderDate:     core.NewDate(2025, 3, 10),
		EventDate:     core.NewDate(2025, 9, 1),
		PaymentStatus: core.Paid,
		PaymentAmount: core.Money{Rupiah: 2000000},
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if _, err := txStore.Add(ctx, transactions.Scope{Year: 2025, Month: 3}, transactions.Input{
		Description: "sewa studio",
		Type:        core.Fixed,
		Amount:      core.Money{Rupiah: 500000},
	}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	msg := amqp.NewPartitionChangedMessage("orders_maret", amqp.KindOrders, 2025, 3)
	if err := w.HandlePartitionChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	st, ok := writer.Statement(2025, 3)
	if !ok {
		t.Fatal("statement for changed month not exported")
	}
	if st.PaidAmount != 2000000 || st.FixedExpenses != 500000 {
		t.Fatalf("statement = %+v", st)
	}

	// April opens with March's paid total
	next, ok := writer.Statement(2025, 4)
	if !ok {
		t.Fatal("following month not re-exported")
	}
	if next.PreviousMonthBalance != 2000000 {
		t.Fatalf("april opening balance = %d", next.PreviousMonthBalance)
	}
}

func TestHandlePartitionChangedWithoutScopeUsesCurrentMonth(t *testing.T) {
	ctx := context.Background()
	w, _, _, writer := newWorker(t)

	msg := amqp.NewPartitionChangedMessage("invoices", amqp.KindInvoices, 0, 0)
	if err := w.HandlePartitionChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := writer.Statement(2025, 6); !ok {
		t.Fatal("expected export for the pinned current month")
	}
}

func TestDecemberRollsExportIntoNextYear(t *testing.T) {
	ctx := context.Background()
	w, _, _, writer := newWorker(t)

	msg := amqp.NewPartitionChangedMessage("orders_desember", amqp.KindOrders, 2024, 12)
	if err := w.HandlePartitionChanged(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := writer.Statement(2025, 1); !ok {
		t.Fatal("january of the next year must be re-exported")
	}
}

func TestExportYear(t *testing.T) {
	ctx := context.Background()
	w, _, _, writer := newWorker(t)

	if err := w.ExportYear(ctx, 2025); err != nil {
		t.Fatalf("export year: %v", err)
	}
	if writer.Count() != 12 {
		t.Fatalf("exported %d scopes, want 12", writer.Count())
	}
}
