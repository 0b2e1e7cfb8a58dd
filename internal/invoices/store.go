package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"undangan/internal/core"
	"undangan/internal/kv"
)

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrAlreadyPaid = errors.New("invoice already paid")
)

// Publisher emits partition-change events after a successful mutation.
type Publisher interface {
	PublishPartitionChanged(ctx context.Context, key, kind string, year, month int) error
}

type Store struct {
	kv     kv.Store
	events Publisher
}

func New(store kv.Store, events Publisher) *Store {
	return &Store{kv: store, events: events}
}

// List returns all invoices with totals recomputed from their lines.
func (s *Store) List(ctx context.Context) ([]core.Invoice, error) {
	records, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].TotalAmount = core.Money{Rupiah: records[i].Total()}
	}
	return records, nil
}

// Add persists a generated invoice. When the invoice number collides
// with an existing one the suffix is regenerated a few times before
// giving up; random suffixes alone are not checked for uniqueness.
func (s *Store) Add(ctx context.Context, inv core.Invoice, vendorCode string) (core.Invoice, error) {
	if len(inv.Lines) == 0 {
		return core.Invoice{}, errors.New("invoice has no orders")
	}

	records, err := s.read(ctx)
	if err != nil {
		return core.Invoice{}, err
	}

	const maxAttempts = 5
	for attempt := 0; taken(records, inv.Number); attempt++ {
		if attempt >= maxAttempts {
			return core.Invoice{}, fmt.Errorf("could not find a free invoice number after %d attempts", maxAttempts)
		}
		inv.Number = Number(vendorCode, inv.IssueDate.Time)
	}

	inv.TotalAmount = core.Money{Rupiah: inv.Total()}
	records = append(records, inv)
	if err := s.write(ctx, records); err != nil {
		return core.Invoice{}, err
	}
	s.publish(ctx, inv.IssueDate.Time)
	return inv, nil
}

// MarkPaid is the only status transition: Unpaid -> Paid, never back.
func (s *Store) MarkPaid(ctx context.Context, id string) (core.Invoice, error) {
	records, err := s.read(ctx)
	if err != nil {
		return core.Invoice{}, err
	}
	for i, inv := range records {
		if inv.ID != id {
			continue
		}
		if inv.Status == core.InvoicePaid {
			return core.Invoice{}, ErrAlreadyPaid
		}
		records[i].Status = core.InvoicePaid
		if err := s.write(ctx, records); err != nil {
			return core.Invoice{}, err
		}
		s.publish(ctx, inv.IssueDate.Time)
		return records[i], nil
	}
	return core.Invoice{}, ErrNotFound
}

func taken(records []core.Invoice, number string) bool {
	for _, inv := range records {
		if inv.Number == number {
			return true
		}
	}
	return false
}

func (s *Store) read(ctx context.Context) ([]core.Invoice, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyInvoices)
	if err != nil {
		return nil, fmt.Errorf("read invoices: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var records []core.Invoice
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.WarnContext(ctx, "Malformed invoice list, treating as empty", "error", err)
		return nil, nil
	}
	return records, nil
}

func (s *Store) write(ctx context.Context, records []core.Invoice) error {
	if records == nil {
		records = []core.Invoice{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal invoices: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyInvoices, string(data)); err != nil {
		return fmt.Errorf("write invoices: %w", err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, issued time.Time) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPartitionChanged(ctx, kv.KeyInvoices, "invoices", issued.Year(), int(issued.Month())); err != nil {
		slog.WarnContext(ctx, "Failed to publish partition change",
			"partition", kv.KeyInvoices, "error", err)
	}
}
