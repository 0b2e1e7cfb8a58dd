// Package backend assembles the persistence stack from configuration:
// a kv store (memory, sqlite or postgres), the optional AMQP client,
// and the domain stores built on top of them.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"undangan/internal/amqp"
	"undangan/internal/config"
	"undangan/internal/invoices"
	"undangan/internal/kv"
	kvmemory "undangan/internal/kv/memory"
	kvpostgres "undangan/internal/kv/postgres"
	kvsqlite "undangan/internal/kv/sqlite"
	"undangan/internal/orders"
	"undangan/internal/settings"
	"undangan/internal/transactions"
)

type Type string

const (
	Memory   Type = "memory"
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
)

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Postgres:
		return true
	default:
		return false
	}
}

// Backend is the assembled persistence stack. Close releases the kv
// store and the AMQP connection; it is safe to call once.
type Backend struct {
	KV     kv.Store
	Events *amqp.Client

	Orders       *orders.Store
	Transactions *transactions.Store
	Invoices     *invoices.Store
	Settings     *settings.Store

	closers []func() error
}

// Watcher returns the kv change feed when the selected store supports
// one. The memory store does; sqlite and postgres poll.
func (b *Backend) Watcher() (kv.Watcher, bool) {
	w, ok := b.KV.(kv.Watcher)
	return w, ok
}

func (b *Backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}

// New builds the backend selected by cfg.DataBackend. The AMQP client
// is optional: without AMQP_URL mutations simply skip publishing.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	b := &Backend{}

	switch t {
	case Memory:
		b.KV = kvmemory.New()
		logger.Info("Initialized memory backend")
	case SQLite:
		store, err := kvsqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		b.KV = store
		b.closers = append(b.closers, store.Close)
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	case Postgres:
		store, err := kvpostgres.Open(ctx, cfg.DatabaseURL, cfg.UserID)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		b.KV = store
		b.closers = append(b.closers, store.Close)
		logger.Info("Initialized postgres backend", "user_id", cfg.UserID)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			b.Events = client
			b.closers = append(b.closers, client.Close)
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// A nil *amqp.Client inside a non-nil Publisher interface would
	// dodge the stores' nil checks.
	var publisher orders.Publisher
	if b.Events != nil {
		publisher = b.Events
	}
	b.Orders = orders.New(b.KV, publisher)

	var txPublisher transactions.Publisher
	if b.Events != nil {
		txPublisher = b.Events
	}
	b.Transactions = transactions.New(b.KV, txPublisher)

	var invPublisher invoices.Publisher
	if b.Events != nil {
		invPublisher = b.Events
	}
	b.Invoices = invoices.New(b.KV, invPublisher)

	b.Settings = settings.New(b.KV)

	return b, nil
}
