// Package kv defines the persistence port every store is built on: a
// key→JSON-document store with change notification. Partitions (monthly
// order buckets, scoped transaction buckets, the invoice list) are plain
// values under well-known keys.
package kv

import "context"

// Event signals that a key changed outside the observer's own writes.
type Event struct {
	Key   string
	Value string
}

// Ports for the storage adapters.
type (
	Store interface {
		// Get returns the raw value and whether the key exists.
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		Set(ctx context.Context, key, value string) error
		Delete(ctx context.Context, key string) error
	}

	// Watcher delivers change events until ctx is cancelled. Writers are
	// not coordinated: last writer wins, observers just refresh.
	Watcher interface {
		Watch(ctx context.Context) (<-chan Event, error)
	}
)

// Well-known keys. Order partitions append a lowercase Indonesian month
// name; transaction partitions append scope dimensions.
const (
	KeyInvoices     = "invoices"
	KeyVendors      = "vendors"
	KeyThemes       = "themes"
	KeyPackages     = "packages"
	KeyAddons       = "addons"
	KeyWorkStatuses = "workStatuses"

	OrdersPrefix       = "orders_"
	TransactionsPrefix = "transactions_"
)
