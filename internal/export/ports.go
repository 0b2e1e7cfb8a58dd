// Package export publishes derived monthly statements to external
// reporting destinations.
package export

import (
	"context"

	"undangan/internal/ledger"
)

// StatementWriter delivers one statement to a reporting destination.
// Writes are idempotent per scope: exporting the same year+month twice
// replaces the previous row.
type StatementWriter interface {
	WriteStatement(ctx context.Context, st ledger.Statement) error
}
