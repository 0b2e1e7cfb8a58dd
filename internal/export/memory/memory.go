// Package memory is an in-process statement destination used in tests
// and when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"undangan/internal/export"
	"undangan/internal/ledger"
)

type Writer struct {
	mu         sync.Mutex
	statements map[[2]int]ledger.Statement
}

var _ export.StatementWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{statements: make(map[[2]int]ledger.Statement)}
}

func (w *Writer) WriteStatement(_ context.Context, st ledger.Statement) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statements[[2]int{st.Year, st.Month}] = st
	return nil
}

// Statement returns the last statement written for a scope.
func (w *Writer) Statement(year, month int) (ledger.Statement, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.statements[[2]int{year, month}]
	return st, ok
}

// Count returns how many distinct scopes have been written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.statements)
}
