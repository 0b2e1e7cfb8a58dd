package http

import (
	"fmt"
	"net/http"

	"undangan/internal/ledger"
	"undangan/internal/transactions"
)

// handleStatement serves the derived monthly statement. Results are
// cached per scope until a partition changes or the TTL lapses.
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "statement requires a specific month")
		return
	}
	if year == 0 {
		writeError(w, http.StatusBadRequest, "statement requires a specific year")
		return
	}

	cacheKey := fmt.Sprintf("statement:%d:%d", year, month)
	if st, ok := s.statementCache.Get(cacheKey); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, st)
		return
	}

	ctx := r.Context()
	orderList, err := s.backend.Orders.List(ctx, year, month)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load orders for statement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build statement")
		return
	}
	txList, err := s.backend.Transactions.List(ctx, transactions.Scope{Year: year, Month: month})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load transactions for statement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build statement")
		return
	}

	st, err := ledger.Build(ctx, s.backend.Orders, year, month, orderList, txList)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build statement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build statement")
		return
	}

	s.statementCache.Set(cacheKey, st)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, st)
}
