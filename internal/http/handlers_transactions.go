package http

import (
	"errors"
	"net/http"

	"undangan/internal/core"
	"undangan/internal/transactions"
)

func (s *Server) txScope(r *http.Request) transactions.Scope {
	year, month := parseYearMonth(r)
	return transactions.Scope{Year: year, Month: month}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.Transactions.List(r.Context(), s.txScope(r))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if list == nil {
		list = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactions.Input
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := s.backend.Transactions.Add(r.Context(), s.txScope(r), in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactions.Patch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := s.backend.Transactions.Update(r.Context(), s.txScope(r), r.PathValue("id"), p)
	if err != nil {
		if errors.Is(err, transactions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleTogglePaid(w http.ResponseWriter, r *http.Request) {
	tx, err := s.backend.Transactions.TogglePaid(r.Context(), s.txScope(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, transactions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to toggle paid flag", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle paid flag")
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Transactions.Delete(r.Context(), s.txScope(r), r.PathValue("id")); err != nil {
		if errors.Is(err, transactions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	s.invalidateStatements()
	w.WriteHeader(http.StatusNoContent)
}
