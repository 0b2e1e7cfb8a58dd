package http

import (
	"errors"
	"net/http"

	"undangan/internal/core"
	"undangan/internal/orders"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	list, err := s.backend.Orders.List(r.Context(), year, month)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if list == nil {
		list = []core.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.Input
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := s.backend.Orders.Add(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleEditOrder(w http.ResponseWriter, r *http.Request) {
	var p orders.Patch
	if err := decodeBody(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := s.backend.Orders.Edit(r.Context(), r.PathValue("id"), p)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete order", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	s.invalidateStatements()
	w.WriteHeader(http.StatusNoContent)
}
