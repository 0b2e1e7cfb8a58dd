package http

import (
	"errors"
	"net/http"
	"time"

	"undangan/internal/core"
	"undangan/internal/invoices"
	"undangan/internal/orders"
	"undangan/internal/settings"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.Invoices.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list invoices", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}
	if list == nil {
		list = []core.Invoice{}
	}
	writeJSON(w, http.StatusOK, list)
}

// billableOrders returns a vendor's paid orders not yet on any invoice.
func (s *Server) billableOrders(r *http.Request, vendorID string) ([]core.Order, error) {
	ctx := r.Context()
	all, err := s.backend.Orders.List(ctx, orders.YearAll, orders.MonthAll)
	if err != nil {
		return nil, err
	}
	existing, err := s.backend.Invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []core.Order
	for _, o := range all {
		if o.PaymentStatus != core.Paid {
			continue
		}
		if vendorID != "" && o.VendorID != vendorID {
			continue
		}
		candidates = append(candidates, o)
	}
	return invoices.Uninvoiced(candidates, existing), nil
}

func (s *Server) handleUninvoiced(w http.ResponseWriter, r *http.Request) {
	list, err := s.billableOrders(r, r.URL.Query().Get("vendor"))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to resolve uninvoiced orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve uninvoiced orders")
		return
	}
	if list == nil {
		list = []core.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}

type generateInvoiceRequest struct {
	VendorID string    `json:"vendorId"`
	DueDate  core.Date `json:"dueDate"`
}

func (s *Server) handleGenerateInvoice(w http.ResponseWriter, r *http.Request) {
	var req generateInvoiceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.VendorID == "" {
		writeError(w, http.StatusBadRequest, "vendorId is required")
		return
	}

	vendor, err := s.backend.Settings.VendorByID(r.Context(), req.VendorID)
	if err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load vendor")
		return
	}

	billable, err := s.billableOrders(r, req.VendorID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to resolve billable orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve billable orders")
		return
	}
	if len(billable) == 0 {
		writeError(w, http.StatusConflict, "vendor has no uninvoiced paid orders")
		return
	}

	issued := time.Now()
	due := req.DueDate.Time
	if due.IsZero() {
		due = issued.AddDate(0, 0, 14)
	}

	inv := invoices.Generate(vendor.ID, vendor.Name, vendor.Code, billable, issued, due)
	stored, err := s.backend.Invoices.Add(r.Context(), inv, vendor.Code)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to store invoice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store invoice")
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.backend.Invoices.MarkPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, invoices.ErrNotFound):
			writeError(w, http.StatusNotFound, "invoice not found")
		case errors.Is(err, invoices.ErrAlreadyPaid):
			writeError(w, http.StatusConflict, "invoice already paid")
		default:
			s.logger.ErrorContext(r.Context(), "Failed to mark invoice paid", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to mark invoice paid")
		}
		return
	}
	s.invalidateStatements()
	writeJSON(w, http.StatusOK, inv)
}
