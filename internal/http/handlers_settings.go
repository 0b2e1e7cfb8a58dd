package http

import (
	"errors"
	"net/http"

	"undangan/internal/core"
	"undangan/internal/settings"
)

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := s.backend.Settings.Vendors(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list vendors", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []core.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

type vendorRequest struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}

func (s *Server) handleAddVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vendor, err := s.backend.Settings.AddVendor(r.Context(), req.Name, req.Code, req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (s *Server) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vendor := core.Vendor{ID: r.PathValue("id"), Name: req.Name, Code: req.Code, Color: req.Color}
	if err := s.backend.Settings.UpdateVendor(r.Context(), vendor); err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func (s *Server) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Settings.DeleteVendor(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "vendor not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete vendor", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete vendor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type refItemRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	key, ok := settingsKey(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown settings list")
		return
	}
	items, err := s.backend.Settings.List(r.Context(), key)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list settings", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}
	if items == nil {
		items = []core.RefItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddSetting(w http.ResponseWriter, r *http.Request) {
	key, ok := settingsKey(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown settings list")
		return
	}
	var req refItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := s.backend.Settings.Add(r.Context(), key, req.Name, req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	key, ok := settingsKey(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown settings list")
		return
	}
	var req refItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item := core.RefItem{ID: r.PathValue("id"), Name: req.Name, Color: req.Color}
	if err := s.backend.Settings.Update(r.Context(), key, item); err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	key, ok := settingsKey(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown settings list")
		return
	}
	if err := s.backend.Settings.Delete(r.Context(), key, r.PathValue("id")); err != nil {
		if errors.Is(err, settings.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to delete settings item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete settings item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
