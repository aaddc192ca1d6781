package api

import (
	"encoding/json"
	"net/http"

	"github.com/vG1v/ecommerce-app-backend/internal/models"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func (s *Server) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		StoreName    string `json:"store_name"`
		Description  string `json:"description"`
		ContactEmail string `json:"contact_email"`
		ContactPhone string `json:"contact_phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StoreName == "" || req.ContactEmail == "" {
		respondError(w, http.StatusBadRequest, "Store name and contact email are required")
		return
	}

	vendor, err := store.CreateVendor(r.Context(), s.db, store.CreateVendorRequest{
		UserID:       user.ID,
		StoreName:    req.StoreName,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Vendor profile created successfully",
		"vendor":  vendor,
	})
}

func (s *Server) handleVendorProfile(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	vendor, err := store.GetVendorByUser(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

func (s *Server) handleListVendors(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	result, err := store.ListVendors(r.Context(), s.db, page, pageSize)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid vendor ID")
		return
	}

	vendor, err := store.GetVendor(r.Context(), s.db, id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

func (s *Server) handleVendorProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid vendor ID")
		return
	}

	page, pageSize := pageParams(r)
	result, err := store.ListProductsByVendor(r.Context(), s.db, id, page, pageSize)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateVendorStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid vendor ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch req.Status {
	case models.VendorStatusPending, models.VendorStatusActive, models.VendorStatusSuspended:
	default:
		respondError(w, http.StatusBadRequest, "Invalid vendor status")
		return
	}

	vendor, err := store.UpdateVendorStatus(r.Context(), s.db, id, req.Status)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}
