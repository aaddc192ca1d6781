package api

import (
	"encoding/json"
	"net/http"

	"github.com/vG1v/ecommerce-app-backend/internal/models"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func (s *Server) handleAddProductImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Filename  string `json:"filename"`
		SortOrder int    `json:"sort_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Filename == "" {
		respondError(w, http.StatusBadRequest, "Filename is required")
		return
	}

	// The product must exist before attaching to it.
	if _, err := store.GetProduct(r.Context(), s.db, id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	image, err := store.AddImage(r.Context(), s.db, models.ImageOwnerProduct, id, req.Filename, req.SortOrder)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, image)
}

func (s *Server) handleListProductImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	images, err := store.ListImages(r.Context(), s.db, models.ImageOwnerProduct, id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"images": images})
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid image ID")
		return
	}

	if err := store.DeleteImage(r.Context(), s.db, id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Image deleted"})
}
