package api

import (
	"encoding/json"
	"net/http"

	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	wishlist, err := store.GetWishlist(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": wishlist.Items})
}

func (s *Server) handleAddWishlistItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		ProductID int64 `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == 0 {
		respondError(w, http.StatusBadRequest, "Product is required")
		return
	}

	item, err := store.AddWishlistItem(r.Context(), s.db, user.ID, req.ProductID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":       "Item added to wishlist",
		"wishlist_item": item,
	})
}

func (s *Server) handleRemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid wishlist item ID")
		return
	}

	if err := store.RemoveWishlistItem(r.Context(), s.db, user.ID, id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from wishlist"})
}

func (s *Server) handleClearWishlist(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := store.ClearWishlist(r.Context(), s.db, user.ID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Wishlist cleared"})
}

func (s *Server) handleCheckWishlistItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	productID, ok := pathID(r, "productID")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	contains, err := store.WishlistContains(r.Context(), s.db, user.ID, productID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"in_wishlist": contains})
}

func (s *Server) handleWishlistCount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	count, err := store.WishlistItemCount(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
