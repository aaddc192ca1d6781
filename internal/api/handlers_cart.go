package api

import (
	"encoding/json"
	"net/http"

	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	cart, err := store.GetCart(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items": cart.Items,
		"total": store.CartTotalAmount(cart),
	})
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == 0 || req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Product and a quantity of at least 1 are required")
		return
	}

	item, err := store.AddCartItem(r.Context(), s.db, user.ID, req.ProductID, req.Quantity)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   "Item added to cart",
		"cart_item": item,
	})
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	item, err := store.UpdateCartItemQuantity(r.Context(), s.db, user.ID, id, req.Quantity)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   "Cart item updated",
		"cart_item": item,
	})
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	if err := store.RemoveCartItem(r.Context(), s.db, user.ID, id); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := store.ClearCart(r.Context(), s.db, user.ID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

func (s *Server) handleCartCount(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	count, err := store.CartItemCount(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}
