package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/metrics"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req struct {
		models.ShippingInfo
		PaymentMethod string `json:"payment_method"`
		Notes         string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.AddressLine1 == "" || req.City == "" || req.State == "" ||
		req.PostalCode == "" || req.Country == "" || req.Phone == "" || req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "All shipping fields and a payment method are required")
		return
	}

	order, err := store.PlaceOrder(r.Context(), s.db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Shipping:      req.ShippingInfo,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmptyCart):
			metrics.CheckoutFailures.WithLabelValues("empty_cart").Inc()
		case database.IsInsufficientStock(err):
			metrics.CheckoutFailures.WithLabelValues("insufficient_stock").Inc()
		default:
			metrics.CheckoutFailures.WithLabelValues("error").Inc()
		}
		s.respondStoreError(w, r, err)
		return
	}

	metrics.OrdersPlaced.Inc()
	s.log.WithFields(map[string]any{
		"order_number": order.OrderNumber,
		"user_id":      user.ID,
		"total":        order.TotalAmount,
	}).Info("order placed")

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	result, err := store.ListOrdersCursor(r.Context(), s.db, user.ID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	orders, err := store.ListRecentOrders(r.Context(), s.db, user.ID, 5)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recent_orders": orders})
}

func (s *Server) handleOrderStats(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	stats, err := store.GetUserOrderStats(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := store.GetUserOrder(r.Context(), s.db, user.ID, id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := store.CancelOrder(r.Context(), s.db, id, user.ID)
	if err != nil {
		if database.IsInvalidTransition(err) {
			respondError(w, http.StatusBadRequest, "Only pending orders can be cancelled")
			return
		}
		s.respondStoreError(w, r, err)
		return
	}

	metrics.StatusTransitions.WithLabelValues(models.OrderStatusCancelled).Inc()
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

func (s *Server) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidOrderStatus(status) {
		respondError(w, http.StatusBadRequest, "Invalid order status filter")
		return
	}

	page, pageSize := pageParams(r)
	result, err := store.ListOrdersAdmin(r.Context(), s.db, status, page, pageSize)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdminGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := store.GetOrder(r.Context(), s.db, id)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleAdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.IsValidOrderStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	order, err := store.TransitionOrderStatus(r.Context(), s.db, id, req.Status, store.Actor{UserID: user.ID, Admin: true})
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	metrics.StatusTransitions.WithLabelValues(req.Status).Inc()
	s.log.WithFields(map[string]any{
		"order_id": id,
		"status":   req.Status,
		"admin_id": user.ID,
	}).Info("order status updated")

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
