package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("encode JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondStoreError maps store errors onto HTTP statuses: business
// rule failures are 400 with the store's message, authorization 403,
// missing entities 404, everything else 500 with the detail kept out
// of the response.
func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "Your cart is empty")
	case database.IsInsufficientStock(err) || database.IsInvalidTransition(err),
		errors.Is(err, database.ErrInvalidCursor):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, database.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, database.ErrUserNotFound),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrOrderNotFound),
		errors.Is(err, database.ErrVendorNotFound),
		errors.Is(err, database.ErrCartItemNotFound),
		errors.Is(err, database.ErrWishlistItemNotFound),
		errors.Is(err, database.ErrImageNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
