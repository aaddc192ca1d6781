package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Name == "" || len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Email, name and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	user, err := store.CreateUser(r.Context(), s.db, req.Email, req.Name, string(hash))
	if err != nil {
		if database.IsUniqueViolation(err) {
			respondError(w, http.StatusBadRequest, "Email is already registered")
			return
		}
		s.respondStoreError(w, r, err)
		return
	}

	token, err := store.IssueAPIToken(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.db, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			s.respondStoreError(w, r, database.ErrInvalidCredentials)
			return
		}
		s.respondStoreError(w, r, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.respondStoreError(w, r, database.ErrInvalidCredentials)
		return
	}

	token, err := store.IssueAPIToken(r.Context(), s.db, user.ID)
	if err != nil {
		s.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := store.RevokeAPIToken(r.Context(), s.db, user.ID); err != nil {
		s.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, userFrom(r.Context()))
}
