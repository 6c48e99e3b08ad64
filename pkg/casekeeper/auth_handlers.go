package casekeeper

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/casekeeper/casekeeper/pkg/auth"
	"github.com/casekeeper/casekeeper/pkg/models"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	State    string `json:"state"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token and the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// handleRegister creates an account and signs the first session token so the
// client is authenticated immediately after signup.
//
// Responses:
//   - 201 Created with AuthResponse
//   - 400 Bad Request on invalid payload or already-registered email
func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "valid email is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		respondError(w, http.StatusBadRequest, "full name is required")
		return
	}

	ctx := r.Context()
	existing, err := a.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := &models.User{
		ID:           models.NewUserID(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		State:        req.State,
		CreatedAt:    a.now(),
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		a.log.Error().Err(err).Msg("failed to create user")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// handleLogin verifies credentials and signs a session token. Unknown email
// and wrong password produce the same response so the endpoint does not leak
// which accounts exist.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := r.Context()
	user, err := a.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// handleCurrentUser returns the account the bearer token resolves to.
func (a *App) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currentUser(r))
}
