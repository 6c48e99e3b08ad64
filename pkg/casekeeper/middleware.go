package casekeeper

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/casekeeper/casekeeper/pkg/auth"
	"github.com/casekeeper/casekeeper/pkg/models"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth validates the bearer token and resolves it to a live account
// before any handler runs. The failure message names the reason (missing,
// expired, invalid, account gone) but every failure is a plain 401; there is
// no 403 tier. A token for a deleted account fails here even though its
// signature still verifies.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header || tokenString == "" {
			respondError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := a.tokens.Validate(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				respondError(w, http.StatusUnauthorized, "token expired")
			} else {
				respondError(w, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		user, err := a.store.GetUser(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			respondError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the account resolved by requireAuth. Handlers behind
// the middleware can rely on it being present.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}
