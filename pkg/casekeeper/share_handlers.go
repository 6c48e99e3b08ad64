package casekeeper

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

const (
	defaultShareDays = 30
	maxShareDays     = 365
)

// generateSecret creates the URL secret for a share link: 32 random bytes
// hex encoded, 256 bits of entropy. The secret is the only credential a
// recipient holds, so it must be unguessable.
func generateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateShareRequest is the payload for creating a share link.
type CreateShareRequest struct {
	Name              string                 `json:"name"`
	ExpiresDays       int                    `json:"expires_days"`
	IncludeJournals   bool                   `json:"include_journals"`
	IncludeViolations bool                   `json:"include_violations"`
	IncludeDocuments  bool                   `json:"include_documents"`
	IncludeCalendar   bool                   `json:"include_calendar"`
	PermissionLevel   models.PermissionLevel `json:"permission_level"`
}

// handleCreateShareToken mints a share link. Expiry is relative to creation
// time; out-of-range expires_days falls back to 30 days, and an unknown
// permission level degrades to read_only rather than erroring.
func (a *App) handleCreateShareToken(w http.ResponseWriter, r *http.Request) {
	var req CreateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.ExpiresDays <= 0 || req.ExpiresDays > maxShareDays {
		req.ExpiresDays = defaultShareDays
	}

	secret, err := generateSecret()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	now := a.now()
	token := &models.ShareToken{
		ID:                models.NewShareTokenID(),
		OwnerID:           currentUser(r).ID,
		Name:              req.Name,
		Secret:            secret,
		ExpiresAt:         now.Add(time.Duration(req.ExpiresDays) * 24 * time.Hour),
		IncludeJournals:   req.IncludeJournals,
		IncludeViolations: req.IncludeViolations,
		IncludeDocuments:  req.IncludeDocuments,
		IncludeCalendar:   req.IncludeCalendar,
		PermissionLevel:   req.PermissionLevel,
		IsActive:          true,
		CreatedAt:         now,
	}
	token.ApplyDefaults()

	if err := a.store.CreateShareToken(r.Context(), token); err != nil {
		a.log.Error().Err(err).Msg("failed to create share token")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, token)
}

func (a *App) handleListShareTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := a.store.ListShareTokens(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tokens == nil {
		tokens = []*models.ShareToken{}
	}
	respondJSON(w, http.StatusOK, tokens)
}

// handleRevokeShareToken deactivates a share link. Revoking a link that is
// already revoked succeeds again; only a link the caller does not own (or
// that never existed) is a 404.
func (a *App) handleRevokeShareToken(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseShareTokenID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid share token ID")
		return
	}
	if err := a.store.RevokeShareToken(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "share token not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "share token revoked"})
}

// SharedView is the read-only projection a share link exposes. Only the
// categories the link includes are present; document entries carry metadata
// only, never file content.
type SharedView struct {
	Name            string                  `json:"name"`
	SharedBy        string                  `json:"shared_by"`
	PermissionLevel models.PermissionLevel  `json:"permission_level"`
	CreatedAt       time.Time               `json:"created_at"`
	ExpiresAt       time.Time               `json:"expires_at"`
	Journals        []*models.Journal       `json:"journals,omitempty"`
	Violations      []*models.Violation     `json:"violations,omitempty"`
	Documents       []*models.Document      `json:"documents,omitempty"`
	Calendar        []*models.CalendarEvent `json:"calendar,omitempty"`
}

// handleResolveShare serves a share link without authentication. Unknown and
// revoked secrets are indistinguishable 404s; an expired link answers 410 so
// the recipient knows it once existed. Expiry is evaluated on every access,
// so a link can expire between two requests.
func (a *App) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	secret := mux.Vars(r)["secret"]
	ctx := r.Context()

	token, err := a.store.GetShareTokenBySecret(ctx, secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if token == nil {
		respondError(w, http.StatusNotFound, "share link not found")
		return
	}
	if token.Expired(a.now()) {
		respondError(w, http.StatusGone, "share link expired")
		return
	}

	owner, err := a.store.GetUser(ctx, token.OwnerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	view := SharedView{
		Name:            token.Name,
		PermissionLevel: token.PermissionLevel,
		CreatedAt:       token.CreatedAt,
		ExpiresAt:       token.ExpiresAt,
	}
	if owner != nil {
		view.SharedBy = owner.FullName
	}

	if token.IncludeJournals {
		journals, err := a.collectJournals(ctx, token.OwnerID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		view.Journals = journals
	}
	if token.IncludeViolations {
		violations, err := a.collectViolations(ctx, token.OwnerID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		view.Violations = violations
	}
	if token.IncludeDocuments {
		docs, err := a.store.ListDocuments(ctx, token.OwnerID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		view.Documents = docs
	}
	if token.IncludeCalendar {
		events, err := a.store.ListEvents(ctx, token.OwnerID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		view.Calendar = events
	}

	respondJSON(w, http.StatusOK, view)
}
