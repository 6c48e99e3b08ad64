package casekeeper

import (
	"context"
	"net/http"
	"time"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

const recentLimit = 5

// DashboardStats summarizes an account for the landing view.
type DashboardStats struct {
	Counts           *models.ResourceCounts  `json:"counts"`
	RecentJournals   []*models.Journal       `json:"recent_journals"`
	RecentViolations []*models.Violation     `json:"recent_violations"`
	UpcomingEvents   []*models.CalendarEvent `json:"upcoming_events"`
}

func (a *App) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := currentUser(r).ID

	counts, err := a.store.Counts(ctx, owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	journals, err := a.store.ListRecentJournals(ctx, owner, recentLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	violations, err := a.store.ListRecentViolations(ctx, owner, recentLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	today := a.now().Format("2006-01-02")
	events, err := a.store.ListUpcomingEvents(ctx, owner, today, recentLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if journals == nil {
		journals = []*models.Journal{}
	}
	if violations == nil {
		violations = []*models.Violation{}
	}
	if events == nil {
		events = []*models.CalendarEvent{}
	}

	respondJSON(w, http.StatusOK, DashboardStats{
		Counts:           counts,
		RecentJournals:   journals,
		RecentViolations: violations,
		UpcomingEvents:   events,
	})
}

// collectJournals pages through every journal entry for owner. Used by the
// export endpoint and share link resolution, which both need the full set.
func (a *App) collectJournals(ctx context.Context, owner models.UserID) ([]*models.Journal, error) {
	var all []*models.Journal
	page := store.Page{Number: 1, Size: store.MaxPageSize}
	for {
		batch, err := a.store.ListJournals(ctx, owner, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < page.Size {
			return all, nil
		}
		page.Number++
	}
}

func (a *App) collectViolations(ctx context.Context, owner models.UserID) ([]*models.Violation, error) {
	var all []*models.Violation
	page := store.Page{Number: 1, Size: store.MaxPageSize}
	for {
		batch, err := a.store.ListViolations(ctx, owner, store.ViolationFilter{}, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < page.Size {
			return all, nil
		}
		page.Number++
	}
}

// JournalExport is the full-account journal dump.
type JournalExport struct {
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Journals   []*models.Journal `json:"journals"`
}

// ViolationExport is the full-account violation dump.
type ViolationExport struct {
	ExportedAt time.Time           `json:"exported_at"`
	Count      int                 `json:"count"`
	Violations []*models.Violation `json:"violations"`
}

func (a *App) handleExportJournals(w http.ResponseWriter, r *http.Request) {
	journals, err := a.collectJournals(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if journals == nil {
		journals = []*models.Journal{}
	}
	respondJSON(w, http.StatusOK, JournalExport{
		ExportedAt: a.now(),
		Count:      len(journals),
		Journals:   journals,
	})
}

func (a *App) handleExportViolations(w http.ResponseWriter, r *http.Request) {
	violations, err := a.collectViolations(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if violations == nil {
		violations = []*models.Violation{}
	}
	respondJSON(w, http.StatusOK, ViolationExport{
		ExportedAt: a.now(),
		Count:      len(violations),
		Violations: violations,
	})
}
