package casekeeper

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

// pageFromRequest reads the page and page_size query parameters. Out of
// range values are clamped by Page.Normalize, so malformed input degrades to
// defaults instead of erroring.
func pageFromRequest(r *http.Request) store.Page {
	page := store.Page{}
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page.Number = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		page.Size = n
	}
	return page.Normalize()
}

// validDate reports whether s is a YYYY-MM-DD calendar date. Dates are kept
// as strings throughout so lexicographic order is date order.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Children

func (a *App) handleCreateChild(w http.ResponseWriter, r *http.Request) {
	var child models.Child
	if err := json.NewDecoder(r.Body).Decode(&child); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if child.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	child.ID = models.NewChildID()
	child.OwnerID = currentUser(r).ID
	child.CreatedAt = a.now()

	if err := a.store.CreateChild(r.Context(), &child); err != nil {
		a.log.Error().Err(err).Msg("failed to create child")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, child)
}

func (a *App) handleListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := a.store.ListChildren(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if children == nil {
		children = []*models.Child{}
	}
	respondJSON(w, http.StatusOK, children)
}

func (a *App) handleDeleteChild(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseChildID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid child ID")
		return
	}
	if err := a.store.DeleteChild(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "child not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "child deleted"})
}

// Journals

func (a *App) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var journal models.Journal
	if err := json.NewDecoder(r.Body).Decode(&journal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if journal.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validDate(journal.Date) {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	journal.ID = models.NewJournalID()
	journal.OwnerID = currentUser(r).ID
	journal.CreatedAt = a.now()
	journal.UpdatedAt = journal.CreatedAt

	if err := a.store.CreateJournal(r.Context(), &journal); err != nil {
		a.log.Error().Err(err).Msg("failed to create journal")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, journal)
}

func (a *App) handleListJournals(w http.ResponseWriter, r *http.Request) {
	journals, err := a.store.ListJournals(r.Context(), currentUser(r).ID, pageFromRequest(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if journals == nil {
		journals = []*models.Journal{}
	}
	respondJSON(w, http.StatusOK, journals)
}

func (a *App) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseJournalID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid journal ID")
		return
	}
	journal, err := a.store.GetJournal(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if journal == nil {
		respondError(w, http.StatusNotFound, "journal not found")
		return
	}
	respondJSON(w, http.StatusOK, journal)
}

func (a *App) handleUpdateJournal(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseJournalID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid journal ID")
		return
	}

	var journal models.Journal
	if err := json.NewDecoder(r.Body).Decode(&journal); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if journal.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validDate(journal.Date) {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	owner := currentUser(r).ID
	journal.ID = id
	journal.OwnerID = owner
	journal.UpdatedAt = a.now()

	if err := a.store.UpdateJournal(r.Context(), owner, &journal); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "journal not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, journal)
}

func (a *App) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseJournalID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid journal ID")
		return
	}
	if err := a.store.DeleteJournal(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "journal not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "journal deleted"})
}

// Violations

func (a *App) handleCreateViolation(w http.ResponseWriter, r *http.Request) {
	var violation models.Violation
	if err := json.NewDecoder(r.Body).Decode(&violation); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if violation.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validDate(violation.Date) {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	violation.ID = models.NewViolationID()
	violation.OwnerID = currentUser(r).ID
	violation.CreatedAt = a.now()

	if err := a.store.CreateViolation(r.Context(), &violation); err != nil {
		a.log.Error().Err(err).Msg("failed to create violation")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, violation)
}

func (a *App) handleListViolations(w http.ResponseWriter, r *http.Request) {
	filter := store.ViolationFilter{Severity: r.URL.Query().Get("severity")}
	violations, err := a.store.ListViolations(r.Context(), currentUser(r).ID, filter, pageFromRequest(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if violations == nil {
		violations = []*models.Violation{}
	}
	respondJSON(w, http.StatusOK, violations)
}

func (a *App) handleGetViolation(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseViolationID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid violation ID")
		return
	}
	violation, err := a.store.GetViolation(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if violation == nil {
		respondError(w, http.StatusNotFound, "violation not found")
		return
	}
	respondJSON(w, http.StatusOK, violation)
}

func (a *App) handleDeleteViolation(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseViolationID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid violation ID")
		return
	}
	if err := a.store.DeleteViolation(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "violation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "violation deleted"})
}

// Calendar events

func (a *App) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if event.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validDate(event.StartDate) {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	if event.EndDate != "" && !validDate(event.EndDate) {
		respondError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	event.ID = models.NewEventID()
	event.OwnerID = currentUser(r).ID
	event.CreatedAt = a.now()

	if err := a.store.CreateEvent(r.Context(), &event); err != nil {
		a.log.Error().Err(err).Msg("failed to create event")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (a *App) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.store.ListEvents(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if events == nil {
		events = []*models.CalendarEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (a *App) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	var event models.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if event.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !validDate(event.StartDate) {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	owner := currentUser(r).ID
	event.ID = id
	event.OwnerID = owner

	if err := a.store.UpdateEvent(r.Context(), owner, &event); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "event not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (a *App) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event ID")
		return
	}
	if err := a.store.DeleteEvent(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "event not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// Contacts

func (a *App) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var contact models.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if contact.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	contact.ID = models.NewContactID()
	contact.OwnerID = currentUser(r).ID
	contact.CreatedAt = a.now()
	contact.UpdatedAt = contact.CreatedAt

	if err := a.store.CreateContact(r.Context(), &contact); err != nil {
		a.log.Error().Err(err).Msg("failed to create contact")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, contact)
}

func (a *App) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := a.store.ListContacts(r.Context(), currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (a *App) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseContactID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}
	contact, err := a.store.GetContact(r.Context(), currentUser(r).ID, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if contact == nil {
		respondError(w, http.StatusNotFound, "contact not found")
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

func (a *App) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseContactID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}

	var contact models.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if contact.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	owner := currentUser(r).ID
	contact.ID = id
	contact.OwnerID = owner
	contact.UpdatedAt = a.now()

	if err := a.store.UpdateContact(r.Context(), owner, &contact); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "contact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, contact)
}

func (a *App) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseContactID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid contact ID")
		return
	}
	if err := a.store.DeleteContact(r.Context(), currentUser(r).ID, id); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "contact not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}
