package casekeeper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Router builds the HTTP route table. Exposed so tests can mount the
// application on an httptest server.
//
// # API Endpoints
//
// Public:
//
//	GET  /health                      - Service health status
//	POST /api/auth/register           - Register new account
//	POST /api/auth/login              - Authenticate, returns bearer token
//	GET  /api/shared/{secret}         - Resolve a share link (no auth)
//	GET  /api/state-laws              - List state law references
//	GET  /api/state-laws/{state}      - Get one state
//
// Bearer token required:
//
//	GET    /api/auth/me               - Current account
//	POST   /api/children              - Add child
//	GET    /api/children              - List children
//	DELETE /api/children/{id}         - Remove child
//	POST   /api/journals              - Create journal entry
//	GET    /api/journals              - List entries (paginated, date desc)
//	GET    /api/journals/{id}         - Get entry
//	PUT    /api/journals/{id}         - Update entry
//	DELETE /api/journals/{id}         - Delete entry
//	POST   /api/violations            - Log violation
//	GET    /api/violations            - List violations (severity filter)
//	GET    /api/violations/{id}       - Get violation
//	DELETE /api/violations/{id}       - Delete violation
//	POST   /api/documents             - Upload file (multipart)
//	GET    /api/documents             - List metadata
//	GET    /api/documents/{id}        - Get metadata
//	GET    /api/documents/{id}/download - Download file content
//	DELETE /api/documents/{id}        - Delete document
//	POST   /api/calendar              - Create event
//	GET    /api/calendar              - List events (start date asc)
//	PUT    /api/calendar/{id}         - Update event
//	DELETE /api/calendar/{id}         - Delete event
//	POST   /api/contacts              - Create contact
//	GET    /api/contacts              - List contacts
//	GET    /api/contacts/{id}         - Get contact
//	PUT    /api/contacts/{id}         - Update contact
//	DELETE /api/contacts/{id}        - Delete contact
//	POST   /api/share/tokens          - Create share link
//	GET    /api/share/tokens          - List share links
//	DELETE /api/share/tokens/{id}     - Revoke share link
//	GET    /api/dashboard/stats       - Resource counts and recent activity
//	GET    /api/export/journals       - Full journal export
//	GET    /api/export/violations     - Full violation export
func (a *App) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", a.handleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	// Public routes
	api.HandleFunc("/auth/register", a.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", a.handleLogin).Methods("POST")
	api.HandleFunc("/shared/{secret}", a.handleResolveShare).Methods("GET")
	api.HandleFunc("/state-laws", a.handleListStateLaws).Methods("GET")
	api.HandleFunc("/state-laws/{state}", a.handleGetStateLaw).Methods("GET")

	// Everything below requires a valid bearer token.
	authed := api.NewRoute().Subrouter()
	authed.Use(a.requireAuth)

	authed.HandleFunc("/auth/me", a.handleCurrentUser).Methods("GET")

	authed.HandleFunc("/children", a.handleCreateChild).Methods("POST")
	authed.HandleFunc("/children", a.handleListChildren).Methods("GET")
	authed.HandleFunc("/children/{id}", a.handleDeleteChild).Methods("DELETE")

	authed.HandleFunc("/journals", a.handleCreateJournal).Methods("POST")
	authed.HandleFunc("/journals", a.handleListJournals).Methods("GET")
	authed.HandleFunc("/journals/{id}", a.handleGetJournal).Methods("GET")
	authed.HandleFunc("/journals/{id}", a.handleUpdateJournal).Methods("PUT")
	authed.HandleFunc("/journals/{id}", a.handleDeleteJournal).Methods("DELETE")

	authed.HandleFunc("/violations", a.handleCreateViolation).Methods("POST")
	authed.HandleFunc("/violations", a.handleListViolations).Methods("GET")
	authed.HandleFunc("/violations/{id}", a.handleGetViolation).Methods("GET")
	authed.HandleFunc("/violations/{id}", a.handleDeleteViolation).Methods("DELETE")

	authed.HandleFunc("/documents", a.handleUploadDocument).Methods("POST")
	authed.HandleFunc("/documents", a.handleListDocuments).Methods("GET")
	authed.HandleFunc("/documents/{id}", a.handleGetDocument).Methods("GET")
	authed.HandleFunc("/documents/{id}/download", a.handleDownloadDocument).Methods("GET")
	authed.HandleFunc("/documents/{id}", a.handleDeleteDocument).Methods("DELETE")

	authed.HandleFunc("/calendar", a.handleCreateEvent).Methods("POST")
	authed.HandleFunc("/calendar", a.handleListEvents).Methods("GET")
	authed.HandleFunc("/calendar/{id}", a.handleUpdateEvent).Methods("PUT")
	authed.HandleFunc("/calendar/{id}", a.handleDeleteEvent).Methods("DELETE")

	authed.HandleFunc("/contacts", a.handleCreateContact).Methods("POST")
	authed.HandleFunc("/contacts", a.handleListContacts).Methods("GET")
	authed.HandleFunc("/contacts/{id}", a.handleGetContact).Methods("GET")
	authed.HandleFunc("/contacts/{id}", a.handleUpdateContact).Methods("PUT")
	authed.HandleFunc("/contacts/{id}", a.handleDeleteContact).Methods("DELETE")

	authed.HandleFunc("/share/tokens", a.handleCreateShareToken).Methods("POST")
	authed.HandleFunc("/share/tokens", a.handleListShareTokens).Methods("GET")
	authed.HandleFunc("/share/tokens/{id}", a.handleRevokeShareToken).Methods("DELETE")

	authed.HandleFunc("/dashboard/stats", a.handleDashboardStats).Methods("GET")

	authed.HandleFunc("/export/journals", a.handleExportJournals).Methods("GET")
	authed.HandleFunc("/export/violations", a.handleExportViolations).Methods("GET")

	return router
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// fatal server error occurs. On shutdown it allows up to 5 seconds for
// in-flight requests to complete.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	addr := fmt.Sprintf(":%s", a.config.ServerPort)
	a.log.Info().Str("addr", addr).Msg("starting server")

	server := &http.Server{
		Addr:    addr,
		Handler: a.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
