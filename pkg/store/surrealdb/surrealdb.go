// Package surrealdb implements store.Store against SurrealDB, the primary
// document backend. Records are written with the surrealcbor codec so that
// time.Time values and typed record IDs survive the round trip; ownership
// scoping is expressed inside each SurrealQL statement rather than checked
// afterwards.
package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore connects over WebSocket, authenticates when credentials are
// given, and selects the namespace/database pair.
func NewSurrealStore(wsURL, namespace, database, username, password string) (store.Store, error) {
	ctx := context.Background()

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// The default codec mangles time.Time and RecordID values; surrealcbor
	// handles both.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{db: db}, nil
}

// Migrate is a no-op: SurrealDB creates tables on first insert. The unique
// constraints the design relies on (user email, share token secret) are
// asserted here as schema statements so duplicates fail at the store.
func (s *SurrealStore) Migrate(ctx context.Context) error {
	stmts := []string{
		"DEFINE INDEX IF NOT EXISTS users_email ON TABLE users COLUMNS email UNIQUE",
		"DEFINE INDEX IF NOT EXISTS share_tokens_secret ON TABLE share_tokens COLUMNS secret UNIQUE",
	}
	for _, stmt := range stmts {
		if _, err := surrealdb.Query[any](ctx, s.db, stmt, nil); err != nil {
			return fmt.Errorf("failed to define index: %w", err)
		}
	}
	return nil
}

func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

// handleNotFound maps the driver's "no rows" errors to a nil result.
func handleNotFound(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}

// queryRows runs a statement and returns the first result set's rows.
func queryRows[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	result, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if result == nil || len(*result) == 0 {
		return nil, nil
	}
	return (*result)[0].Result, nil
}

// mutateScoped runs an UPDATE/DELETE statement that returns the affected
// rows and converts "nothing matched" into store.ErrNotFound.
func mutateScoped[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	rows, err := queryRows[T](ctx, db, query, params)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Users

func (s *SurrealStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	_, err := surrealdb.Create[models.User](ctx, s.db, "users", user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SurrealStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := queryRows[models.User](ctx, s.db,
		"SELECT * FROM users WHERE email = $email",
		map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Children

func (s *SurrealStore) CreateChild(ctx context.Context, child *models.Child) error {
	if child.ID.IsZero() {
		child.ID = models.NewChildID()
	}
	_, err := surrealdb.Create[models.Child](ctx, s.db, "children", child)
	if err != nil {
		return fmt.Errorf("failed to create child: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListChildren(ctx context.Context, owner models.UserID) ([]*models.Child, error) {
	rows, err := queryRows[*models.Child](ctx, s.db,
		"SELECT * FROM children WHERE owner_id = $owner ORDER BY created_at ASC",
		map[string]any{"owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return rows, nil
}

func (s *SurrealStore) DeleteChild(ctx context.Context, owner models.UserID, id models.ChildID) error {
	return mutateScoped[models.Child](ctx, s.db,
		"DELETE $id WHERE owner_id = $owner RETURN BEFORE",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

// Journals

func (s *SurrealStore) CreateJournal(ctx context.Context, journal *models.Journal) error {
	if journal.ID.IsZero() {
		journal.ID = models.NewJournalID()
	}
	journal.ApplyDefaults()
	_, err := surrealdb.Create[models.Journal](ctx, s.db, "journals", journal)
	if err != nil {
		return fmt.Errorf("failed to create journal: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetJournal(ctx context.Context, owner models.UserID, id models.JournalID) (*models.Journal, error) {
	rows, err := queryRows[models.Journal](ctx, s.db,
		"SELECT * FROM $id WHERE owner_id = $owner",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to get journal: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	journal := rows[0]
	journal.ApplyDefaults()
	return &journal, nil
}

func (s *SurrealStore) ListJournals(ctx context.Context, owner models.UserID, page store.Page) ([]*models.Journal, error) {
	page = page.Normalize()
	rows, err := queryRows[*models.Journal](ctx, s.db,
		"SELECT * FROM journals WHERE owner_id = $owner ORDER BY date DESC LIMIT $limit START $start",
		map[string]any{
			"owner": owner.RecordID(),
			"limit": page.Size,
			"start": page.Offset(),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	for _, j := range rows {
		j.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) ListRecentJournals(ctx context.Context, owner models.UserID, limit int) ([]*models.Journal, error) {
	rows, err := queryRows[*models.Journal](ctx, s.db,
		"SELECT * FROM journals WHERE owner_id = $owner ORDER BY created_at DESC LIMIT $limit",
		map[string]any{"owner": owner.RecordID(), "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent journals: %w", err)
	}
	for _, j := range rows {
		j.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) UpdateJournal(ctx context.Context, owner models.UserID, journal *models.Journal) error {
	journal.ApplyDefaults()
	return mutateScoped[models.Journal](ctx, s.db,
		"UPDATE $id CONTENT $content WHERE owner_id = $owner RETURN AFTER",
		map[string]any{
			"id":      journal.ID.RecordID(),
			"owner":   owner.RecordID(),
			"content": journal,
		})
}

func (s *SurrealStore) DeleteJournal(ctx context.Context, owner models.UserID, id models.JournalID) error {
	return mutateScoped[models.Journal](ctx, s.db,
		"DELETE $id WHERE owner_id = $owner RETURN BEFORE",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

// Violations

func (s *SurrealStore) CreateViolation(ctx context.Context, violation *models.Violation) error {
	if violation.ID.IsZero() {
		violation.ID = models.NewViolationID()
	}
	violation.ApplyDefaults()
	_, err := surrealdb.Create[models.Violation](ctx, s.db, "violations", violation)
	if err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetViolation(ctx context.Context, owner models.UserID, id models.ViolationID) (*models.Violation, error) {
	rows, err := queryRows[models.Violation](ctx, s.db,
		"SELECT * FROM $id WHERE owner_id = $owner",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to get violation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	violation := rows[0]
	violation.ApplyDefaults()
	return &violation, nil
}

func (s *SurrealStore) ListViolations(ctx context.Context, owner models.UserID, filter store.ViolationFilter, page store.Page) ([]*models.Violation, error) {
	page = page.Normalize()
	query := "SELECT * FROM violations WHERE owner_id = $owner"
	params := map[string]any{
		"owner": owner.RecordID(),
		"limit": page.Size,
		"start": page.Offset(),
	}
	if filter.Severity != "" {
		query += " AND severity = $severity"
		params["severity"] = filter.Severity
	}
	query += " ORDER BY date DESC LIMIT $limit START $start"

	rows, err := queryRows[*models.Violation](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	for _, v := range rows {
		v.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) ListRecentViolations(ctx context.Context, owner models.UserID, limit int) ([]*models.Violation, error) {
	rows, err := queryRows[*models.Violation](ctx, s.db,
		"SELECT * FROM violations WHERE owner_id = $owner ORDER BY created_at DESC LIMIT $limit",
		map[string]any{"owner": owner.RecordID(), "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent violations: %w", err)
	}
	for _, v := range rows {
		v.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) DeleteViolation(ctx context.Context, owner models.UserID, id models.ViolationID) error {
	return mutateScoped[models.Violation](ctx, s.db,
		"DELETE $id WHERE owner_id = $owner RETURN BEFORE",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

// Documents

func (s *SurrealStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.ID.IsZero() {
		doc.ID = models.NewDocumentID()
	}
	_, err := surrealdb.Create[models.Document](ctx, s.db, "documents", doc)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetDocument(ctx context.Context, owner models.UserID, id models.DocumentID) (*models.Document, error) {
	rows, err := queryRows[models.Document](ctx, s.db,
		"SELECT * FROM $id WHERE owner_id = $owner",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *SurrealStore) ListDocuments(ctx context.Context, owner models.UserID) ([]*models.Document, error) {
	// Payload excluded at the query level; listings are metadata only.
	rows, err := queryRows[*models.Document](ctx, s.db,
		"SELECT * OMIT data FROM documents WHERE owner_id = $owner ORDER BY created_at DESC",
		map[string]any{"owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return rows, nil
}

func (s *SurrealStore) DeleteDocument(ctx context.Context, owner models.UserID, id models.DocumentID) error {
	return mutateScoped[models.Document](ctx, s.db,
		"DELETE $id WHERE owner_id = $owner RETURN BEFORE",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

// Calendar events

func (s *SurrealStore) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID.IsZero() {
		event.ID = models.NewEventID()
	}
	event.ApplyDefaults()
	_, err := surrealdb.Create[models.CalendarEvent](ctx, s.db, "events", event)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListEvents(ctx context.Context, owner models.UserID) ([]*models.CalendarEvent, error) {
	rows, err := queryRows[*models.CalendarEvent](ctx, s.db,
		"SELECT * FROM events WHERE owner_id = $owner ORDER BY start_date ASC",
		map[string]any{"owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	for _, e := range rows {
		e.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) ListUpcomingEvents(ctx context.Context, owner models.UserID, from string, limit int) ([]*models.CalendarEvent, error) {
	rows, err := queryRows[*models.CalendarEvent](ctx, s.db,
		"SELECT * FROM events WHERE owner_id = $owner AND start_date >= $from ORDER BY start_date ASC LIMIT $limit",
		map[string]any{"owner": owner.RecordID(), "from": from, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	for _, e := range rows {
		e.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) UpdateEvent(ctx context.Context, owner models.UserID, event *models.CalendarEvent) error {
	event.ApplyDefaults()
	return mutateScoped[models.CalendarEvent](ctx, s.db,
		"UPDATE $id CONTENT $content WHERE owner_id = $owner RETURN AFTER",
		map[string]any{
			"id":      event.ID.RecordID(),
			"owner":   owner.RecordID(),
			"content": event,
		})
}

func (s *SurrealStore) DeleteEvent(ctx context.Context, owner models.UserID, id models.EventID) error {
	return mutateScoped[models.CalendarEvent](ctx, s.db,
		"DELETE $id WHERE owner_id = $owner RETURN BEFORE",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

// Contacts

func (s *SurrealStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	if contact.ID.IsZero() {
		contact.ID = models.NewContactID()
	}
	contact.ApplyDefaults()
	_, err := surrealdb.Create[models.Contact](ctx, s.db, "contacts", contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (s *SurrealStore) GetContact(ctx context.Context, owner models.UserID, id models.ContactID) (*models.Contact, error) {
	rows, err := queryRows[models.Contact](ctx, s.db,
		"SELECT * FROM $id WHERE owner_id = $owner",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	contact := rows[0]
	contact.ApplyDefaults()
	return &contact, nil
}

func (s *SurrealStore) ListContacts(ctx context.Context, owner models.UserID) ([]*models.Contact, error) {
	rows, err := queryRows[*models.Contact](ctx, s.db,
		"SELECT * FROM contacts WHERE owner_id = $owner ORDER BY name ASC",
		map[string]any{"owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	for _, c := range rows {
		c.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) UpdateContact(ctx context.Context, owner models.UserID, contact *models.Contact) error {
	contact.ApplyDefaults()
	return mutateScoped[models.Contact](ctx, s.db,
		"UPDATE $id CONTENT $content WHERE owner_id = $owner RETURN AFTER",
		map[string]any{
			"id":      contact.ID.RecordID(),
			"owner":   owner.RecordID(),
			"content": contact,
		})
}

func (s *SurrealStore) DeleteContact(ctx context.Context, owner models.UserID, id models.ContactID) error {
	return mutateScoped[models.Contact](ctx, s.db,
		"DELETE $id WHERE owner_id = $owner RETURN BEFORE",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

// Share tokens

func (s *SurrealStore) CreateShareToken(ctx context.Context, token *models.ShareToken) error {
	if token.ID.IsZero() {
		token.ID = models.NewShareTokenID()
	}
	token.ApplyDefaults()
	_, err := surrealdb.Create[models.ShareToken](ctx, s.db, "share_tokens", token)
	if err != nil {
		return fmt.Errorf("failed to create share token: %w", err)
	}
	return nil
}

func (s *SurrealStore) ListShareTokens(ctx context.Context, owner models.UserID) ([]*models.ShareToken, error) {
	rows, err := queryRows[*models.ShareToken](ctx, s.db,
		"SELECT * FROM share_tokens WHERE owner_id = $owner ORDER BY created_at DESC",
		map[string]any{"owner": owner.RecordID()})
	if err != nil {
		return nil, fmt.Errorf("failed to list share tokens: %w", err)
	}
	for _, t := range rows {
		t.ApplyDefaults()
	}
	return rows, nil
}

func (s *SurrealStore) RevokeShareToken(ctx context.Context, owner models.UserID, id models.ShareTokenID) error {
	// is_active deliberately absent from the filter: revoking an
	// already-revoked token matches and stays a successful no-op.
	return mutateScoped[models.ShareToken](ctx, s.db,
		"UPDATE $id SET is_active = false WHERE owner_id = $owner RETURN AFTER",
		map[string]any{"id": id.RecordID(), "owner": owner.RecordID()})
}

func (s *SurrealStore) GetShareTokenBySecret(ctx context.Context, secret string) (*models.ShareToken, error) {
	rows, err := queryRows[models.ShareToken](ctx, s.db,
		"SELECT * FROM share_tokens WHERE secret = $secret AND is_active = true",
		map[string]any{"secret": secret})
	if err != nil {
		return nil, fmt.Errorf("failed to get share token: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	token := rows[0]
	token.ApplyDefaults()
	return &token, nil
}

// Counts

type countRow struct {
	Count int64 `json:"count"`
}

func (s *SurrealStore) countTable(ctx context.Context, table string, owner models.UserID) (int64, error) {
	rows, err := queryRows[countRow](ctx, s.db,
		fmt.Sprintf("SELECT count() AS count FROM %s WHERE owner_id = $owner GROUP ALL", table),
		map[string]any{"owner": owner.RecordID()})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

func (s *SurrealStore) Counts(ctx context.Context, owner models.UserID) (*models.ResourceCounts, error) {
	counts := &models.ResourceCounts{}
	targets := []struct {
		table string
		dest  *int64
	}{
		{"children", &counts.Children},
		{"journals", &counts.Journals},
		{"violations", &counts.Violations},
		{"documents", &counts.Documents},
		{"events", &counts.Events},
	}
	for _, t := range targets {
		n, err := s.countTable(ctx, t.table, owner)
		if err != nil {
			return nil, err
		}
		*t.dest = n
	}
	return counts, nil
}
