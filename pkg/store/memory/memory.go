// Package memory implements store.Store with mutex-guarded maps. It backs
// handler tests and local development where neither database is running.
// Semantics mirror the persistent backends: Get misses return (nil, nil),
// scoped mutations on missing or foreign records return store.ErrNotFound,
// and values are copied on the way in and out so callers never share memory
// with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

type MemoryStore struct {
	mu sync.RWMutex

	users       map[models.UserID]*models.User
	children    map[models.ChildID]*models.Child
	journals    map[models.JournalID]*models.Journal
	violations  map[models.ViolationID]*models.Violation
	documents   map[models.DocumentID]*models.Document
	events      map[models.EventID]*models.CalendarEvent
	contacts    map[models.ContactID]*models.Contact
	shareTokens map[models.ShareTokenID]*models.ShareToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[models.UserID]*models.User),
		children:    make(map[models.ChildID]*models.Child),
		journals:    make(map[models.JournalID]*models.Journal),
		violations:  make(map[models.ViolationID]*models.Violation),
		documents:   make(map[models.DocumentID]*models.Document),
		events:      make(map[models.EventID]*models.CalendarEvent),
		contacts:    make(map[models.ContactID]*models.Contact),
		shareTokens: make(map[models.ShareTokenID]*models.ShareToken),
	}
}

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user with email %q already exists", user.Email)
		}
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u := *user
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, nil
}

// Children

func (s *MemoryStore) CreateChild(ctx context.Context, child *models.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if child.ID.IsZero() {
		child.ID = models.NewChildID()
	}
	c := *child
	s.children[child.ID] = &c
	return nil
}

func (s *MemoryStore) ListChildren(ctx context.Context, owner models.UserID) ([]*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var children []*models.Child
	for _, child := range s.children {
		if child.OwnerID == owner {
			c := *child
			children = append(children, &c)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children, nil
}

func (s *MemoryStore) DeleteChild(ctx context.Context, owner models.UserID, id models.ChildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	child, ok := s.children[id]
	if !ok || child.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.children, id)
	return nil
}

// Journals

func (s *MemoryStore) CreateJournal(ctx context.Context, journal *models.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if journal.ID.IsZero() {
		journal.ID = models.NewJournalID()
	}
	journal.ApplyDefaults()
	j := *journal
	s.journals[journal.ID] = &j
	return nil
}

func (s *MemoryStore) GetJournal(ctx context.Context, owner models.UserID, id models.JournalID) (*models.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	journal, ok := s.journals[id]
	if !ok || journal.OwnerID != owner {
		return nil, nil
	}
	j := *journal
	j.ApplyDefaults()
	return &j, nil
}

func (s *MemoryStore) listJournalsByDate(owner models.UserID) []*models.Journal {
	var journals []*models.Journal
	for _, journal := range s.journals {
		if journal.OwnerID == owner {
			j := *journal
			j.ApplyDefaults()
			journals = append(journals, &j)
		}
	}
	// Dates are YYYY-MM-DD strings so lexicographic order is date order.
	sort.Slice(journals, func(i, j int) bool {
		if journals[i].Date != journals[j].Date {
			return journals[i].Date > journals[j].Date
		}
		return journals[i].CreatedAt.After(journals[j].CreatedAt)
	})
	return journals
}

func (s *MemoryStore) ListJournals(ctx context.Context, owner models.UserID, page store.Page) ([]*models.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page = page.Normalize()
	return paginate(s.listJournalsByDate(owner), page), nil
}

func (s *MemoryStore) ListRecentJournals(ctx context.Context, owner models.UserID, limit int) ([]*models.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var journals []*models.Journal
	for _, journal := range s.journals {
		if journal.OwnerID == owner {
			j := *journal
			j.ApplyDefaults()
			journals = append(journals, &j)
		}
	}
	sort.Slice(journals, func(i, j int) bool {
		return journals[i].CreatedAt.After(journals[j].CreatedAt)
	})
	return limitSlice(journals, limit), nil
}

func (s *MemoryStore) UpdateJournal(ctx context.Context, owner models.UserID, journal *models.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.journals[journal.ID]
	if !ok || existing.OwnerID != owner {
		return store.ErrNotFound
	}
	journal.ApplyDefaults()
	j := *journal
	j.OwnerID = existing.OwnerID
	j.CreatedAt = existing.CreatedAt
	s.journals[journal.ID] = &j
	return nil
}

func (s *MemoryStore) DeleteJournal(ctx context.Context, owner models.UserID, id models.JournalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	journal, ok := s.journals[id]
	if !ok || journal.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.journals, id)
	return nil
}

// Violations

func (s *MemoryStore) CreateViolation(ctx context.Context, violation *models.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if violation.ID.IsZero() {
		violation.ID = models.NewViolationID()
	}
	violation.ApplyDefaults()
	v := *violation
	s.violations[violation.ID] = &v
	return nil
}

func (s *MemoryStore) GetViolation(ctx context.Context, owner models.UserID, id models.ViolationID) (*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	violation, ok := s.violations[id]
	if !ok || violation.OwnerID != owner {
		return nil, nil
	}
	v := *violation
	v.ApplyDefaults()
	return &v, nil
}

func (s *MemoryStore) ListViolations(ctx context.Context, owner models.UserID, filter store.ViolationFilter, page store.Page) ([]*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page = page.Normalize()
	var violations []*models.Violation
	for _, violation := range s.violations {
		if violation.OwnerID != owner {
			continue
		}
		v := *violation
		v.ApplyDefaults()
		if filter.Severity != "" && v.Severity != filter.Severity {
			continue
		}
		violations = append(violations, &v)
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Date != violations[j].Date {
			return violations[i].Date > violations[j].Date
		}
		return violations[i].CreatedAt.After(violations[j].CreatedAt)
	})
	return paginate(violations, page), nil
}

func (s *MemoryStore) ListRecentViolations(ctx context.Context, owner models.UserID, limit int) ([]*models.Violation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var violations []*models.Violation
	for _, violation := range s.violations {
		if violation.OwnerID == owner {
			v := *violation
			v.ApplyDefaults()
			violations = append(violations, &v)
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].CreatedAt.After(violations[j].CreatedAt)
	})
	return limitSlice(violations, limit), nil
}

func (s *MemoryStore) DeleteViolation(ctx context.Context, owner models.UserID, id models.ViolationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	violation, ok := s.violations[id]
	if !ok || violation.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.violations, id)
	return nil
}

// Documents

func (s *MemoryStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = models.NewDocumentID()
	}
	d := *doc
	s.documents[doc.ID] = &d
	return nil
}

func (s *MemoryStore) GetDocument(ctx context.Context, owner models.UserID, id models.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok || doc.OwnerID != owner {
		return nil, nil
	}
	d := *doc
	return &d, nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context, owner models.UserID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*models.Document
	for _, doc := range s.documents {
		if doc.OwnerID == owner {
			d := *doc
			d.Data = ""
			docs = append(docs, &d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, owner models.UserID, id models.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok || doc.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// Calendar events

func (s *MemoryStore) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = models.NewEventID()
	}
	event.ApplyDefaults()
	e := *event
	s.events[event.ID] = &e
	return nil
}

func (s *MemoryStore) listEventsByStart(owner models.UserID) []*models.CalendarEvent {
	var events []*models.CalendarEvent
	for _, event := range s.events {
		if event.OwnerID == owner {
			e := *event
			e.ApplyDefaults()
			events = append(events, &e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartDate != events[j].StartDate {
			return events[i].StartDate < events[j].StartDate
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events
}

func (s *MemoryStore) ListEvents(ctx context.Context, owner models.UserID) ([]*models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEventsByStart(owner), nil
}

func (s *MemoryStore) ListUpcomingEvents(ctx context.Context, owner models.UserID, from string, limit int) ([]*models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var upcoming []*models.CalendarEvent
	for _, event := range s.listEventsByStart(owner) {
		if event.StartDate >= from {
			upcoming = append(upcoming, event)
		}
	}
	return limitSlice(upcoming, limit), nil
}

func (s *MemoryStore) UpdateEvent(ctx context.Context, owner models.UserID, event *models.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.events[event.ID]
	if !ok || existing.OwnerID != owner {
		return store.ErrNotFound
	}
	event.ApplyDefaults()
	e := *event
	e.OwnerID = existing.OwnerID
	e.CreatedAt = existing.CreatedAt
	s.events[event.ID] = &e
	return nil
}

func (s *MemoryStore) DeleteEvent(ctx context.Context, owner models.UserID, id models.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok || event.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

// Contacts

func (s *MemoryStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contact.ID.IsZero() {
		contact.ID = models.NewContactID()
	}
	contact.ApplyDefaults()
	c := *contact
	s.contacts[contact.ID] = &c
	return nil
}

func (s *MemoryStore) GetContact(ctx context.Context, owner models.UserID, id models.ContactID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.contacts[id]
	if !ok || contact.OwnerID != owner {
		return nil, nil
	}
	c := *contact
	c.ApplyDefaults()
	return &c, nil
}

func (s *MemoryStore) ListContacts(ctx context.Context, owner models.UserID) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var contacts []*models.Contact
	for _, contact := range s.contacts {
		if contact.OwnerID == owner {
			c := *contact
			c.ApplyDefaults()
			contacts = append(contacts, &c)
		}
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].Name < contacts[j].Name
	})
	return contacts, nil
}

func (s *MemoryStore) UpdateContact(ctx context.Context, owner models.UserID, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.contacts[contact.ID]
	if !ok || existing.OwnerID != owner {
		return store.ErrNotFound
	}
	contact.ApplyDefaults()
	c := *contact
	c.OwnerID = existing.OwnerID
	c.CreatedAt = existing.CreatedAt
	s.contacts[contact.ID] = &c
	return nil
}

func (s *MemoryStore) DeleteContact(ctx context.Context, owner models.UserID, id models.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact, ok := s.contacts[id]
	if !ok || contact.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

// Share tokens

func (s *MemoryStore) CreateShareToken(ctx context.Context, token *models.ShareToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.ID.IsZero() {
		token.ID = models.NewShareTokenID()
	}
	token.ApplyDefaults()
	for _, existing := range s.shareTokens {
		if existing.Secret == token.Secret {
			return fmt.Errorf("share token secret collision")
		}
	}
	t := *token
	s.shareTokens[token.ID] = &t
	return nil
}

func (s *MemoryStore) ListShareTokens(ctx context.Context, owner models.UserID) ([]*models.ShareToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tokens []*models.ShareToken
	for _, token := range s.shareTokens {
		if token.OwnerID == owner {
			t := *token
			t.ApplyDefaults()
			tokens = append(tokens, &t)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].CreatedAt.After(tokens[j].CreatedAt)
	})
	return tokens, nil
}

func (s *MemoryStore) RevokeShareToken(ctx context.Context, owner models.UserID, id models.ShareTokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.shareTokens[id]
	if !ok || token.OwnerID != owner {
		return store.ErrNotFound
	}
	token.IsActive = false
	return nil
}

func (s *MemoryStore) GetShareTokenBySecret(ctx context.Context, secret string) (*models.ShareToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.shareTokens {
		if token.Secret == secret && token.IsActive {
			t := *token
			t.ApplyDefaults()
			return &t, nil
		}
	}
	return nil, nil
}

// Counts

func (s *MemoryStore) Counts(ctx context.Context, owner models.UserID) (*models.ResourceCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := &models.ResourceCounts{}
	for _, c := range s.children {
		if c.OwnerID == owner {
			counts.Children++
		}
	}
	for _, j := range s.journals {
		if j.OwnerID == owner {
			counts.Journals++
		}
	}
	for _, v := range s.violations {
		if v.OwnerID == owner {
			counts.Violations++
		}
	}
	for _, d := range s.documents {
		if d.OwnerID == owner {
			counts.Documents++
		}
	}
	for _, e := range s.events {
		if e.OwnerID == owner {
			counts.Events++
		}
	}
	return counts, nil
}

func paginate[T any](items []*T, page store.Page) []*T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func limitSlice[T any](items []*T, limit int) []*T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
