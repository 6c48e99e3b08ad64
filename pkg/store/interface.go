// Package store defines the persistence contract for casekeeper and the
// shared conventions every backend honors:
//
//   - Get* methods return (nil, nil) when no record matches; errors are
//     reserved for connection and query failures.
//   - Mutations (update, delete, revoke) that match no record return
//     ErrNotFound. A record that exists but belongs to another owner is
//     indistinguishable from one that does not exist: the ownership filter
//     is part of the query, not a check after the fact.
//   - Reads backfill absent legacy fields with documented defaults
//     (models.*.ApplyDefaults) before returning, so handlers never see
//     partially-populated records.
//
// Three implementations exist: surrealdb (primary document store), postgres
// (GORM), and memory (tests and local development).
package store

import (
	"context"
	"errors"

	"github.com/casekeeper/casekeeper/pkg/models"
)

// ErrNotFound is returned by mutations that matched no record, either
// because the ID is unknown or because it belongs to a different owner.
var ErrNotFound = errors.New("record not found")

// DefaultPageSize applies when a caller requests a page without a size.
const DefaultPageSize = 50

// MaxPageSize caps page sizes to keep single responses bounded.
const MaxPageSize = 100

// Page selects a window of a list result. The zero value means "first page,
// default size".
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of records to skip.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// ViolationFilter narrows violation listings. Zero values match everything.
type ViolationFilter struct {
	Severity string
}

// Store is the persistence interface for all casekeeper entities. Every
// method takes the request context; implementations must not outlive it.
type Store interface {
	// Users. Email is unique and matched case-sensitively as stored.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Children.
	CreateChild(ctx context.Context, child *models.Child) error
	ListChildren(ctx context.Context, owner models.UserID) ([]*models.Child, error)
	DeleteChild(ctx context.Context, owner models.UserID, id models.ChildID) error

	// Journals. Listings are ordered by entry date, newest first.
	CreateJournal(ctx context.Context, journal *models.Journal) error
	GetJournal(ctx context.Context, owner models.UserID, id models.JournalID) (*models.Journal, error)
	ListJournals(ctx context.Context, owner models.UserID, page Page) ([]*models.Journal, error)
	ListRecentJournals(ctx context.Context, owner models.UserID, limit int) ([]*models.Journal, error)
	UpdateJournal(ctx context.Context, owner models.UserID, journal *models.Journal) error
	DeleteJournal(ctx context.Context, owner models.UserID, id models.JournalID) error

	// Violations. Listings are ordered by incident date, newest first.
	CreateViolation(ctx context.Context, violation *models.Violation) error
	GetViolation(ctx context.Context, owner models.UserID, id models.ViolationID) (*models.Violation, error)
	ListViolations(ctx context.Context, owner models.UserID, filter ViolationFilter, page Page) ([]*models.Violation, error)
	ListRecentViolations(ctx context.Context, owner models.UserID, limit int) ([]*models.Violation, error)
	DeleteViolation(ctx context.Context, owner models.UserID, id models.ViolationID) error

	// Documents. ListDocuments returns metadata only (Data cleared);
	// GetDocument returns the full record including the payload.
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, owner models.UserID, id models.DocumentID) (*models.Document, error)
	ListDocuments(ctx context.Context, owner models.UserID) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, owner models.UserID, id models.DocumentID) error

	// Calendar events. Listings are ordered by start date, soonest first.
	CreateEvent(ctx context.Context, event *models.CalendarEvent) error
	ListEvents(ctx context.Context, owner models.UserID) ([]*models.CalendarEvent, error)
	ListUpcomingEvents(ctx context.Context, owner models.UserID, from string, limit int) ([]*models.CalendarEvent, error)
	UpdateEvent(ctx context.Context, owner models.UserID, event *models.CalendarEvent) error
	DeleteEvent(ctx context.Context, owner models.UserID, id models.EventID) error

	// Contacts.
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetContact(ctx context.Context, owner models.UserID, id models.ContactID) (*models.Contact, error)
	ListContacts(ctx context.Context, owner models.UserID) ([]*models.Contact, error)
	UpdateContact(ctx context.Context, owner models.UserID, contact *models.Contact) error
	DeleteContact(ctx context.Context, owner models.UserID, id models.ContactID) error

	// Share tokens. GetShareTokenBySecret searches active tokens only, so a
	// revoked secret resolves exactly like one that never existed.
	// RevokeShareToken flips IsActive off; revoking an already-revoked token
	// is a successful no-op. ListShareTokens returns active and revoked
	// tokens alike, newest first.
	CreateShareToken(ctx context.Context, token *models.ShareToken) error
	ListShareTokens(ctx context.Context, owner models.UserID) ([]*models.ShareToken, error)
	RevokeShareToken(ctx context.Context, owner models.UserID, id models.ShareTokenID) error
	GetShareTokenBySecret(ctx context.Context, secret string) (*models.ShareToken, error)

	// Counts returns the per-collection tallies for the dashboard.
	Counts(ctx context.Context, owner models.UserID) (*models.ResourceCounts, error)

	// Migrate prepares backend schema. A no-op for schemaless backends.
	Migrate(ctx context.Context) error

	Close() error
}
