// Package postgres implements store.Store on PostgreSQL through GORM. It is
// the relational alternative to the SurrealDB backend: schema comes from
// AutoMigrate over the model structs, list fields are stored as jsonb, and
// ownership scoping is a WHERE clause on every query.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens a connection with the given DSN.
func NewPostgresStore(dsn string) (store.Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Migrate creates or extends the schema. AutoMigrate only adds tables,
// columns and indexes; it never drops existing data, so it is safe to run
// on every startup.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Child{},
		&models.Journal{},
		&models.Violation{},
		&models.Document{},
		&models.CalendarEvent{},
		&models.Contact{},
		&models.ShareToken{},
	)
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *PostgresStore) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Children

func (s *PostgresStore) CreateChild(ctx context.Context, child *models.Child) error {
	return s.db.WithContext(ctx).Create(child).Error
}

func (s *PostgresStore) ListChildren(ctx context.Context, owner models.UserID) ([]*models.Child, error) {
	var children []*models.Child
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at ASC").
		Find(&children).Error
	return children, err
}

func (s *PostgresStore) DeleteChild(ctx context.Context, owner models.UserID, id models.ChildID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&models.Child{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Journals

func (s *PostgresStore) CreateJournal(ctx context.Context, journal *models.Journal) error {
	journal.ApplyDefaults()
	return s.db.WithContext(ctx).Create(journal).Error
}

func (s *PostgresStore) GetJournal(ctx context.Context, owner models.UserID, id models.JournalID) (*models.Journal, error) {
	var journal models.Journal
	err := s.db.WithContext(ctx).First(&journal, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	journal.ApplyDefaults()
	return &journal, nil
}

func (s *PostgresStore) ListJournals(ctx context.Context, owner models.UserID, page store.Page) ([]*models.Journal, error) {
	page = page.Normalize()
	var journals []*models.Journal
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("date DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&journals).Error
	if err != nil {
		return nil, err
	}
	for _, j := range journals {
		j.ApplyDefaults()
	}
	return journals, nil
}

func (s *PostgresStore) ListRecentJournals(ctx context.Context, owner models.UserID, limit int) ([]*models.Journal, error) {
	var journals []*models.Journal
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC").
		Limit(limit).
		Find(&journals).Error
	if err != nil {
		return nil, err
	}
	for _, j := range journals {
		j.ApplyDefaults()
	}
	return journals, nil
}

func (s *PostgresStore) UpdateJournal(ctx context.Context, owner models.UserID, journal *models.Journal) error {
	journal.ApplyDefaults()
	result := s.db.WithContext(ctx).
		Model(&models.Journal{}).
		Where("id = ? AND owner_id = ?", journal.ID, owner).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(journal)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteJournal(ctx context.Context, owner models.UserID, id models.JournalID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&models.Journal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Violations

func (s *PostgresStore) CreateViolation(ctx context.Context, violation *models.Violation) error {
	violation.ApplyDefaults()
	return s.db.WithContext(ctx).Create(violation).Error
}

func (s *PostgresStore) GetViolation(ctx context.Context, owner models.UserID, id models.ViolationID) (*models.Violation, error) {
	var violation models.Violation
	err := s.db.WithContext(ctx).First(&violation, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	violation.ApplyDefaults()
	return &violation, nil
}

func (s *PostgresStore) ListViolations(ctx context.Context, owner models.UserID, filter store.ViolationFilter, page store.Page) ([]*models.Violation, error) {
	page = page.Normalize()
	q := s.db.WithContext(ctx).Where("owner_id = ?", owner)
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	var violations []*models.Violation
	err := q.Order("date DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&violations).Error
	if err != nil {
		return nil, err
	}
	for _, v := range violations {
		v.ApplyDefaults()
	}
	return violations, nil
}

func (s *PostgresStore) ListRecentViolations(ctx context.Context, owner models.UserID, limit int) ([]*models.Violation, error) {
	var violations []*models.Violation
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC").
		Limit(limit).
		Find(&violations).Error
	if err != nil {
		return nil, err
	}
	for _, v := range violations {
		v.ApplyDefaults()
	}
	return violations, nil
}

func (s *PostgresStore) DeleteViolation(ctx context.Context, owner models.UserID, id models.ViolationID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&models.Violation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Documents

func (s *PostgresStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

func (s *PostgresStore) GetDocument(ctx context.Context, owner models.UserID, id models.DocumentID) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).First(&doc, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, owner models.UserID) ([]*models.Document, error) {
	var docs []*models.Document
	err := s.db.WithContext(ctx).
		Omit("data").
		Where("owner_id = ?", owner).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, owner models.UserID, id models.DocumentID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&models.Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Calendar events

func (s *PostgresStore) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	event.ApplyDefaults()
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *PostgresStore) ListEvents(ctx context.Context, owner models.UserID) ([]*models.CalendarEvent, error) {
	var events []*models.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		e.ApplyDefaults()
	}
	return events, nil
}

func (s *PostgresStore) ListUpcomingEvents(ctx context.Context, owner models.UserID, from string, limit int) ([]*models.CalendarEvent, error) {
	var events []*models.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND start_date >= ?", owner, from).
		Order("start_date ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		e.ApplyDefaults()
	}
	return events, nil
}

func (s *PostgresStore) UpdateEvent(ctx context.Context, owner models.UserID, event *models.CalendarEvent) error {
	event.ApplyDefaults()
	result := s.db.WithContext(ctx).
		Model(&models.CalendarEvent{}).
		Where("id = ? AND owner_id = ?", event.ID, owner).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(event)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEvent(ctx context.Context, owner models.UserID, id models.EventID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&models.CalendarEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Contacts

func (s *PostgresStore) CreateContact(ctx context.Context, contact *models.Contact) error {
	contact.ApplyDefaults()
	return s.db.WithContext(ctx).Create(contact).Error
}

func (s *PostgresStore) GetContact(ctx context.Context, owner models.UserID, id models.ContactID) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.WithContext(ctx).First(&contact, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	contact.ApplyDefaults()
	return &contact, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, owner models.UserID) ([]*models.Contact, error) {
	var contacts []*models.Contact
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("name ASC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		c.ApplyDefaults()
	}
	return contacts, nil
}

func (s *PostgresStore) UpdateContact(ctx context.Context, owner models.UserID, contact *models.Contact) error {
	contact.ApplyDefaults()
	result := s.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND owner_id = ?", contact.ID, owner).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(contact)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, owner models.UserID, id models.ContactID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, owner).
		Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Share tokens

func (s *PostgresStore) CreateShareToken(ctx context.Context, token *models.ShareToken) error {
	token.ApplyDefaults()
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *PostgresStore) ListShareTokens(ctx context.Context, owner models.UserID) ([]*models.ShareToken, error) {
	var tokens []*models.ShareToken
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	for _, t := range tokens {
		t.ApplyDefaults()
	}
	return tokens, nil
}

func (s *PostgresStore) RevokeShareToken(ctx context.Context, owner models.UserID, id models.ShareTokenID) error {
	// Matches regardless of is_active so a second revoke is a no-op
	// rather than a not-found.
	result := s.db.WithContext(ctx).
		Model(&models.ShareToken{}).
		Where("id = ? AND owner_id = ?", id, owner).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetShareTokenBySecret(ctx context.Context, secret string) (*models.ShareToken, error) {
	var token models.ShareToken
	err := s.db.WithContext(ctx).First(&token, "secret = ? AND is_active = ?", secret, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	token.ApplyDefaults()
	return &token, nil
}

// Counts

func (s *PostgresStore) Counts(ctx context.Context, owner models.UserID) (*models.ResourceCounts, error) {
	counts := &models.ResourceCounts{}
	targets := []struct {
		model any
		dest  *int64
	}{
		{&models.Child{}, &counts.Children},
		{&models.Journal{}, &counts.Journals},
		{&models.Violation{}, &counts.Violations},
		{&models.Document{}, &counts.Documents},
		{&models.CalendarEvent{}, &counts.Events},
	}
	for _, t := range targets {
		err := s.db.WithContext(ctx).
			Model(t.model).
			Where("owner_id = ?", owner).
			Count(t.dest).Error
		if err != nil {
			return nil, err
		}
	}
	return counts, nil
}
