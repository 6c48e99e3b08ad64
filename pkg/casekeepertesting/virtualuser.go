// Package casekeepertesting provides a virtual user harness for end-to-end
// testing. A VirtualUser drives the HTTP API through the client package the
// way a real account holder would: registering, writing journal entries,
// reporting violations, uploading evidence, scheduling events, and managing
// share links. Every record the user creates is tracked locally so that
// VerifyAllData can later confirm the server returns exactly what was written
// and nothing that was deleted.
//
// Behavior is deterministic per user index: each VirtualUser seeds its own
// rand.Rand with the index, so a scenario run with the same indexes produces
// the same sequence of operations.
package casekeepertesting

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/casekeeper/casekeeper/pkg/client"
	"github.com/casekeeper/casekeeper/pkg/models"
)

// scenarioEpoch is the first journal date a scenario writes. Dates advance
// one day per scenario step so listings have a stable order to verify.
var scenarioEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var journalTitles = []string{
	"Pickup exchange",
	"Phone call with other parent",
	"School event",
	"Weekend visit notes",
	"Doctor appointment",
}

var violationTitles = []string{
	"Late for exchange",
	"Missed scheduled call",
	"Unilateral schedule change",
	"Disparaging remarks",
}

var moods = []string{"calm", "frustrated", "anxious", "hopeful", "neutral"}

var severities = []string{"low", "medium", "high", "critical"}

// VirtualUser simulates one account exercising the API end to end.
type VirtualUser struct {
	Index    int
	Email    string
	Password string
	FullName string
	Client   *client.Client
	RNG      *rand.Rand

	mu   sync.RWMutex
	user *models.User

	// Tracked state, keyed by server-assigned IDs.
	Journals   map[models.JournalID]*models.Journal
	Violations map[models.ViolationID]*models.Violation
	Documents  map[models.DocumentID][]byte
	Events     map[models.EventID]*models.CalendarEvent
	Contacts   map[models.ContactID]*models.Contact
	Children   map[models.ChildID]*models.Child
	Shares     map[models.ShareTokenID]*models.ShareToken

	DeletedJournals []models.JournalID
	RevokedShares   []*models.ShareToken
}

// NewVirtualUser creates a virtual user with a unique email. The RNG is
// seeded with the index so repeated runs replay the same operations.
func NewVirtualUser(index int, baseURL string) *VirtualUser {
	return &VirtualUser{
		Index:    index,
		Email:    fmt.Sprintf("user%d-%d@test.com", index, time.Now().UnixNano()),
		Password: fmt.Sprintf("password-%d-secret", index),
		FullName: fmt.Sprintf("Test Parent %d", index),
		Client:   client.NewClient(baseURL),
		RNG:      rand.New(rand.NewSource(int64(index))),

		Journals:   make(map[models.JournalID]*models.Journal),
		Violations: make(map[models.ViolationID]*models.Violation),
		Documents:  make(map[models.DocumentID][]byte),
		Events:     make(map[models.EventID]*models.CalendarEvent),
		Contacts:   make(map[models.ContactID]*models.Contact),
		Children:   make(map[models.ChildID]*models.Child),
		Shares:     make(map[models.ShareTokenID]*models.ShareToken),
	}
}

// Register creates the account. The client stores the returned token, so
// subsequent calls are authenticated.
func (vu *VirtualUser) Register(ctx context.Context) error {
	resp, err := vu.Client.Register(ctx, client.RegisterRequest{
		Email:    vu.Email,
		Password: vu.Password,
		FullName: vu.FullName,
	})
	if err != nil {
		return fmt.Errorf("virtual user %d register: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.user = resp.User
	vu.mu.Unlock()
	return nil
}

// Login re-authenticates with the stored credentials, replacing the token.
func (vu *VirtualUser) Login(ctx context.Context) error {
	resp, err := vu.Client.Login(ctx, vu.Email, vu.Password)
	if err != nil {
		return fmt.Errorf("virtual user %d login: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.user = resp.User
	vu.mu.Unlock()
	return nil
}

// User returns the registered account, or nil before Register.
func (vu *VirtualUser) User() *models.User {
	vu.mu.RLock()
	defer vu.mu.RUnlock()
	return vu.user
}

func (vu *VirtualUser) dateForDay(day int) string {
	return scenarioEpoch.AddDate(0, 0, day).Format("2006-01-02")
}

// RecordJournal writes a journal entry dated day days after the scenario
// epoch and tracks it.
func (vu *VirtualUser) RecordJournal(ctx context.Context, day int) (*models.Journal, error) {
	entry := &models.Journal{
		Title:   journalTitles[vu.RNG.Intn(len(journalTitles))],
		Content: fmt.Sprintf("Day %d notes from user %d.", day, vu.Index),
		Date:    vu.dateForDay(day),
		Mood:    moods[vu.RNG.Intn(len(moods))],
	}

	created, err := vu.Client.CreateJournal(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d create journal: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Journals[created.ID] = created
	vu.mu.Unlock()
	return created, nil
}

// ReportViolation logs a violation dated day days after the scenario epoch.
func (vu *VirtualUser) ReportViolation(ctx context.Context, day int) (*models.Violation, error) {
	violation := &models.Violation{
		Title:       violationTitles[vu.RNG.Intn(len(violationTitles))],
		Description: fmt.Sprintf("Incident on day %d.", day),
		Date:        vu.dateForDay(day),
		Severity:    severities[vu.RNG.Intn(len(severities))],
	}

	created, err := vu.Client.CreateViolation(ctx, violation)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d create violation: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Violations[created.ID] = created
	vu.mu.Unlock()
	return created, nil
}

// UploadEvidence uploads a small text attachment with random content and
// tracks the exact bytes for later download verification.
func (vu *VirtualUser) UploadEvidence(ctx context.Context, day int) (*models.Document, error) {
	content := []byte(fmt.Sprintf("evidence %d/%d: %d", vu.Index, day, vu.RNG.Int63()))
	filename := fmt.Sprintf("evidence-%d-%d.txt", vu.Index, day)

	doc, err := vu.Client.UploadDocument(ctx, filename, "text/plain", "evidence", "scenario upload", content)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d upload document: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Documents[doc.ID] = content
	vu.mu.Unlock()
	return doc, nil
}

// ScheduleEvent creates a calendar event dated day days after the epoch.
func (vu *VirtualUser) ScheduleEvent(ctx context.Context, day int) (*models.CalendarEvent, error) {
	event := &models.CalendarEvent{
		Title:     fmt.Sprintf("Exchange on day %d", day),
		StartDate: vu.dateForDay(day),
		EventType: "exchange",
	}

	created, err := vu.Client.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d create event: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Events[created.ID] = created
	vu.mu.Unlock()
	return created, nil
}

// AddContact creates a contact and tracks it.
func (vu *VirtualUser) AddContact(ctx context.Context, name string) (*models.Contact, error) {
	contact := &models.Contact{
		Name:   name,
		Phones: models.PhoneList{{Number: fmt.Sprintf("555-%04d", vu.RNG.Intn(10000)), Label: "mobile"}},
	}

	created, err := vu.Client.CreateContact(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("virtual user %d create contact: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Contacts[created.ID] = created
	vu.mu.Unlock()
	return created, nil
}

// AddChild creates a child record and tracks it.
func (vu *VirtualUser) AddChild(ctx context.Context, name string) (*models.Child, error) {
	created, err := vu.Client.CreateChild(ctx, &models.Child{
		Name:        name,
		DateOfBirth: "2018-06-15",
	})
	if err != nil {
		return nil, fmt.Errorf("virtual user %d create child: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Children[created.ID] = created
	vu.mu.Unlock()
	return created, nil
}

// CreateShareLink creates a share link exposing journals and violations.
func (vu *VirtualUser) CreateShareLink(ctx context.Context, name string) (*models.ShareToken, error) {
	token, err := vu.Client.CreateShareToken(ctx, client.CreateShareRequest{
		Name:              name,
		ExpiresDays:       30,
		IncludeJournals:   true,
		IncludeViolations: true,
		PermissionLevel:   models.PermissionReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("virtual user %d create share link: %w", vu.Index, err)
	}

	vu.mu.Lock()
	vu.Shares[token.ID] = token
	vu.mu.Unlock()
	return token, nil
}

// RevokeShareLink revokes a tracked share link and records the revocation.
func (vu *VirtualUser) RevokeShareLink(ctx context.Context, id models.ShareTokenID) error {
	if err := vu.Client.RevokeShareToken(ctx, id); err != nil {
		return fmt.Errorf("virtual user %d revoke share link: %w", vu.Index, err)
	}

	vu.mu.Lock()
	if token, ok := vu.Shares[id]; ok {
		vu.RevokedShares = append(vu.RevokedShares, token)
		delete(vu.Shares, id)
	}
	vu.mu.Unlock()
	return nil
}

// DeleteRandomJournal deletes one tracked journal entry, if any exist, and
// records the deletion so VerifyAllData can confirm it stays gone.
func (vu *VirtualUser) DeleteRandomJournal(ctx context.Context) error {
	vu.mu.RLock()
	ids := make([]models.JournalID, 0, len(vu.Journals))
	for id := range vu.Journals {
		ids = append(ids, id)
	}
	vu.mu.RUnlock()

	if len(ids) == 0 {
		return nil
	}

	// Map iteration order is random, so pick deterministically by string sort.
	target := ids[0]
	for _, id := range ids[1:] {
		if id.String() < target.String() {
			target = id
		}
	}

	if err := vu.Client.DeleteJournal(ctx, target); err != nil {
		return fmt.Errorf("virtual user %d delete journal: %w", vu.Index, err)
	}

	vu.mu.Lock()
	delete(vu.Journals, target)
	vu.DeletedJournals = append(vu.DeletedJournals, target)
	vu.mu.Unlock()
	return nil
}

// RunScenario registers the user and drives days steps of mixed activity:
// a journal entry every day, with violations, evidence uploads, and calendar
// events mixed in, plus a share link and one deletion near the end.
func (vu *VirtualUser) RunScenario(ctx context.Context, days int) error {
	if err := vu.Register(ctx); err != nil {
		return err
	}

	if _, err := vu.AddChild(ctx, fmt.Sprintf("Child of %d", vu.Index)); err != nil {
		return err
	}
	if _, err := vu.AddContact(ctx, fmt.Sprintf("Attorney %d", vu.Index)); err != nil {
		return err
	}

	for day := 0; day < days; day++ {
		if _, err := vu.RecordJournal(ctx, day); err != nil {
			return err
		}
		if vu.RNG.Intn(3) == 0 {
			if _, err := vu.ReportViolation(ctx, day); err != nil {
				return err
			}
		}
		if vu.RNG.Intn(4) == 0 {
			if _, err := vu.UploadEvidence(ctx, day); err != nil {
				return err
			}
		}
		if vu.RNG.Intn(2) == 0 {
			if _, err := vu.ScheduleEvent(ctx, day); err != nil {
				return err
			}
		}
	}

	if _, err := vu.CreateShareLink(ctx, fmt.Sprintf("Counsel link %d", vu.Index)); err != nil {
		return err
	}
	revoked, err := vu.CreateShareLink(ctx, fmt.Sprintf("Stale link %d", vu.Index))
	if err != nil {
		return err
	}
	if err := vu.RevokeShareLink(ctx, revoked.ID); err != nil {
		return err
	}
	if err := vu.DeleteRandomJournal(ctx); err != nil {
		return err
	}

	return vu.VerifyAllData(ctx)
}

// VerifyAllData re-reads everything through the API and checks it against
// the tracked state: every surviving record is present and owned by this
// user, deleted journals stay gone, uploaded documents download byte for
// byte, live share links resolve anonymously, and revoked ones do not.
func (vu *VirtualUser) VerifyAllData(ctx context.Context) error {
	vu.mu.RLock()
	defer vu.mu.RUnlock()

	if vu.user == nil {
		return fmt.Errorf("virtual user %d: not registered", vu.Index)
	}

	listed := make(map[models.JournalID]*models.Journal)
	for page := 1; ; page++ {
		batch, err := vu.Client.ListJournals(ctx, page, 100)
		if err != nil {
			return fmt.Errorf("virtual user %d list journals: %w", vu.Index, err)
		}
		for _, j := range batch {
			listed[j.ID] = j
		}
		if len(batch) < 100 {
			break
		}
	}
	for id, want := range vu.Journals {
		got, ok := listed[id]
		if !ok {
			return fmt.Errorf("virtual user %d: journal %s missing from listing", vu.Index, id)
		}
		if got.OwnerID != vu.user.ID {
			return fmt.Errorf("virtual user %d: journal %s owned by %s", vu.Index, id, got.OwnerID)
		}
		if got.Title != want.Title || got.Date != want.Date {
			return fmt.Errorf("virtual user %d: journal %s content mismatch", vu.Index, id)
		}
	}
	for _, id := range vu.DeletedJournals {
		if _, ok := listed[id]; ok {
			return fmt.Errorf("virtual user %d: deleted journal %s still listed", vu.Index, id)
		}
		if _, err := vu.Client.GetJournal(ctx, id); !isNotFound(err) {
			return fmt.Errorf("virtual user %d: deleted journal %s still readable", vu.Index, id)
		}
	}

	violations, err := vu.Client.ListViolations(ctx, "", 1, 100)
	if err != nil {
		return fmt.Errorf("virtual user %d list violations: %w", vu.Index, err)
	}
	byID := make(map[models.ViolationID]bool, len(violations))
	for _, v := range violations {
		byID[v.ID] = true
	}
	for id := range vu.Violations {
		if !byID[id] {
			return fmt.Errorf("virtual user %d: violation %s missing from listing", vu.Index, id)
		}
	}

	for id, want := range vu.Documents {
		data, _, err := vu.Client.DownloadDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("virtual user %d download document %s: %w", vu.Index, id, err)
		}
		if !bytes.Equal(data, want) {
			return fmt.Errorf("virtual user %d: document %s payload mismatch", vu.Index, id)
		}
	}

	events, err := vu.Client.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("virtual user %d list events: %w", vu.Index, err)
	}
	if len(events) < len(vu.Events) {
		return fmt.Errorf("virtual user %d: %d events listed, created %d", vu.Index, len(events), len(vu.Events))
	}

	anon := client.NewClient(vu.Client.BaseURL())
	for _, share := range vu.Shares {
		view, err := anon.ResolveShare(ctx, share.Secret)
		if err != nil {
			return fmt.Errorf("virtual user %d resolve share %s: %w", vu.Index, share.ID, err)
		}
		if view.SharedBy != vu.FullName {
			return fmt.Errorf("virtual user %d: share %s attributed to %q", vu.Index, share.ID, view.SharedBy)
		}
		if len(view.Journals) != len(vu.Journals) {
			return fmt.Errorf("virtual user %d: share %s exposes %d journals, expected %d",
				vu.Index, share.ID, len(view.Journals), len(vu.Journals))
		}
	}
	for _, share := range vu.RevokedShares {
		if _, err := anon.ResolveShare(ctx, share.Secret); !isNotFound(err) {
			return fmt.Errorf("virtual user %d: revoked share %s still resolves", vu.Index, share.ID)
		}
	}

	return nil
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "status=404")
}
