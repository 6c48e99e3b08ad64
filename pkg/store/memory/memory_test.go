package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/casekeeper/casekeeper/pkg/models"
	"github.com/casekeeper/casekeeper/pkg/store"
)

func seedUser(t *testing.T, s *MemoryStore, email string) models.UserID {
	t.Helper()
	user := &models.User{
		ID:           models.NewUserID(),
		Email:        email,
		PasswordHash: "x",
		FullName:     "Test User",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user.ID
}

func TestUserEmailUnique(t *testing.T) {
	s := NewMemoryStore()
	seedUser(t, s, "dup@example.com")

	err := s.CreateUser(context.Background(), &models.User{
		ID:    models.NewUserID(),
		Email: "dup@example.com",
	})
	require.Error(t, err)
}

func TestJournalOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	bob := seedUser(t, s, "bob@example.com")

	journal := &models.Journal{
		ID:      models.NewJournalID(),
		OwnerID: alice,
		Title:   "Pickup exchange",
		Date:    "2025-03-01",
	}
	require.NoError(t, s.CreateJournal(ctx, journal))

	// The owner sees it.
	got, err := s.GetJournal(ctx, alice, journal.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Pickup exchange", got.Title)

	// Another user gets the same answer as for a nonexistent record.
	got, err = s.GetJournal(ctx, bob, journal.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	require.ErrorIs(t, s.DeleteJournal(ctx, bob, journal.ID), store.ErrNotFound)
	require.ErrorIs(t, s.UpdateJournal(ctx, bob, journal), store.ErrNotFound)

	// Still there for the owner after the failed cross-user delete.
	got, err = s.GetJournal(ctx, alice, journal.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestListJournalsOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")

	dates := []string{"2025-01-10", "2025-03-05", "2025-02-20"}
	for i, date := range dates {
		require.NoError(t, s.CreateJournal(ctx, &models.Journal{
			ID:        models.NewJournalID(),
			OwnerID:   owner,
			Title:     date,
			Date:      date,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	all, err := s.ListJournals(ctx, owner, store.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "2025-03-05", all[0].Date)
	require.Equal(t, "2025-02-20", all[1].Date)
	require.Equal(t, "2025-01-10", all[2].Date)

	first, err := s.ListJournals(ctx, owner, store.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := s.ListJournals(ctx, owner, store.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, "2025-01-10", second[0].Date)

	empty, err := s.ListJournals(ctx, owner, store.Page{Number: 3, Size: 2})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestJournalDefaultsOnRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")

	journal := &models.Journal{
		ID:      models.NewJournalID(),
		OwnerID: owner,
		Title:   "no mood recorded",
		Date:    "2025-04-01",
	}
	require.NoError(t, s.CreateJournal(ctx, journal))

	got, err := s.GetJournal(ctx, owner, journal.ID)
	require.NoError(t, err)
	require.Equal(t, "neutral", got.Mood)
	require.NotNil(t, got.ChildrenInvolved)
}

func TestViolationSeverityFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")

	for _, severity := range []string{"low", "high", "high"} {
		require.NoError(t, s.CreateViolation(ctx, &models.Violation{
			ID:       models.NewViolationID(),
			OwnerID:  owner,
			Title:    "missed exchange",
			Date:     "2025-02-01",
			Severity: severity,
		}))
	}

	high, err := s.ListViolations(ctx, owner, store.ViolationFilter{Severity: "high"}, store.Page{})
	require.NoError(t, err)
	require.Len(t, high, 2)

	all, err := s.ListViolations(ctx, owner, store.ViolationFilter{}, store.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestListDocumentsStripsPayload(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")

	doc := &models.Document{
		ID:       models.NewDocumentID(),
		OwnerID:  owner,
		Filename: "order.pdf",
		FileType: "application/pdf",
		Data:     "cGF5bG9hZA==",
	}
	require.NoError(t, s.CreateDocument(ctx, doc))

	list, err := s.ListDocuments(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].Data)

	// Single get keeps the payload for download.
	got, err := s.GetDocument(ctx, owner, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "cGF5bG9hZA==", got.Data)
}

func TestShareTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")
	stranger := seedUser(t, s, "bob@example.com")

	token := &models.ShareToken{
		ID:        models.NewShareTokenID(),
		OwnerID:   owner,
		Name:      "for my attorney",
		Secret:    "deadbeef",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		IsActive:  true,
	}
	require.NoError(t, s.CreateShareToken(ctx, token))

	got, err := s.GetShareTokenBySecret(ctx, "deadbeef")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, token.ID, got.ID)

	// Unknown secret resolves to nothing.
	got, err = s.GetShareTokenBySecret(ctx, "unknown")
	require.NoError(t, err)
	require.Nil(t, got)

	// Only the owner can revoke.
	require.ErrorIs(t, s.RevokeShareToken(ctx, stranger, token.ID), store.ErrNotFound)

	require.NoError(t, s.RevokeShareToken(ctx, owner, token.ID))

	// Revoked tokens are invisible to secret lookup.
	got, err = s.GetShareTokenBySecret(ctx, "deadbeef")
	require.NoError(t, err)
	require.Nil(t, got)

	// Revoking again is a no-op, not an error.
	require.NoError(t, s.RevokeShareToken(ctx, owner, token.ID))

	// The owner's listing still includes it, flagged inactive.
	list, err := s.ListShareTokens(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].IsActive)
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")
	other := seedUser(t, s, "bob@example.com")

	require.NoError(t, s.CreateChild(ctx, &models.Child{ID: models.NewChildID(), OwnerID: owner, Name: "Emma"}))
	require.NoError(t, s.CreateJournal(ctx, &models.Journal{ID: models.NewJournalID(), OwnerID: owner, Title: "a", Date: "2025-01-01"}))
	require.NoError(t, s.CreateJournal(ctx, &models.Journal{ID: models.NewJournalID(), OwnerID: other, Title: "b", Date: "2025-01-02"}))

	counts, err := s.Counts(ctx, owner)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Children)
	require.EqualValues(t, 1, counts.Journals)
	require.EqualValues(t, 0, counts.Violations)
}

func TestUpcomingEvents(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := seedUser(t, s, "alice@example.com")

	for _, date := range []string{"2025-01-05", "2025-06-01", "2025-09-15"} {
		require.NoError(t, s.CreateEvent(ctx, &models.CalendarEvent{
			ID:        models.NewEventID(),
			OwnerID:   owner,
			Title:     "hearing",
			StartDate: date,
		}))
	}

	upcoming, err := s.ListUpcomingEvents(ctx, owner, "2025-05-01", 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	require.Equal(t, "2025-06-01", upcoming[0].StartDate)
	require.Equal(t, "2025-09-15", upcoming[1].StartDate)
}
