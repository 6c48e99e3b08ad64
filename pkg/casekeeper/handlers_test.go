package casekeeper_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casekeeper/casekeeper/pkg/models"
)

func TestJournalCRUD(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	created, err := c.CreateJournal(ctx, &models.Journal{
		Title:   "Day 1",
		Content: "Exchange went fine.",
		Date:    "2025-04-30",
		Mood:    "hopeful",
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	require.Equal(t, "hopeful", created.Mood)

	got, err := c.GetJournal(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Day 1", got.Title)

	got.Content = "Exchange went fine. Late by 20 minutes."
	updated, err := c.UpdateJournal(ctx, got)
	require.NoError(t, err)
	require.Equal(t, "Exchange went fine. Late by 20 minutes.", updated.Content)

	require.NoError(t, c.DeleteJournal(ctx, created.ID))

	_, err = c.GetJournal(ctx, created.ID)
	require.ErrorContains(t, err, "status=404")
}

func TestJournalValidation(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	_, err := c.CreateJournal(ctx, &models.Journal{Date: "2025-04-30"})
	require.ErrorContains(t, err, "status=400")

	_, err = c.CreateJournal(ctx, &models.Journal{Title: "x", Date: "not a date"})
	require.ErrorContains(t, err, "status=400")
}

func TestJournalDefaultMood(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")

	created, err := c.CreateJournal(context.Background(), &models.Journal{
		Title: "no mood", Date: "2025-04-30",
	})
	require.NoError(t, err)
	require.Equal(t, "neutral", created.Mood)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	bob, _ := env.register(t, "bob@example.com", "s3cure-pass", "Bob")
	ctx := context.Background()

	created, err := alice.CreateJournal(ctx, &models.Journal{
		Title: "private", Date: "2025-04-30",
	})
	require.NoError(t, err)

	// Bob cannot read, update, or delete Alice's entry, and the error is
	// exactly what he would get for a random ID.
	_, err = bob.GetJournal(ctx, created.ID)
	require.ErrorContains(t, err, "status=404")

	_, err = bob.UpdateJournal(ctx, created)
	require.ErrorContains(t, err, "status=404")

	err = bob.DeleteJournal(ctx, created.ID)
	require.ErrorContains(t, err, "status=404")

	_, err = bob.GetJournal(ctx, models.NewJournalID())
	require.ErrorContains(t, err, "status=404")

	// Alice's entry survived all of it.
	got, err := alice.GetJournal(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "private", got.Title)

	// Bob's listing does not leak it either.
	list, err := bob.ListJournals(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestJournalPagination(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		_, err := c.CreateJournal(ctx, &models.Journal{
			Title: fmt.Sprintf("entry %d", day),
			Date:  fmt.Sprintf("2025-04-%02d", day),
		})
		require.NoError(t, err)
	}

	first, err := c.ListJournals(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, "2025-04-05", first[0].Date)
	require.Equal(t, "2025-04-04", first[1].Date)

	third, err := c.ListJournals(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, third, 1)
	require.Equal(t, "2025-04-01", third[0].Date)
}

func TestViolations(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	_, err := c.CreateViolation(ctx, &models.Violation{
		Title: "missed pickup", Date: "2025-04-01", Severity: "high",
	})
	require.NoError(t, err)

	created, err := c.CreateViolation(ctx, &models.Violation{
		Title: "late return", Date: "2025-04-02",
	})
	require.NoError(t, err)
	require.Equal(t, "medium", created.Severity)

	high, err := c.ListViolations(ctx, "high", 0, 0)
	require.NoError(t, err)
	require.Len(t, high, 1)
	require.Equal(t, "missed pickup", high[0].Title)

	all, err := c.ListViolations(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, c.DeleteViolation(ctx, created.ID))
}

func TestDocumentUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	content := []byte("%PDF-1.4 fake court order")
	doc, err := c.UploadDocument(ctx, "order.pdf", "application/pdf", "court", "custody order", content)
	require.NoError(t, err)
	require.Equal(t, "order.pdf", doc.Filename)
	require.EqualValues(t, len(content), doc.FileSize)
	require.Empty(t, doc.Data)

	// Listing carries metadata only.
	list, err := c.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].Data)

	// Download returns the original bytes.
	data, contentType, err := c.DownloadDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, content, data)
	require.Equal(t, "application/pdf", contentType)

	require.NoError(t, c.DeleteDocument(ctx, doc.ID))
	_, _, err = c.DownloadDocument(ctx, doc.ID)
	require.ErrorContains(t, err, "status=404")
}

func TestDocumentTypeAllowList(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")

	_, err := c.UploadDocument(context.Background(), "script.sh", "application/x-sh", "", "", []byte("#!/bin/sh"))
	require.ErrorContains(t, err, "status=400")
	require.ErrorContains(t, err, "not allowed")
}

func TestCalendarEvents(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	_, err := c.CreateEvent(ctx, &models.CalendarEvent{
		Title: "custody hearing", StartDate: "2025-06-10", EventType: "court",
	})
	require.NoError(t, err)
	early, err := c.CreateEvent(ctx, &models.CalendarEvent{
		Title: "mediation", StartDate: "2025-05-20",
	})
	require.NoError(t, err)

	events, err := c.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "mediation", events[0].Title)
	require.Equal(t, "custody hearing", events[1].Title)

	early.Title = "mediation (rescheduled)"
	updated, err := c.UpdateEvent(ctx, early)
	require.NoError(t, err)
	require.Equal(t, "mediation (rescheduled)", updated.Title)

	require.NoError(t, c.DeleteEvent(ctx, early.ID))
}

func TestContacts(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	created, err := c.CreateContact(ctx, &models.Contact{
		Name:  "Dana Rivera",
		Email: "dana@lawfirm.example",
		Phones: models.PhoneList{
			{Number: "555-0100", Label: "office"},
			{Number: "555-0199", Label: "cell"},
		},
	})
	require.NoError(t, err)

	got, err := c.GetContact(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Phones, 2)
	require.Equal(t, "office", got.Phones[0].Label)

	got.Notes = "handles the custody case"
	updated, err := c.UpdateContact(ctx, got)
	require.NoError(t, err)
	require.Equal(t, "handles the custody case", updated.Notes)

	require.NoError(t, c.DeleteContact(ctx, created.ID))
	_, err = c.GetContact(ctx, created.ID)
	require.ErrorContains(t, err, "status=404")
}

func TestChildren(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	child, err := c.CreateChild(ctx, &models.Child{Name: "Emma", DateOfBirth: "2018-09-12"})
	require.NoError(t, err)

	children, err := c.ListChildren(ctx)
	require.NoError(t, err)
	require.Len(t, children, 1)

	require.NoError(t, c.DeleteChild(ctx, child.ID))
	children, err = c.ListChildren(ctx)
	require.NoError(t, err)
	require.Empty(t, children)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	c, user := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	_, err := c.CreateJournal(ctx, &models.Journal{Title: "j", Date: "2025-04-30"})
	require.NoError(t, err)
	_, err = c.CreateViolation(ctx, &models.Violation{Title: "v", Date: "2025-04-29"})
	require.NoError(t, err)
	// Clock starts 2025-05-01; one past and one future event.
	_, err = c.CreateEvent(ctx, &models.CalendarEvent{Title: "past", StartDate: "2025-04-01"})
	require.NoError(t, err)
	_, err = c.CreateEvent(ctx, &models.CalendarEvent{Title: "future", StartDate: "2025-06-01"})
	require.NoError(t, err)

	token, err := env.app.Tokens().Issue(user.ID)
	require.NoError(t, err)

	status, body := env.get(t, "/api/dashboard/stats", token)
	require.Equal(t, http.StatusOK, status)

	counts := body["counts"].(map[string]any)
	require.EqualValues(t, 1, counts["journals"])
	require.EqualValues(t, 1, counts["violations"])
	require.EqualValues(t, 2, counts["events"])

	upcoming := body["upcoming_events"].([]any)
	require.Len(t, upcoming, 1)
	require.Equal(t, "future", upcoming[0].(map[string]any)["title"])
}

func TestExportJournals(t *testing.T) {
	env := newTestEnv(t)
	c, user := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	for day := 1; day <= 3; day++ {
		_, err := c.CreateJournal(ctx, &models.Journal{
			Title: fmt.Sprintf("entry %d", day),
			Date:  fmt.Sprintf("2025-04-%02d", day),
		})
		require.NoError(t, err)
	}

	token, err := env.app.Tokens().Issue(user.ID)
	require.NoError(t, err)

	status, body := env.get(t, "/api/export/journals", token)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 3, body["count"])
	require.Len(t, body["journals"].([]any), 3)
}

func TestStateLaws(t *testing.T) {
	env := newTestEnv(t)

	// No authentication required.
	status, body := env.get(t, "/api/state-laws", "")
	require.Equal(t, http.StatusOK, status)
	states := body["states"].(map[string]any)
	require.Len(t, states, 51)

	status, body = env.get(t, "/api/state-laws/California", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "California", body["state"])

	status, _ = env.get(t, "/api/state-laws/Atlantis", "")
	require.Equal(t, http.StatusNotFound, status)
}
