package casekeeper_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/casekeeper/casekeeper/pkg/client"
	"github.com/casekeeper/casekeeper/pkg/models"
)

func TestShareLinkLifecycle(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice Smith")
	ctx := context.Background()

	_, err := c.CreateJournal(ctx, &models.Journal{Title: "Day 1", Date: "2025-04-30"})
	require.NoError(t, err)

	token, err := c.CreateShareToken(ctx, client.CreateShareRequest{
		Name:            "for my attorney",
		ExpiresDays:     7,
		IncludeJournals: true,
		PermissionLevel: models.PermissionReadPrint,
	})
	require.NoError(t, err)
	require.Len(t, token.Secret, 64)
	require.True(t, token.IsActive)
	require.Equal(t, env.clock.Now().Add(7*24*time.Hour), token.ExpiresAt)

	// Anyone holding the secret can resolve it, no auth.
	anon := env.client()
	view, err := anon.ResolveShare(ctx, token.Secret)
	require.NoError(t, err)
	require.Equal(t, "for my attorney", view.Name)
	require.Equal(t, "Alice Smith", view.SharedBy)
	require.Equal(t, models.PermissionReadPrint, view.PermissionLevel)
	require.Len(t, view.Journals, 1)
	require.Equal(t, "Day 1", view.Journals[0].Title)

	// Revoke, then the secret resolves like it never existed.
	require.NoError(t, c.RevokeShareToken(ctx, token.ID))

	_, err = anon.ResolveShare(ctx, token.Secret)
	require.ErrorContains(t, err, "status=404")
	require.ErrorContains(t, err, "share link not found")

	// Revoking again still succeeds.
	require.NoError(t, c.RevokeShareToken(ctx, token.ID))

	// The owner's listing keeps the revoked link, flagged inactive.
	list, err := c.ListShareTokens(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].IsActive)
}

func TestShareLinkExpiry(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	token, err := c.CreateShareToken(ctx, client.CreateShareRequest{
		Name:        "short lived",
		ExpiresDays: 1,
	})
	require.NoError(t, err)

	anon := env.client()
	_, err = anon.ResolveShare(ctx, token.Secret)
	require.NoError(t, err)

	// Usability is re-evaluated on every access: the same link goes from
	// 200 to 410 once the clock passes expiry.
	env.clock.Advance(24*time.Hour + time.Minute)
	_, err = anon.ResolveShare(ctx, token.Secret)
	require.ErrorContains(t, err, "status=410")
	require.ErrorContains(t, err, "share link expired")
}

func TestShareLinkUnknownSecret(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client().ResolveShare(context.Background(), "0000000000000000000000000000000000000000000000000000000000000000")
	require.ErrorContains(t, err, "status=404")
}

func TestShareLinkContentFiltering(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	_, err := c.CreateJournal(ctx, &models.Journal{Title: "journal", Date: "2025-04-30"})
	require.NoError(t, err)
	_, err = c.CreateViolation(ctx, &models.Violation{Title: "violation", Date: "2025-04-29"})
	require.NoError(t, err)
	_, err = c.UploadDocument(ctx, "order.pdf", "application/pdf", "", "", []byte("pdf bytes"))
	require.NoError(t, err)
	_, err = c.CreateEvent(ctx, &models.CalendarEvent{Title: "hearing", StartDate: "2025-06-01"})
	require.NoError(t, err)

	// Only violations and documents are shared.
	token, err := c.CreateShareToken(ctx, client.CreateShareRequest{
		Name:              "partial",
		IncludeViolations: true,
		IncludeDocuments:  true,
	})
	require.NoError(t, err)

	view, err := env.client().ResolveShare(ctx, token.Secret)
	require.NoError(t, err)
	require.Empty(t, view.Journals)
	require.Empty(t, view.Calendar)
	require.Len(t, view.Violations, 1)
	require.Len(t, view.Documents, 1)

	// Shared documents are metadata only.
	require.Equal(t, "order.pdf", view.Documents[0].Filename)
	require.Empty(t, view.Documents[0].Data)
}

func TestShareLinkDefaults(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	ctx := context.Background()

	// Out-of-range expiry and unknown permission degrade to defaults.
	token, err := c.CreateShareToken(ctx, client.CreateShareRequest{
		Name:            "defaults",
		ExpiresDays:     -5,
		PermissionLevel: "superuser",
	})
	require.NoError(t, err)
	require.Equal(t, env.clock.Now().Add(30*24*time.Hour), token.ExpiresAt)
	require.Equal(t, models.PermissionReadOnly, token.PermissionLevel)

	_, err = c.CreateShareToken(ctx, client.CreateShareRequest{})
	require.ErrorContains(t, err, "status=400")
}

func TestShareTokensAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.register(t, "alice@example.com", "s3cure-pass", "Alice")
	bob, _ := env.register(t, "bob@example.com", "s3cure-pass", "Bob")
	ctx := context.Background()

	token, err := alice.CreateShareToken(ctx, client.CreateShareRequest{Name: "mine"})
	require.NoError(t, err)

	// Bob cannot revoke Alice's link and cannot see it in his listing.
	err = bob.RevokeShareToken(ctx, token.ID)
	require.ErrorContains(t, err, "status=404")

	list, err := bob.ListShareTokens(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	// The failed revoke changed nothing.
	view, err := env.client().ResolveShare(ctx, token.Secret)
	require.NoError(t, err)
	require.Equal(t, "mine", view.Name)
}
