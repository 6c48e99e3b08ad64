package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/casekeeper/casekeeper/pkg/models"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)
	userID := models.NewUserID()

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
}

func TestValidateExpiredToken(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := issued

	svc := NewTokenService([]byte("test-secret"), 24*time.Hour).
		WithClock(func() time.Time { return current })

	token, err := svc.Issue(models.NewUserID())
	require.NoError(t, err)

	// One second before expiry the token is still good.
	current = issued.Add(24*time.Hour - time.Second)
	_, err = svc.Validate(token)
	require.NoError(t, err)

	// The expiry instant itself counts as expired.
	current = issued.Add(24 * time.Hour)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	current = issued.Add(48 * time.Hour)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTamperedToken(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	token, err := svc.Issue(models.NewUserID())
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Validate(tampered)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret-one"), time.Hour)
	verifier := NewTokenService([]byte("secret-two"), time.Hour)

	token, err := issuer.Issue(models.NewUserID())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateGarbage(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(input)
		require.ErrorIs(t, err, ErrTokenMalformed, "input %q", input)
	}
}

func TestDefaultTTL(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), 0)
	require.Equal(t, DefaultTokenTTL, svc.TTL())
}
