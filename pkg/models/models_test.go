package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPermissionLevelAllows(t *testing.T) {
	require.True(t, PermissionReadOnly.Allows(PermissionReadOnly))
	require.False(t, PermissionReadOnly.Allows(PermissionReadPrint))
	require.False(t, PermissionReadOnly.Allows(PermissionReadPrintDownload))

	require.True(t, PermissionReadPrint.Allows(PermissionReadOnly))
	require.True(t, PermissionReadPrint.Allows(PermissionReadPrint))
	require.False(t, PermissionReadPrint.Allows(PermissionReadPrintDownload))

	require.True(t, PermissionReadPrintDownload.Allows(PermissionReadOnly))
	require.True(t, PermissionReadPrintDownload.Allows(PermissionReadPrint))
	require.True(t, PermissionReadPrintDownload.Allows(PermissionReadPrintDownload))
}

func TestPermissionLevelValid(t *testing.T) {
	require.True(t, PermissionReadOnly.Valid())
	require.True(t, PermissionReadPrint.Valid())
	require.True(t, PermissionReadPrintDownload.Valid())
	require.False(t, PermissionLevel("").Valid())
	require.False(t, PermissionLevel("admin").Valid())
}

func TestJournalApplyDefaults(t *testing.T) {
	j := &Journal{}
	j.ApplyDefaults()
	require.Equal(t, "neutral", j.Mood)
	require.NotNil(t, j.ChildrenInvolved)

	// Existing values are left alone.
	j = &Journal{Mood: "hopeful", ChildrenInvolved: JSONList{"Emma"}}
	j.ApplyDefaults()
	require.Equal(t, "hopeful", j.Mood)
	require.Equal(t, JSONList{"Emma"}, j.ChildrenInvolved)
}

func TestViolationApplyDefaults(t *testing.T) {
	v := &Violation{}
	v.ApplyDefaults()
	require.Equal(t, "medium", v.Severity)

	v = &Violation{Severity: "critical"}
	v.ApplyDefaults()
	require.Equal(t, "critical", v.Severity)
}

func TestShareTokenApplyDefaults(t *testing.T) {
	tok := &ShareToken{}
	tok.ApplyDefaults()
	require.Equal(t, PermissionReadOnly, tok.PermissionLevel)

	tok = &ShareToken{PermissionLevel: "superuser"}
	tok.ApplyDefaults()
	require.Equal(t, PermissionReadOnly, tok.PermissionLevel)

	tok = &ShareToken{PermissionLevel: PermissionReadPrintDownload}
	tok.ApplyDefaults()
	require.Equal(t, PermissionReadPrintDownload, tok.PermissionLevel)
}

func TestShareTokenUsable(t *testing.T) {
	expires := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	tok := &ShareToken{IsActive: true, ExpiresAt: expires}

	require.True(t, tok.Usable(expires.Add(-time.Hour)))
	// The expiry instant itself is still within the window.
	require.True(t, tok.Usable(expires))
	require.False(t, tok.Usable(expires.Add(time.Nanosecond)))
	require.False(t, tok.Expired(expires))
	require.True(t, tok.Expired(expires.Add(time.Nanosecond)))

	tok.IsActive = false
	require.False(t, tok.Usable(expires.Add(-time.Hour)))
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := &User{
		ID:           NewUserID(),
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
		FullName:     "Alice",
	}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(data), "secret")
	require.NotContains(t, string(data), "password")
}

func TestDocumentJSONHidesData(t *testing.T) {
	d := &Document{
		ID:       NewDocumentID(),
		Filename: "order.pdf",
		Data:     "aGlkZGVuLXBheWxvYWQ=",
	}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.NotContains(t, string(data), "aGlkZGVuLXBheWxvYWQ=")
	require.Contains(t, string(data), "order.pdf")
}

func TestPhoneListJSONShape(t *testing.T) {
	phones := PhoneList{{Number: "555-0100", Label: "work"}}
	data, err := json.Marshal(phones)
	require.NoError(t, err)
	require.JSONEq(t, `[{"phone":"555-0100","label":"work"}]`, string(data))
}
