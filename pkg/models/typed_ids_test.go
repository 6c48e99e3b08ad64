package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJournalIDRoundTrip(t *testing.T) {
	id := NewJournalID()
	require.False(t, id.IsZero())

	parsed, err := ParseJournalID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded JournalID
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, id, decoded)
}

func TestParseIDRejectsGarbage(t *testing.T) {
	_, err := ParseUserID("not-a-uuid")
	require.Error(t, err)

	_, err = ParseShareTokenID("")
	require.Error(t, err)
}

func TestRecordIDTable(t *testing.T) {
	require.Equal(t, "users", NewUserID().RecordID().Table)
	require.Equal(t, "journals", NewJournalID().RecordID().Table)
	require.Equal(t, "share_tokens", NewShareTokenID().RecordID().Table)
}

func TestIDSQLValueScan(t *testing.T) {
	id := NewContactID()

	value, err := id.Value()
	require.NoError(t, err)

	var scanned ContactID
	require.NoError(t, scanned.Scan(value))
	require.Equal(t, id, scanned)
}
