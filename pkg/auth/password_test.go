package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, CheckPassword("correct horse battery staple", hash))
	require.False(t, CheckPassword("wrong password", hash))
	require.False(t, CheckPassword("", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, CheckPassword("same password", first))
	require.True(t, CheckPassword("same password", second))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	require.False(t, CheckPassword("anything", "not a bcrypt hash"))
	require.False(t, CheckPassword("anything", ""))
}
