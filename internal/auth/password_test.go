package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timetable/backend/internal/auth"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, salt, err := auth.HashPassword("correct horse battery staple")

	require.NoError(t, err)
	assert.Len(t, salt, 32, "16 random bytes, hex-encoded")
	assert.Len(t, hash, 128, "64-byte key, hex-encoded")
	assert.True(t, auth.VerifyPassword("correct horse battery staple", salt, hash))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, salt, err := auth.HashPassword("secret")
	require.NoError(t, err)

	assert.False(t, auth.VerifyPassword("Secret", salt, hash))
	assert.False(t, auth.VerifyPassword("", salt, hash))
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	assert.False(t, auth.VerifyPassword("secret", "00", "not-hex"))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	hash1, salt1, err := auth.HashPassword("secret")
	require.NoError(t, err)
	hash2, salt2, err := auth.HashPassword("secret")
	require.NoError(t, err)

	// Fresh salt per call; equal passwords must not produce equal hashes.
	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}
