package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/timetable/backend/internal/auth"
	"github.com/pkordes/timetable/backend/internal/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:    42,
		Email: "admin@example.com",
		Role:  domain.RoleAdmin,
	}
}

func TestTokenIssuer_SignAndVerify(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Sign(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID, "jti should be set")
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Sign(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenIssuer("secret-a", time.Hour).Sign(testUser())
	require.NoError(t, err)

	_, err = auth.NewTokenIssuer("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	_, err := auth.NewTokenIssuer("test-secret", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
