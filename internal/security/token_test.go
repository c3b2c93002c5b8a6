package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-coordination-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, err := tm.GenerateSessionToken("uid-1", "u1@test.com", domain.RoleAdmin)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "u1@test.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	session := claims.Session()
	assert.True(t, session.IsAdmin())
	assert.Equal(t, "uid-1", session.UID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	_, err := tm.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", 60)

	token, err := other.GenerateSessionToken("uid-1", "u1@test.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, -1)

	token, err := tm.GenerateSessionToken("uid-1", "u1@test.com", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestMissingRoleDefaultsToUser(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, err := tm.GenerateSessionToken("uid-1", "u1@test.com", "")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.False(t, claims.Session().IsAdmin())
}
