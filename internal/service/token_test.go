package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	userID := uuid.New()

	token, exp, err := m.IssueAccess(userID, "owner@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	parsed, role, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Equal(t, AuthenticatedRole, role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	other := NewTokenManager("another-secret-another-secret-xx", time.Hour)
	token, _, err := other.IssueAccess(uuid.New(), "x@example.com")
	require.NoError(t, err)

	_, _, err = NewTokenManager(testSecret, time.Hour).ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)
	token, _, err := m.IssueAccess(uuid.New(), "x@example.com")
	require.NoError(t, err)

	_, _, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsBadClaims(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": uuid.NewString()})
	signed, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = m.ParseAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err = badSub.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = m.ParseAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err = hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, _, err = m.ParseAccess(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
