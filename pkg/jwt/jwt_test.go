package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "rider@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "rider@example.com", claims.Email)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.GenerateRefreshToken(uuid.New(), "rider@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	other := NewService("different-secret", "refresh-secret", time.Hour, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "rider@example.com")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsExpired(t *testing.T) {
	svc := NewService("access-secret", "refresh-secret", -time.Minute, time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "rider@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.True(t, svc.IsTokenExpired(token))
}

func TestIsTokenExpired_GarbageIsExpired(t *testing.T) {
	svc := newTestService()
	assert.True(t, svc.IsTokenExpired("not-a-token"))
}
