package services

import (
	"testing"
	"time"

	"taakra-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	access, err := tokens.GenerateAccessToken("user-1", models.RoleAdmin)
	require.NoError(t, err)

	claims, err := tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)

	refresh, err := tokens.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := tokens.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestTokenTypeMismatch(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	access, err := tokens.GenerateAccessToken("user-1", models.RoleUser)
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// A refresh token must not pass as an access token and vice versa.
	_, err = tokens.VerifyAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.VerifyRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokenManager("test-secret", -time.Minute, 7*24*time.Hour)

	access, err := tokens.GenerateAccessToken("user-1", models.RoleUser)
	require.NoError(t, err)

	_, err = tokens.VerifyAccessToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	other := NewTokenManager("other-secret", 15*time.Minute, 7*24*time.Hour)

	access, err := tokens.GenerateAccessToken("user-1", models.RoleUser)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	tokens := NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)

	_, err := tokens.VerifyAccessToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
