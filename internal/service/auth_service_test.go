package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(expiry time.Duration) *AuthService {
	return NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry, BcryptCost: 4})
}

func TestAdminTokenRoundTrip(t *testing.T) {
	auth := newTestAuth(time.Hour)

	token, err := auth.GenerateAdminToken(7, 2, []string{"exams:read", "exams:write"})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "7", claims.Subject)
	assert.True(t, claims.HasPermission("exams:write"))
	assert.False(t, claims.HasPermission("questions:write"))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	auth := newTestAuth(-time.Minute)

	token, err := auth.GenerateAdminToken(1, 1, nil)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsOtherSecret(t *testing.T) {
	token, err := newTestAuth(time.Hour).GenerateAdminToken(1, 1, nil)
	require.NoError(t, err)

	other := NewAuthService(&config.Config{JWTSecret: "another", JWTExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, TokenType: TokenTypeAdmin})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestAuth(time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	auth := newTestAuth(time.Hour)

	hash, err := auth.HashPassword("segredo123")
	require.NoError(t, err)

	assert.NoError(t, auth.CheckPassword(hash, "segredo123"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
