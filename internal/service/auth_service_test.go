package service

import (
	"lawhealth/internal/apperr"
	"lawhealth/internal/model"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	svc := NewAuthService("secret")

	token, err := svc.GenerateToken("user-1", "Acme", model.SizeTierSmall, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Acme", claims.CompanyName)
	assert.Equal(t, model.SizeTierSmall, claims.SizeTier)
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := NewAuthService("secret")

	other, err := NewAuthService("other").GenerateToken("user-1", "", "", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	expired, err := svc.GenerateToken("user-1", "", "", -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.UserClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
