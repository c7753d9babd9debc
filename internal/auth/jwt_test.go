package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newJWTManagerForTest(t *testing.T) JWTManagerInterface {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewJWTManager()
}

func TestAccessTokenRoundTripCarriesRole(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateAccessJWT("user-1", "admin", time.Minute)
	assert.NoError(t, err)

	userID, role, err := manager.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateAccessJWT("user-1", "user", -time.Minute)
	assert.NoError(t, err)

	_, _, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestRefreshTokenBoundToHashToken(t *testing.T) {
	manager := newJWTManagerForTest(t)

	token, err := manager.GenerateRefreshJWT("user-1", "hash-v1", time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, manager.ValidateRefreshToken(token, "hash-v1"))

	// rotated hash token revokes the old refresh token
	assert.ErrorIs(t, manager.ValidateRefreshToken(token, "hash-v2"), ErrInvalidJWTToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	manager := newJWTManagerForTest(t)

	_, _, err := manager.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}
