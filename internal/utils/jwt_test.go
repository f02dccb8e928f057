// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "wallet-1", "alice", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "wallet-1", claims.WalletAddress)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "solaforge", claims.Issuer)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(uuid.New(), "wallet-1", "alice", 1)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(uuid.New(), "wallet-1", "alice", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, 24)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}

func TestRefreshTokenWrongSecret(t *testing.T) {
	SetJWTSecret("secret-a")
	token, err := GenerateRefreshToken(uuid.New(), 24)
	require.NoError(t, err)

	SetJWTSecret("secret-b")
	_, err = ValidateRefreshToken(token)
	assert.Error(t, err)

	SetJWTSecret("test-secret")
}
