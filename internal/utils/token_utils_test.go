package utils_test

import (
	"testing"
	"time"

	"github.com/planloop/trip_planner_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	secret := "test-secret-key-that-is-long-enough"

	token, err := utils.GenerateJWT("user-1", secret, time.Hour, "trip-planner-test")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "trip-planner-test", claims.Issuer)
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "secret-one", time.Hour, "trip-planner-test")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "secret-two")
	assert.Error(t, err)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "secret", -time.Minute, "trip-planner-test")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, utils.CheckPasswordHash("hunter2", hash))
	assert.False(t, utils.CheckPasswordHash("hunter3", hash))
}

func TestRefreshTokenHashing(t *testing.T) {
	raw, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	hash := utils.HashRefreshToken(raw)
	assert.True(t, utils.CompareRefreshTokenHash(raw, hash))
	assert.False(t, utils.CompareRefreshTokenHash(raw+"x", hash))
}
