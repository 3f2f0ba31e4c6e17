package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	encoded, err := GenerateToken(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	token, err := ValidateToken(encoded)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.EqualValues(t, 42, claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestNewTrackNum(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := NewTrackNum()
		assert.GreaterOrEqual(t, n, int64(1_000_000_000))
		assert.Less(t, n, int64(10_000_000_000))
	}
}
