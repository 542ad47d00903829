package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRefreshTokenRoundTrip(t *testing.T) {
	tok, err := NewRefreshToken("secret", 42, 7)
	require.NoError(t, err)

	userID, err := ParseRefreshToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestRefreshTokenWrongSecret(t *testing.T) {
	tok, err := NewRefreshToken("secret", 42, 7)
	require.NoError(t, err)

	_, err = ParseRefreshToken("other", tok.Token)
	assert.Error(t, err)
}

func TestRefreshTokenExpired(t *testing.T) {
	tok, err := NewRefreshToken("secret", 42, -1)
	require.NoError(t, err)

	_, err = ParseRefreshToken("secret", tok.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRefreshTokenMalformed(t *testing.T) {
	_, err := ParseRefreshToken("secret", "garbage")
	assert.Error(t, err)
}

// Tokens minted back to back must differ so rotation always changes
// the stored digest.
func TestRefreshTokensUnique(t *testing.T) {
	a, err := NewRefreshToken("secret", 42, 7)
	require.NoError(t, err)
	b, err := NewRefreshToken("secret", 42, 7)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestAccessTokenClaims(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "ada", "ada@example.com", 15)
	require.NoError(t, err)

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "ada", claims["username"])
	assert.Equal(t, "ada@example.com", claims["email"])
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("some-token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("some-token"))
	assert.NotEqual(t, h, HashRefreshRaw("other-token"))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}
