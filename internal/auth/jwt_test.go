package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("42", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := GetUserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("42", []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("42", secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, secret)
	assert.Error(t, err)
}
