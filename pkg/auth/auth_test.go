package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/seating-api-go/pkg/config"
)

func testManager() *Manager {
	return NewManager(config.AuthConfig{
		JWTSecret:       "jwt-secret",
		APIMasterSecret: "master-secret",
		TokenTTL:        time.Hour,
	})
}

func TestHMACKey_RoundTrip(t *testing.T) {
	m := testManager()
	key := m.GenerateHMACKey("planner-42")

	userID, err := m.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "planner-42", userID)
}

func TestHMACKey_Rejects(t *testing.T) {
	m := testManager()
	key := m.GenerateHMACKey("planner-42")
	other := NewManager(config.AuthConfig{APIMasterSecret: "another-secret"})

	_, err := other.VerifyHMACKey(key)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = m.VerifyHMACKey("no-separator")
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = m.VerifyHMACKey("a.b.c")
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = m.VerifyHMACKey("planner-43." + key[len("planner-42."):])
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestToken_RoundTrip(t *testing.T) {
	m := testManager()
	token, err := m.CreateToken("admin")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestToken_Expired(t *testing.T) {
	m := testManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.CreateToken("admin")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.Error(t, err)
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := testManager().CreateToken("admin")
	require.NoError(t, err)

	other := NewManager(config.AuthConfig{JWTSecret: "different"})
	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "****", KeyPreview("short"))
	assert.Equal(t, "pla...cdef", KeyPreview("planner.0123456789abcdef"))
}
