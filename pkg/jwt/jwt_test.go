package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 24*time.Hour, 72*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("3f1c9f6a-0000-0000-0000-000000000001", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f1c9f6a-0000-0000-0000-000000000001", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("3f1c9f6a-0000-0000-0000-000000000001")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)

	// But the refresh validator accepts it
	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("another-secret", 24*time.Hour, 72*time.Hour)

	token, err := m.GenerateAccessToken("id", "bob")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 72*time.Hour)

	token, err := m.GenerateAccessToken("id", "bob")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateToken("not-a-token")
	assert.Error(t, err)
}
