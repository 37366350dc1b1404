package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test-storefront"},
		Session: config.SessionConfig{
			Secret: "0123456789abcdef0123456789abcdef",
			TTL:    time.Hour,
		},
	}
}

func TestIssueAndVerify(t *testing.T) {
	manager := NewManager(testConfig())

	token, err := manager.Issue("session-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionID, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-123", sessionID)
}

func TestVerify_TamperedToken(t *testing.T) {
	manager := NewManager(testConfig())

	token, err := manager.Issue("session-123")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = manager.Verify(tampered)
	require.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	manager := NewManager(testConfig())

	token, err := manager.Issue("session-123")
	require.NoError(t, err)

	other := testConfig()
	other.Session.Secret = strings.Repeat("x", 32)
	_, err = NewManager(other).Verify(token)
	require.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	manager := NewManager(testConfig())

	_, err := manager.Verify("not-a-token")
	require.Error(t, err)
}
