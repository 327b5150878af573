package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, DefaultAPIURL, s.APIURL)
	assert.Equal(t, "v1", s.APIVersion)
	assert.True(t, s.CacheEnabled)
	assert.Equal(t, time.Hour, s.CacheTTL)
}

func TestSettings_ApplyEnv(t *testing.T) {
	t.Run("overrides from environment", func(t *testing.T) {
		t.Setenv("EREGULATIONS_API_URL", "https://api.example.org")
		t.Setenv("EREGULATIONS_API_KEY", "secret")
		t.Setenv("MCP_SERVER_PORT", "9000")
		t.Setenv("CACHE_ENABLED", "false")
		t.Setenv("CACHE_TTL", "120")

		s := DefaultSettings()
		s.ApplyEnv()

		assert.Equal(t, "https://api.example.org", s.APIURL)
		assert.Equal(t, "secret", s.APIKey)
		assert.Equal(t, 9000, s.ServerPort)
		assert.False(t, s.CacheEnabled)
		assert.Equal(t, 2*time.Minute, s.CacheTTL)
	})

	t.Run("unset variables keep current values", func(t *testing.T) {
		s := DefaultSettings()
		s.APIKey = "configured"
		s.ApplyEnv()
		assert.Equal(t, "configured", s.APIKey)
	})

	t.Run("malformed numbers are ignored", func(t *testing.T) {
		t.Setenv("MCP_SERVER_PORT", "not-a-port")
		s := DefaultSettings()
		s.ApplyEnv()
		assert.Equal(t, 0, s.ServerPort)
	})
}
