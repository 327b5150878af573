package domain

import (
	"os"
	"strconv"
	"time"
)

// Default configuration values.
const (
	DefaultAPIURL     = "https://api-tanzania.tradeportal.org"
	DefaultAPIVersion = "v1"
	DefaultServerName = "eregulations"
	DefaultServerPort = 8000
	DefaultCacheTTL   = time.Hour
)

// Settings holds runtime configuration for the server and the upstream
// API client. Values come from the config file with environment variables
// taking precedence.
type Settings struct {
	// APIURL is the base URL of the eRegulations API.
	APIURL string `toml:"api_url"`

	// APIVersion is the upstream API version identifier.
	APIVersion string `toml:"api_version"`

	// APIKey is the optional bearer key sent to the upstream API.
	APIKey string `toml:"api_key"`

	// ServerName is the MCP server implementation name.
	ServerName string `toml:"server_name"`

	// ServerPort is the HTTP port for MCP over HTTP (0 = stdio).
	ServerPort int `toml:"server_port"`

	// CacheEnabled toggles the upstream response cache.
	CacheEnabled bool `toml:"cache_enabled"`

	// CacheTTL is how long cached upstream responses stay fresh.
	CacheTTL time.Duration `toml:"cache_ttl"`

	// IndexDir is where index shards are persisted.
	// Empty means <data dir>/index.
	IndexDir string `toml:"index_dir"`

	// DataDir is the root data directory. Empty means ~/.eregs/data.
	DataDir string `toml:"data_dir"`
}

// DefaultSettings returns settings with every field at its default.
func DefaultSettings() Settings {
	return Settings{
		APIURL:       DefaultAPIURL,
		APIVersion:   DefaultAPIVersion,
		ServerName:   DefaultServerName,
		ServerPort:   0,
		CacheEnabled: true,
		CacheTTL:     DefaultCacheTTL,
	}
}

// ApplyEnv overlays environment variables onto the settings.
// Unset variables leave the current value untouched.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv("EREGULATIONS_API_URL"); v != "" {
		s.APIURL = v
	}
	if v := os.Getenv("EREGULATIONS_API_VERSION"); v != "" {
		s.APIVersion = v
	}
	if v := os.Getenv("EREGULATIONS_API_KEY"); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv("MCP_SERVER_NAME"); v != "" {
		s.ServerName = v
	}
	if v := os.Getenv("MCP_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.ServerPort = port
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			s.CacheEnabled = enabled
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			s.CacheTTL = time.Duration(secs) * time.Second
		}
	}
}
