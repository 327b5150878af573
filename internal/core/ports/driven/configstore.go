package driven

import "github.com/custodia-labs/eregs/internal/core/domain"

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files).
type ConfigStore interface {
	// Settings returns the current settings snapshot.
	Settings() domain.Settings

	// SetSettings replaces the settings and persists them immediately.
	SetSettings(s domain.Settings) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
