package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
)

// Ensure AuthStore implements the interface.
var _ driven.AuthStore = (*AuthStore)(nil)

// authfile is the on-disk shape of the auth registry.
type authFile struct {
	Users []domain.User   `json:"users"`
	Keys  []domain.APIKey `json:"api_keys"`
}

// AuthStore persists users and API keys as a single JSON file.
// The file carries key secrets, so it is written with 0600.
type AuthStore struct {
	mu   sync.Mutex
	path string
}

// NewAuthStore creates an auth store writing to auth.json under dir.
func NewAuthStore(dir string) (*AuthStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating auth directory: %w", err)
	}
	return &AuthStore{path: filepath.Join(dir, "auth.json")}, nil
}

// Load reads users and API keys. A missing file yields empty slices.
func (s *AuthStore) Load(_ context.Context) ([]domain.User, []domain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading auth file: %w", err)
	}

	var f authFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing auth file: %w", err)
	}
	return f.Users, f.Keys, nil
}

// Save writes the full set of users and API keys.
func (s *AuthStore) Save(_ context.Context, users []domain.User, keys []domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(authFile{Users: users, Keys: keys}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding auth file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing auth file: %w", err)
	}
	return nil
}
