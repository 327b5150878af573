package driven

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// AuthStore persists users and API keys. Session tokens are deliberately
// excluded: they live in memory only.
type AuthStore interface {
	// Load reads all users and API keys. A missing file yields empty
	// slices, not an error.
	Load(ctx context.Context) ([]domain.User, []domain.APIKey, error)

	// Save writes the full set of users and API keys.
	Save(ctx context.Context, users []domain.User, keys []domain.APIKey) error
}
