package driving

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// AuthService manages users, API keys and session tokens.
type AuthService interface {
	// Register creates a user. Returns domain.ErrUserExists on duplicates.
	Register(ctx context.Context, username, password string) error

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, username, password string) (domain.Token, error)

	// ValidateToken resolves a token id to its username.
	ValidateToken(ctx context.Context, tokenID string) (string, error)

	// CreateAPIKey issues a new API key for a user.
	CreateAPIKey(ctx context.Context, username string) (domain.APIKey, error)

	// ValidateAPIKey resolves an API key secret to its username.
	ValidateAPIKey(ctx context.Context, secret string) (string, error)

	// RevokeAPIKey deletes an API key by id.
	RevokeAPIKey(ctx context.Context, id string) error

	// ListAPIKeys returns the user's keys with secrets redacted.
	ListAPIKeys(ctx context.Context, username string) ([]domain.APIKey, error)
}
