package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
	"github.com/custodia-labs/eregs/internal/core/ports/driving"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// tokenLifetime is how long a session token stays valid.
const tokenLifetime = 24 * time.Hour

// AuthService manages users, API keys and session tokens. Users and keys
// persist through the auth store; tokens live in memory only and are lost
// on restart.
type AuthService struct {
	store driven.AuthStore

	mu     sync.Mutex
	users  map[string]domain.User
	keys   map[string]domain.APIKey // keyed by secret
	tokens map[string]domain.Token  // keyed by token id
}

// NewAuthService creates an auth service backed by the given store.
func NewAuthService(store driven.AuthStore) *AuthService {
	return &AuthService{
		store:  store,
		users:  make(map[string]domain.User),
		keys:   make(map[string]domain.APIKey),
		tokens: make(map[string]domain.Token),
	}
}

// Load reads users and API keys from the store.
func (s *AuthService) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	users, keys, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading auth data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.Username] = u
	}
	for _, k := range keys {
		s.keys[k.Secret] = k
	}
	return nil
}

// Register creates a user with a salted password hash.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return domain.ErrUserExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.users[username] = domain.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.save(ctx)
	logger.Info("registered user %s", username)
	return nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok || !verifyPassword(user.PasswordHash, password) {
		return domain.Token{}, domain.ErrAuthInvalid
	}

	token := domain.Token{
		ID:        uuid.NewString(),
		Username:  username,
		ExpiresAt: time.Now().Add(tokenLifetime),
	}
	s.tokens[token.ID] = token
	return token, nil
}

// ValidateToken resolves a token id to its username. Expired tokens are
// removed on sight.
func (s *AuthService) ValidateToken(_ context.Context, tokenID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[tokenID]
	if !ok {
		return "", domain.ErrAuthInvalid
	}
	if token.Expired(time.Now()) {
		delete(s.tokens, tokenID)
		return "", domain.ErrTokenExpired
	}
	return token.Username, nil
}

// CreateAPIKey issues a new API key for a user.
func (s *AuthService) CreateAPIKey(ctx context.Context, username string) (domain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; !ok {
		return domain.APIKey{}, domain.ErrNotFound
	}

	secret, err := randomHex(32)
	if err != nil {
		return domain.APIKey{}, fmt.Errorf("generating key: %w", err)
	}

	key := domain.APIKey{
		ID:        uuid.NewString(),
		Secret:    secret,
		Username:  username,
		CreatedAt: time.Now(),
	}
	s.keys[key.Secret] = key
	s.save(ctx)
	return key, nil
}

// ValidateAPIKey resolves an API key secret to its username.
func (s *AuthService) ValidateAPIKey(_ context.Context, secret string) (string, error) {
	if secret == "" {
		return "", domain.ErrAuthRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keys[secret]
	if !ok {
		return "", domain.ErrAuthInvalid
	}
	return key.Username, nil
}

// RevokeAPIKey deletes an API key by id.
func (s *AuthService) RevokeAPIKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for secret, key := range s.keys {
		if key.ID == id {
			delete(s.keys, secret)
			s.save(ctx)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListAPIKeys returns the user's keys with secrets redacted.
func (s *AuthService) ListAPIKeys(_ context.Context, username string) ([]domain.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.APIKey
	for _, key := range s.keys {
		if key.Username != username {
			continue
		}
		key.Secret = ""
		out = append(out, key)
	}
	return out, nil
}

// save persists users and keys. Failures are logged and swallowed; the
// in-memory state stays authoritative. Callers hold s.mu.
func (s *AuthService) save(ctx context.Context) {
	if s.store == nil {
		return
	}

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	keys := make([]domain.APIKey, 0, len(s.keys))
	for _, k := range s.keys {
		keys = append(keys, k)
	}

	if err := s.store.Save(ctx, users, keys); err != nil {
		logger.Warn("saving auth data: %v", err)
	}
}

// hashPassword returns "salt:hex(sha256(password+salt))".
func hashPassword(password string) (string, error) {
	salt, err := randomHex(16)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(password + salt))
	return salt + ":" + hex.EncodeToString(sum[:]), nil
}

// verifyPassword checks a password against a stored salt:hash pair.
func verifyPassword(stored, password string) bool {
	salt, want, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	sum := sha256.Sum256([]byte(password + salt))
	got := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
