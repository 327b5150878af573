package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// memAuthStore is an in-memory driven.AuthStore for tests.
type memAuthStore struct {
	users []domain.User
	keys  []domain.APIKey
	saves int
	err   error
}

func (m *memAuthStore) Load(_ context.Context) ([]domain.User, []domain.APIKey, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.users, m.keys, nil
}

func (m *memAuthStore) Save(_ context.Context, users []domain.User, keys []domain.APIKey) error {
	if m.err != nil {
		return m.err
	}
	m.users = users
	m.keys = keys
	m.saves++
	return nil
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and persists", func(t *testing.T) {
		store := &memAuthStore{}
		svc := NewAuthService(store)

		require.NoError(t, svc.Register(ctx, "alice", "s3cret"))
		require.Len(t, store.users, 1)
		assert.Equal(t, "alice", store.users[0].Username)
		assert.NotContains(t, store.users[0].PasswordHash, "s3cret")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc := NewAuthService(nil)
		require.NoError(t, svc.Register(ctx, "alice", "one"))
		assert.ErrorIs(t, svc.Register(ctx, "alice", "two"), domain.ErrUserExists)
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc := NewAuthService(nil)
		assert.ErrorIs(t, svc.Register(ctx, "", "pw"), domain.ErrInvalidInput)
		assert.ErrorIs(t, svc.Register(ctx, "bob", ""), domain.ErrInvalidInput)
	})

	t.Run("store failure does not lose the user", func(t *testing.T) {
		store := &memAuthStore{err: errors.New("disk full")}
		svc := NewAuthService(store)

		require.NoError(t, svc.Register(ctx, "alice", "pw"))
		_, err := svc.Login(ctx, "alice", "pw")
		assert.NoError(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(nil)
	require.NoError(t, svc.Register(ctx, "alice", "s3cret"))

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token.ID)
		assert.Equal(t, "alice", token.Username)
		assert.True(t, token.ExpiresAt.After(time.Now()))

		username, err := svc.ValidateToken(ctx, token.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "mallory", "s3cret")
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(nil)

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})

	t.Run("expired token is dropped", func(t *testing.T) {
		svc.tokens["old"] = domain.Token{
			ID:        "old",
			Username:  "alice",
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		_, err := svc.ValidateToken(ctx, "old")
		assert.ErrorIs(t, err, domain.ErrTokenExpired)

		_, err = svc.ValidateToken(ctx, "old")
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})
}

func TestAuthService_APIKeys(t *testing.T) {
	ctx := context.Background()
	store := &memAuthStore{}
	svc := NewAuthService(store)
	require.NoError(t, svc.Register(ctx, "alice", "pw"))

	t.Run("create and validate", func(t *testing.T) {
		key, err := svc.CreateAPIKey(ctx, "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, key.ID)
		assert.Len(t, key.Secret, 64)

		username, err := svc.ValidateAPIKey(ctx, key.Secret)
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("unknown user cannot get a key", func(t *testing.T) {
		_, err := svc.CreateAPIKey(ctx, "mallory")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := svc.ValidateAPIKey(ctx, "")
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})

	t.Run("list redacts secrets", func(t *testing.T) {
		keys, err := svc.ListAPIKeys(ctx, "alice")
		require.NoError(t, err)
		require.NotEmpty(t, keys)
		for _, k := range keys {
			assert.Empty(t, k.Secret)
			assert.NotEmpty(t, k.ID)
		}
	})

	t.Run("revoke", func(t *testing.T) {
		key, err := svc.CreateAPIKey(ctx, "alice")
		require.NoError(t, err)

		require.NoError(t, svc.RevokeAPIKey(ctx, key.ID))
		_, err = svc.ValidateAPIKey(ctx, key.Secret)
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)

		assert.ErrorIs(t, svc.RevokeAPIKey(ctx, key.ID), domain.ErrNotFound)
	})
}

func TestAuthService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("restores users and keys", func(t *testing.T) {
		seed := NewAuthService(nil)
		require.NoError(t, seed.Register(ctx, "alice", "pw"))

		var user domain.User
		for _, u := range seed.users {
			user = u
		}
		store := &memAuthStore{
			users: []domain.User{user},
			keys:  []domain.APIKey{{ID: "k1", Secret: "deadbeef", Username: "alice"}},
		}

		svc := NewAuthService(store)
		require.NoError(t, svc.Load(ctx))

		_, err := svc.Login(ctx, "alice", "pw")
		assert.NoError(t, err)

		username, err := svc.ValidateAPIKey(ctx, "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("load failure surfaces", func(t *testing.T) {
		svc := NewAuthService(&memAuthStore{err: errors.New("corrupt")})
		assert.Error(t, svc.Load(ctx))
	})

	t.Run("nil store is fine", func(t *testing.T) {
		assert.NoError(t, NewAuthService(nil).Load(ctx))
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := hashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, verifyPassword(hash, "hunter2"))
	assert.False(t, verifyPassword(hash, "hunter3"))
	assert.False(t, verifyPassword("malformed", "hunter2"))
}
