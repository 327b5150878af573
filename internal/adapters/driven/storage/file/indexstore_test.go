package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

func TestIndexStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewIndexStore(t.TempDir())
	require.NoError(t, err)

	entries := map[string]domain.IndexEntry{
		"123": {
			ID:             123,
			Title:          "Business Registration",
			SearchableText: "business registration register a new business",
			LastUpdated:    time.Now().UTC(),
			Data:           domain.Payload{"title": "Business Registration"},
		},
	}
	require.NoError(t, store.Save(ctx, domain.KindProcedure, entries))

	loaded, err := store.Load(ctx, domain.KindProcedure)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Business Registration", loaded["123"].Title)
	assert.Equal(t, "Business Registration", loaded["123"].Data["title"])
}

func TestIndexStore_MissingShardIsEmpty(t *testing.T) {
	store, err := NewIndexStore(t.TempDir())
	require.NoError(t, err)

	loaded, err := store.Load(context.Background(), domain.KindStep)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.NotNil(t, loaded)
}

func TestIndexStore_ShardFileNames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewIndexStore(dir)
	require.NoError(t, err)

	for _, kind := range domain.Kinds {
		require.NoError(t, store.Save(ctx, kind, map[string]domain.IndexEntry{}))
	}

	for _, name := range []string{"procedures.json", "steps.json", "requirements.json", "institutions.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestIndexStore_CorruptShard(t *testing.T) {
	dir := t.TempDir()
	store, err := NewIndexStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "procedures.json"), []byte("{not json"), 0600))

	_, err = store.Load(context.Background(), domain.KindProcedure)
	assert.Error(t, err)
}

func TestIndexStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "index")
	_, err := NewIndexStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
