// Package file provides JSON file-backed persistence for the search
// index and the auth registry.
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

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore persists index shards as one JSON file per entity kind
// inside a single directory.
type IndexStore struct {
	mu  sync.Mutex
	dir string
}

// NewIndexStore creates an index store rooted at dir, creating the
// directory if needed. If dir is empty, defaults to ./index_data.
func NewIndexStore(dir string) (*IndexStore, error) {
	if dir == "" {
		dir = "index_data"
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	return &IndexStore{dir: dir}, nil
}

// Dir returns the directory holding the shard files.
func (s *IndexStore) Dir() string {
	return s.dir
}

// Load reads a shard file. A missing file yields an empty map.
func (s *IndexStore) Load(_ context.Context, kind domain.Kind) (map[string]domain.IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.shardPath(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]domain.IndexEntry), nil
		}
		return nil, fmt.Errorf("reading %s shard: %w", kind, err)
	}

	var entries map[string]domain.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s shard: %w", kind, err)
	}
	if entries == nil {
		entries = make(map[string]domain.IndexEntry)
	}
	return entries, nil
}

// Save writes the full shard for a kind, replacing the previous file.
// The write goes through a temp file and rename so a crash mid-write
// never leaves a truncated shard behind.
func (s *IndexStore) Save(_ context.Context, kind domain.Kind, entries map[string]domain.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s shard: %w", kind, err)
	}

	path := s.shardPath(kind)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s shard: %w", kind, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s shard: %w", kind, err)
	}
	return nil
}

func (s *IndexStore) shardPath(kind domain.Kind) string {
	return filepath.Join(s.dir, kind.ShardFile())
}
