package driven

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// IndexStore persists index shards, one per entity kind.
// Implementations do serialization only; no indexing logic.
type IndexStore interface {
	// Load reads the shard for a kind. A missing shard yields an empty
	// map, not an error.
	Load(ctx context.Context, kind domain.Kind) (map[string]domain.IndexEntry, error)

	// Save writes the full shard for a kind, replacing what was there.
	Save(ctx context.Context, kind domain.Kind, entries map[string]domain.IndexEntry) error
}
