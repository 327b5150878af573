package driving

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// IndexService maintains the four entity indexes and answers point lookups
// and substring search.
type IndexService interface {
	// IndexProcedure indexes a procedure payload and every step found in
	// its block hierarchy. Indexing never fails on missing fields.
	IndexProcedure(ctx context.Context, procedureID int, data domain.Payload)

	// IndexStep indexes one step under its (procedure, step) composite key.
	IndexStep(ctx context.Context, procedureID, stepID int, data domain.Payload)

	// IndexRequirements indexes the requirement set of a procedure.
	IndexRequirements(ctx context.Context, procedureID int, data domain.Payload)

	// IndexInstitution indexes an institution payload.
	IndexInstitution(ctx context.Context, institutionID int, data domain.Payload)

	// GetProcedure returns the original payload or domain.ErrNotFound.
	GetProcedure(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetStep returns the original step payload or domain.ErrNotFound.
	GetStep(ctx context.Context, procedureID, stepID int) (domain.Payload, error)

	// GetRequirements returns the requirement payload or domain.ErrNotFound.
	GetRequirements(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetInstitution returns the institution payload or domain.ErrNotFound.
	GetInstitution(ctx context.Context, institutionID int) (domain.Payload, error)

	// Search returns entries of the kind whose searchable text contains the
	// lowercased query, at most limit of them. A limit of zero yields an
	// empty result.
	Search(ctx context.Context, kind domain.Kind, query string, limit int) []domain.SearchResult

	// Load reads all shards from the persistent store. Missing shards are
	// treated as empty, not as errors.
	Load(ctx context.Context) error

	// Close flushes all shards to the persistent store.
	Close(ctx context.Context) error
}
