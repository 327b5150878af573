package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
	"github.com/custodia-labs/eregs/internal/core/ports/driving"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService maintains four independent id -> entry maps with substring
// search over derived text. Mutations and the synchronous persist run under
// one mutex so a save never observes a half-written map; reads take the
// read lock only.
type IndexService struct {
	store driven.IndexStore

	mu           sync.RWMutex
	procedures   map[string]domain.IndexEntry
	steps        map[string]domain.IndexEntry
	requirements map[string]domain.IndexEntry
	institutions map[string]domain.IndexEntry
}

// NewIndexService creates an index service backed by the given store.
// The store is optional (can be nil); without it the index is memory-only.
func NewIndexService(store driven.IndexStore) *IndexService {
	return &IndexService{
		store:        store,
		procedures:   make(map[string]domain.IndexEntry),
		steps:        make(map[string]domain.IndexEntry),
		requirements: make(map[string]domain.IndexEntry),
		institutions: make(map[string]domain.IndexEntry),
	}
}

// shard returns the map holding entries of a kind. Callers hold s.mu.
func (s *IndexService) shard(kind domain.Kind) map[string]domain.IndexEntry {
	switch kind {
	case domain.KindProcedure:
		return s.procedures
	case domain.KindStep:
		return s.steps
	case domain.KindRequirement:
		return s.requirements
	case domain.KindInstitution:
		return s.institutions
	default:
		return nil
	}
}

// IndexProcedure indexes a procedure payload and every step found in its
// block hierarchy, then persists all shards. Re-indexing an id overwrites
// the prior entry in full.
func (s *IndexService) IndexProcedure(ctx context.Context, procedureID int, data domain.Payload) {
	title := domain.ExtractText(data, "title")
	description := domain.ExtractText(data, "description")
	additionalInfo := domain.ExtractText(data, "additionalInfo")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.procedures[strconv.Itoa(procedureID)] = domain.IndexEntry{
		ID:             procedureID,
		Title:          title,
		SearchableText: domain.SearchableText(title, description, additionalInfo),
		LastUpdated:    time.Now(),
		Data:           data,
	}

	for _, step := range domain.ProcedureSteps(data) {
		stepID, ok := domain.PayloadID(step, "id")
		if !ok {
			continue
		}
		s.putStep(procedureID, stepID, step)
	}

	s.persist(ctx)
}

// IndexStep indexes one step and persists all shards.
func (s *IndexService) IndexStep(ctx context.Context, procedureID, stepID int, data domain.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putStep(procedureID, stepID, data)
	s.persist(ctx)
}

// putStep writes a step entry. Callers hold s.mu.
func (s *IndexService) putStep(procedureID, stepID int, data domain.Payload) {
	title := domain.ExtractText(data, "title")
	description := domain.ExtractText(data, "description")

	s.steps[domain.StepKey(procedureID, stepID)] = domain.IndexEntry{
		ProcedureID:    procedureID,
		StepID:         stepID,
		Title:          title,
		SearchableText: domain.SearchableText(title, description),
		LastUpdated:    time.Now(),
		Data:           data,
	}
}

// IndexRequirements indexes a procedure's requirement set and persists.
func (s *IndexService) IndexRequirements(ctx context.Context, procedureID int, data domain.Payload) {
	title := domain.ExtractText(data, "title")
	description := domain.ExtractText(data, "description")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requirements[strconv.Itoa(procedureID)] = domain.IndexEntry{
		ProcedureID:    procedureID,
		Title:          title,
		SearchableText: domain.SearchableText(title, description),
		LastUpdated:    time.Now(),
		Data:           data,
	}
	s.persist(ctx)
}

// IndexInstitution indexes an institution payload and persists.
func (s *IndexService) IndexInstitution(ctx context.Context, institutionID int, data domain.Payload) {
	name := domain.ExtractText(data, "name")
	description := domain.ExtractText(data, "description")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.institutions[strconv.Itoa(institutionID)] = domain.IndexEntry{
		ID:             institutionID,
		Name:           name,
		SearchableText: domain.SearchableText(name, description),
		LastUpdated:    time.Now(),
		Data:           data,
	}
	s.persist(ctx)
}

// GetProcedure returns the original payload or domain.ErrNotFound.
func (s *IndexService) GetProcedure(_ context.Context, procedureID int) (domain.Payload, error) {
	return s.get(domain.KindProcedure, strconv.Itoa(procedureID))
}

// GetStep returns the original step payload or domain.ErrNotFound.
func (s *IndexService) GetStep(_ context.Context, procedureID, stepID int) (domain.Payload, error) {
	return s.get(domain.KindStep, domain.StepKey(procedureID, stepID))
}

// GetRequirements returns the requirement payload or domain.ErrNotFound.
func (s *IndexService) GetRequirements(_ context.Context, procedureID int) (domain.Payload, error) {
	return s.get(domain.KindRequirement, strconv.Itoa(procedureID))
}

// GetInstitution returns the institution payload or domain.ErrNotFound.
func (s *IndexService) GetInstitution(_ context.Context, institutionID int) (domain.Payload, error) {
	return s.get(domain.KindInstitution, strconv.Itoa(institutionID))
}

func (s *IndexService) get(kind domain.Kind, key string) (domain.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.shard(kind)[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return entry.Data, nil
}

// Search returns entries whose searchable text contains the lowercased
// query. Every match scores 1.0; ties are broken by a stable sort on the
// entry key so results are deterministic, not map-iteration order.
func (s *IndexService) Search(_ context.Context, kind domain.Kind, query string, limit int) []domain.SearchResult {
	if limit <= 0 {
		return []domain.SearchResult{}
	}

	query = strings.ToLower(query)

	s.mu.RLock()
	entries := s.shard(kind)
	results := make([]domain.SearchResult, 0, len(entries))
	for key, entry := range entries {
		if !strings.Contains(entry.SearchableText, query) {
			continue
		}
		id := entry.ID
		if kind == domain.KindStep {
			id = entry.StepID
		}
		if kind == domain.KindRequirement {
			id = entry.ProcedureID
		}
		results = append(results, domain.SearchResult{
			ID:    id,
			Key:   key,
			Title: entry.DisplayTitle(),
			Score: 1.0,
		})
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key < results[j].Key
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Load reads all four shards from the store. Missing shards are empty
// maps; read failures are logged and leave the shard empty.
func (s *IndexService) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, kind := range domain.Kinds {
		entries, err := s.store.Load(ctx, kind)
		if err != nil {
			logger.Warn("loading %s shard: %v", kind, err)
			continue
		}
		switch kind {
		case domain.KindProcedure:
			s.procedures = entries
		case domain.KindStep:
			s.steps = entries
		case domain.KindRequirement:
			s.requirements = entries
		case domain.KindInstitution:
			s.institutions = entries
		}
	}
	logger.Debug("index loaded: %d procedures, %d steps, %d requirements, %d institutions",
		len(s.procedures), len(s.steps), len(s.requirements), len(s.institutions))
	return nil
}

// Close performs a final flush of all shards.
func (s *IndexService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(ctx)
	return nil
}

// persist writes all four shards. Failures are logged and swallowed: the
// in-memory index stays authoritative for the rest of the process.
// Callers hold s.mu.
func (s *IndexService) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	for kind, entries := range map[domain.Kind]map[string]domain.IndexEntry{
		domain.KindProcedure:   s.procedures,
		domain.KindStep:        s.steps,
		domain.KindRequirement: s.requirements,
		domain.KindInstitution: s.institutions,
	} {
		if err := s.store.Save(ctx, kind, entries); err != nil {
			logger.Warn("saving %s shard: %v", kind, err)
		}
	}
}
