package domain

import (
	"fmt"
	"strings"
	"time"
)

// Payload is a raw eRegulations API object. The upstream schema varies
// between deployments, so payloads stay schemaless and fields are pulled
// out permissively.
type Payload map[string]any

// Kind identifies one of the four indexed entity families.
type Kind string

const (
	KindProcedure   Kind = "procedure"
	KindStep        Kind = "step"
	KindRequirement Kind = "requirement"
	KindInstitution Kind = "institution"
)

// Kinds lists every entity kind in shard order.
var Kinds = []Kind{KindProcedure, KindStep, KindRequirement, KindInstitution}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindProcedure, KindStep, KindRequirement, KindInstitution:
		return true
	}
	return false
}

// ShardFile returns the JSON file name holding this kind's index shard.
func (k Kind) ShardFile() string {
	return string(k) + "s.json"
}

// StepKey builds the composite index key for a step. Steps are only
// unique within their procedure.
func StepKey(procedureID, stepID int) string {
	return fmt.Sprintf("%d_%d", procedureID, stepID)
}

// IndexEntry is one indexed entity. Data keeps the original payload so
// lookups can serve it back verbatim; SearchableText is the lowercased
// haystack substring search runs against.
type IndexEntry struct {
	ID             int       `json:"id,omitempty"`
	ProcedureID    int       `json:"procedure_id,omitempty"`
	StepID         int       `json:"step_id,omitempty"`
	Title          string    `json:"title,omitempty"`
	Name           string    `json:"name,omitempty"`
	SearchableText string    `json:"searchable_text"`
	LastUpdated    time.Time `json:"last_updated"`
	Data           Payload   `json:"data"`
}

// DisplayTitle returns the best human-readable label for the entry.
func (e IndexEntry) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Name
}

// SearchResult is one search hit.
type SearchResult struct {
	ID    int     `json:"id"`
	Key   string  `json:"key"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// ExtractText reads a string field from a payload. Anything missing or
// non-string comes back as the empty string; upstream objects omit
// fields freely and that must never fail indexing.
func ExtractText(p Payload, key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

// SearchableText joins fields into one lowercased haystack.
func SearchableText(fields ...string) string {
	return strings.ToLower(strings.Join(fields, " "))
}

// ProcedureSteps walks a procedure's block hierarchy and returns every
// step payload it contains. Malformed blocks and steps are skipped.
func ProcedureSteps(p Payload) []Payload {
	blocks, ok := p["blocks"].([]any)
	if !ok {
		return nil
	}

	var steps []Payload
	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			continue
		}
		list, ok := block["steps"].([]any)
		if !ok {
			continue
		}
		for _, s := range list {
			step, ok := s.(map[string]any)
			if !ok {
				continue
			}
			steps = append(steps, Payload(step))
		}
	}
	return steps
}

// PayloadID reads an integer field from a payload. JSON decoding yields
// float64, so both are accepted.
func PayloadID(p Payload, key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}
