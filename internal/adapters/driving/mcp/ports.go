package mcp

import (
	"github.com/custodia-labs/eregs/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index answers point lookups and substring search.
	Index driving.IndexService

	// Subscription manages resource-update subscriptions.
	Subscription driving.SubscriptionService

	// Regulations orchestrates upstream fetches. Optional: without it
	// tools answer from the index only.
	Regulations driving.RegulationsService

	// Query routes and answers free-text questions. Optional.
	Query driving.QueryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Subscription == nil {
		return ErrMissingSubscriptionService
	}
	return nil
}
