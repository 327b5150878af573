package driven

import (
	"context"
	"time"
)

// ResponseCache stores upstream API responses keyed by endpoint.
// Backed by SQLite; entries expire after their TTL.
type ResponseCache interface {
	// Get returns the cached body for an endpoint, or ok=false when the
	// entry is absent or expired.
	Get(ctx context.Context, endpoint string) (body []byte, ok bool, err error)

	// Set stores a response body with the given time to live.
	Set(ctx context.Context, endpoint string, body []byte, ttl time.Duration) error

	// Purge removes expired entries.
	Purge(ctx context.Context) error
}
