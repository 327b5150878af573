package driving

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
)

// SubscriptionService associates resource patterns with delivery targets
// and fans out updates.
type SubscriptionService interface {
	// Subscribe upserts the (pattern, client) subscription. Re-subscribing
	// replaces the prior entry and resets its timestamps. The only error
	// is domain.ErrInvalidPattern.
	Subscribe(ctx context.Context, pattern, clientID string, sink driven.NotificationSink) error

	// Unsubscribe removes the matching entry; absent entries are a no-op.
	Unsubscribe(ctx context.Context, pattern, clientID string)

	// UnsubscribeAll removes every subscription owned by the client.
	// Used on client disconnect.
	UnsubscribeAll(ctx context.Context, clientID string)

	// Patterns returns the patterns the client currently holds.
	Patterns(clientID string) []string

	// NotifyUpdate delivers the update to every subscriber whose pattern
	// matches resourceID. Per-subscriber failures are logged and isolated.
	NotifyUpdate(ctx context.Context, resourceID string, content []byte, mimeType string)

	// Subscriptions returns the client's subscriptions with timestamps.
	Subscriptions(clientID string) []domain.Subscription
}
