package driving

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// QueryService routes free-text questions to structured intents and
// renders answers for them.
type QueryService interface {
	// Route classifies a query into an intent. It always succeeds; queries
	// no rule matches come back as IntentUnknown with confidence zero.
	Route(query string) domain.Intent

	// Answer renders a textual answer for a routed intent, consulting the
	// index first and the upstream API on a miss.
	Answer(ctx context.Context, intent domain.Intent) (string, error)
}
