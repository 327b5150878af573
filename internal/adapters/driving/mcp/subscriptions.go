package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/eregs/internal/core/ports/driven"
)

// sessionNotifier delivers resource updates to the sessions subscribed
// to one pattern. The SDK's subscription table is keyed by the string the
// client passed to resources/subscribe, so notifying with the pattern as
// the URI reaches exactly the subscribed sessions.
type sessionNotifier struct {
	server  *mcp.Server
	pattern string
}

var _ driven.NotificationSink = (*sessionNotifier)(nil)

// Notify sends a resources/updated notification. The content itself is
// not part of the notification; clients re-read the resource.
func (n *sessionNotifier) Notify(ctx context.Context, _ string, _ []byte, _ string) error {
	return n.server.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{
		URI: n.pattern,
	})
}

// handleSubscribe services protocol-level resources/subscribe requests.
func (s *Server) handleSubscribe(ctx context.Context, req *mcp.SubscribeRequest) error {
	if err := s.ports.Subscription.Subscribe(ctx, req.Params.URI, req.Session.ID(), &sessionNotifier{server: s.server, pattern: req.Params.URI}); err != nil {
		return err
	}
	s.trackClient(req.Session.ID())
	return nil
}

// handleUnsubscribe services protocol-level resources/unsubscribe requests.
func (s *Server) handleUnsubscribe(ctx context.Context, req *mcp.UnsubscribeRequest) error {
	s.ports.Subscription.Unsubscribe(ctx, req.Params.URI, req.Session.ID())
	return nil
}
