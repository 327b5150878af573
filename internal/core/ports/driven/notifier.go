package driven

import "context"

// NotificationSink delivers a resource-update notification to one client.
// The MCP adapter implements it on top of the server session; tests use
// in-memory fakes.
type NotificationSink interface {
	// Notify pushes an updated resource to the client. A failure affects
	// only this client; the dispatcher isolates it from other subscribers.
	Notify(ctx context.Context, resourceID string, content []byte, mimeType string) error
}
