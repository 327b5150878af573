package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/eregs/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for the eRegulations services.
type Server struct {
	ports  *Ports
	name   string
	server *mcp.Server

	// Session IDs that hold subscriptions, released on shutdown.
	clients sync.Map
}

// NewServer creates a new MCP server with the given ports. name is the
// implementation name reported to clients.
func NewServer(name string, ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if name == "" {
		name = "eregulations"
	}

	impl := &mcp.Implementation{
		Name:    name,
		Version: Version,
	}

	s := &Server{
		ports: ports,
		name:  name,
	}

	// Protocol-level resources/subscribe carries a URI, which the
	// subscription service accepts as a pattern. Explicit tools exist
	// for the same operations so clients without subscription support
	// can still use them.
	s.server = mcp.NewServer(impl, &mcp.ServerOptions{
		SubscribeHandler:   s.handleSubscribe,
		UnsubscribeHandler: s.handleUnsubscribe,
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// trackClient remembers a session that holds subscriptions so its
// registrations can be released when the session goes away.
func (s *Server) trackClient(id string) {
	s.clients.Store(id, struct{}{})
}

// releaseClients drops every subscription owned by tracked sessions.
// Called when a transport loop ends: over stdio the end of the loop is
// the end of the single session.
func (s *Server) releaseClients(ctx context.Context) {
	s.clients.Range(func(key, _ any) bool {
		s.ports.Subscription.UnsubscribeAll(ctx, key.(string))
		s.clients.Delete(key)
		return true
	})
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("starting MCP server %s over stdio", s.name)
	defer s.releaseClients(context.WithoutCancel(ctx))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("starting MCP server %s on %s", s.name, addr)
	defer s.releaseClients(context.WithoutCancel(ctx))
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
