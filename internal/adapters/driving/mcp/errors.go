// Package mcp provides an MCP (Model Context Protocol) server adapter
// for the eRegulations services. It exposes procedure lookup, search,
// query answering and resource subscriptions to AI assistants.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")

// ErrMissingSubscriptionService is returned when the subscription service is not provided.
var ErrMissingSubscriptionService = errors.New("mcp: subscription service is required")
