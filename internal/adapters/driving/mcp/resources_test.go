package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestProcedureIDFromURI(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		suffix string
		id     int
		ok     bool
	}{
		{name: "plain procedure", uri: "eregulations://procedure/123", id: 123, ok: true},
		{name: "steps suffix", uri: "eregulations://procedure/7/steps", suffix: "/steps", id: 7, ok: true},
		{name: "wrong scheme", uri: "file://procedure/123"},
		{name: "missing suffix", uri: "eregulations://procedure/7", suffix: "/steps"},
		{name: "non-numeric id", uri: "eregulations://procedure/abc"},
		{name: "empty", uri: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := procedureIDFromURI(tt.uri, tt.suffix)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.id, id)
			}
		})
	}
}

func TestServer_handleProceduresResource(t *testing.T) {
	ctx := context.Background()

	server, index := newTestServer(t, nil)
	index.IndexProcedure(ctx, 1, domain.Payload{"title": "Business Registration"})

	result, err := server.handleProceduresResource(ctx, makeReadResourceRequest("eregulations://procedures"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "Business Registration")
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
}

func TestServer_handleProcedureResource(t *testing.T) {
	ctx := context.Background()

	server, index := newTestServer(t, nil)
	index.IndexProcedure(ctx, 123, domain.Payload{"title": "Business Registration"})

	t.Run("serves indexed procedure", func(t *testing.T) {
		result, err := server.handleProcedureResource(ctx, makeReadResourceRequest("eregulations://procedure/123"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "Business Registration")
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := server.handleProcedureResource(ctx, makeReadResourceRequest("eregulations://procedure/999"))
		assert.Error(t, err)
	})

	t.Run("malformed uri is not found", func(t *testing.T) {
		_, err := server.handleProcedureResource(ctx, makeReadResourceRequest("eregulations://procedure/abc"))
		assert.Error(t, err)
	})
}

func TestServer_handleProcedureStepsResource(t *testing.T) {
	ctx := context.Background()

	server, index := newTestServer(t, nil)
	index.IndexProcedure(ctx, 5, domain.Payload{
		"title": "Permit",
		"blocks": []any{
			map[string]any{"steps": []any{
				map[string]any{"id": float64(1), "title": "Apply"},
			}},
		},
	})

	result, err := server.handleProcedureStepsResource(ctx, makeReadResourceRequest("eregulations://procedure/5/steps"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "Apply")
}

func TestServer_handleInstitutionResource(t *testing.T) {
	ctx := context.Background()

	server, index := newTestServer(t, nil)
	index.IndexInstitution(ctx, 456, domain.Payload{"name": "Ministry of Trade"})

	result, err := server.handleInstitutionResource(ctx, makeReadResourceRequest("eregulations://institution/456"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, "Ministry of Trade")
}
