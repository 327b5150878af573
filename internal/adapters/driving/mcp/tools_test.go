package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/services"
)

// newTestServer builds a server over real index and subscription services.
func newTestServer(t *testing.T, mutate func(*Ports)) (*Server, *services.IndexService) {
	t.Helper()

	index := services.NewIndexService(nil)
	ports := &Ports{
		Index:        index,
		Subscription: services.NewSubscriptionService(),
	}
	if mutate != nil {
		mutate(ports)
	}

	server, err := NewServer("eregulations", ports)
	require.NoError(t, err)
	return server, index
}

func TestServer_handleGetProcedure(t *testing.T) {
	ctx := context.Background()

	t.Run("returns procedure from regulations service", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{
				procedure: domain.Payload{"id": float64(123), "title": "Business Registration"},
			}
		})

		_, output, err := server.handleGetProcedure(ctx, nil, ProcedureInput{ProcedureID: 123})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Business Registration")
		assert.Equal(t, "Business Registration", output.Data["title"])
	})

	t.Run("falls back to index without regulations service", func(t *testing.T) {
		server, index := newTestServer(t, nil)
		index.IndexProcedure(ctx, 7, domain.Payload{"title": "Import Permit"})

		_, output, err := server.handleGetProcedure(ctx, nil, ProcedureInput{ProcedureID: 7})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Import Permit")
	})

	t.Run("not found yields a message, not an error", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		result, output, err := server.handleGetProcedure(ctx, nil, ProcedureInput{ProcedureID: 999})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "999 not found")
		require.NotNil(t, result)
	})

	t.Run("upstream errors propagate", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{err: errors.New("upstream down")}
		})

		_, _, err := server.handleGetProcedure(ctx, nil, ProcedureInput{ProcedureID: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream down")
	})
}

func TestServer_handleGetProcedureSteps(t *testing.T) {
	ctx := context.Background()

	server, _ := newTestServer(t, func(p *Ports) {
		p.Regulations = &mockRegulationsService{
			steps: []domain.Payload{
				{"id": float64(1), "title": "Apply"},
				{"id": float64(2), "title": "Pay"},
			},
		}
	})

	_, output, err := server.handleGetProcedureSteps(ctx, nil, ProcedureInput{ProcedureID: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.Contains(t, output.Formatted, "Apply")
}

func TestServer_handleGetProcedureRequirements(t *testing.T) {
	ctx := context.Background()

	server, _ := newTestServer(t, func(p *Ports) {
		p.Regulations = &mockRegulationsService{
			requirements: domain.Payload{"title": "Requirements", "description": "Passport copy"},
		}
	})

	_, output, err := server.handleGetProcedureRequirements(ctx, nil, ProcedureInput{ProcedureID: 5})
	require.NoError(t, err)
	assert.Contains(t, output.Formatted, "Passport copy")
}

func TestServer_handleGetProcedureCosts(t *testing.T) {
	ctx := context.Background()

	t.Run("without regulations service", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, output, err := server.handleGetProcedureCosts(ctx, nil, ProcedureInput{ProcedureID: 5})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "upstream API")
	})

	t.Run("with regulations service", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{
				costs: domain.Payload{"totalCost": float64(150)},
			}
		})

		_, output, err := server.handleGetProcedureCosts(ctx, nil, ProcedureInput{ProcedureID: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, output.Formatted)
		assert.Equal(t, float64(150), output.Data["totalCost"])
	})
}

func TestServer_handleGetProcedureABC(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the analysis", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{
				abc: domain.Payload{
					"summary": "3 days total",
					"details": []any{map[string]any{"name": "Fee", "cost": float64(100)}},
				},
			}
		})

		_, output, err := server.handleGetProcedureABC(ctx, nil, ProcedureInput{ProcedureID: 5})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Activity-Based Costing Analysis")
		assert.Contains(t, output.Formatted, "Fee: 100")
		assert.Equal(t, "3 days total", output.Data["summary"])
	})

	t.Run("requires the upstream API", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, output, err := server.handleGetProcedureABC(ctx, nil, ProcedureInput{ProcedureID: 5})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "requires the upstream API")
	})

	t.Run("not found yields a message, not an error", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{err: domain.ErrNotFound}
		})

		_, output, err := server.handleGetProcedureABC(ctx, nil, ProcedureInput{ProcedureID: 9})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "not available for procedure 9")
	})
}

func TestServer_handleGetStepDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("returns step from regulations service", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{
				step: domain.Payload{"id": float64(2), "title": "Submit application"},
			}
		})

		_, output, err := server.handleGetStepDetails(ctx, nil, StepInput{ProcedureID: 5, StepID: 2})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Step 2 of procedure 5: Submit application")
		assert.Equal(t, "Submit application", output.Data["title"])
	})

	t.Run("falls back to index without regulations service", func(t *testing.T) {
		server, index := newTestServer(t, nil)
		index.IndexStep(ctx, 5, 2, domain.Payload{"title": "Pay the fee"})

		_, output, err := server.handleGetStepDetails(ctx, nil, StepInput{ProcedureID: 5, StepID: 2})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Pay the fee")
	})

	t.Run("not found yields a message, not an error", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, output, err := server.handleGetStepDetails(ctx, nil, StepInput{ProcedureID: 5, StepID: 99})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Step 99 of procedure 5 not found")
	})
}

func TestServer_handleListCountries(t *testing.T) {
	ctx := context.Background()

	t.Run("lists countries", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Regulations = &mockRegulationsService{
				countries: []domain.Payload{
					{"id": float64(1), "name": "Tanzania", "code": "TZ"},
				},
			}
		})

		_, output, err := server.handleListCountries(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "Tanzania (id 1, code TZ)")
		assert.Equal(t, 1, output.Count)
	})

	t.Run("requires the upstream API", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, output, err := server.handleListCountries(ctx, nil, EmptyInput{})
		require.NoError(t, err)
		assert.Contains(t, output.Formatted, "require the upstream API")
		assert.Zero(t, output.Count)
	})
}

func TestServer_handleSubscribeResource_InvalidPattern(t *testing.T) {
	server, _ := newTestServer(t, nil)

	result, output, err := server.handleSubscribeResource(context.Background(), nil, PatternInput{Pattern: "eregulations://{"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.Patterns)
}

func TestServer_handleGetInstitution(t *testing.T) {
	ctx := context.Background()

	server, _ := newTestServer(t, func(p *Ports) {
		p.Regulations = &mockRegulationsService{
			institution: domain.Payload{"name": "Ministry of Trade"},
		}
	})

	_, output, err := server.handleGetInstitution(ctx, nil, InstitutionInput{InstitutionID: 456})
	require.NoError(t, err)
	assert.Contains(t, output.Formatted, "Ministry of Trade")
}

func TestServer_handleSearchProcedures(t *testing.T) {
	ctx := context.Background()

	server, index := newTestServer(t, nil)
	index.IndexProcedure(ctx, 1, domain.Payload{"title": "Business Registration"})
	index.IndexProcedure(ctx, 2, domain.Payload{"title": "Import Permit"})

	t.Run("returns matches", func(t *testing.T) {
		_, output, err := server.handleSearchProcedures(ctx, nil, SearchInput{Query: "business"})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, 1, output.Results[0].ID)
		assert.Equal(t, 1.0, output.Results[0].Score)
	})

	t.Run("omitted limit defaults", func(t *testing.T) {
		_, output, err := server.handleSearchProcedures(ctx, nil, SearchInput{Query: ""})
		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
	})
}

func TestServer_handleAnswerQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to query service", func(t *testing.T) {
		server, _ := newTestServer(t, func(p *Ports) {
			p.Query = &mockQueryService{
				intent: domain.Intent{Type: domain.IntentProcedureInfo, SuggestedTool: "get_procedure", Confidence: 0.9},
				answer: "# Procedure 5",
			}
		})

		_, output, err := server.handleAnswerQuery(ctx, nil, QueryInput{Query: "procedure with id 5"})
		require.NoError(t, err)
		assert.Equal(t, "# Procedure 5", output.Answer)
		assert.Equal(t, "procedure_info", output.IntentType)
		assert.Equal(t, "get_procedure", output.SuggestedTool)
	})

	t.Run("unconfigured query service", func(t *testing.T) {
		server, _ := newTestServer(t, nil)

		_, output, err := server.handleAnswerQuery(ctx, nil, QueryInput{Query: "anything"})
		require.NoError(t, err)
		assert.Contains(t, output.Answer, "not configured")
	})
}
