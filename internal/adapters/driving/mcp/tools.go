package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/format"
)

// defaultSearchLimit applies when a search tool call omits the limit.
const defaultSearchLimit = 5

// ProcedureInput identifies a procedure.
type ProcedureInput struct {
	ProcedureID int `json:"procedure_id" jsonschema:"the numeric id of the procedure"`
}

// StepInput identifies one step within a procedure.
type StepInput struct {
	ProcedureID int `json:"procedure_id" jsonschema:"the numeric id of the procedure"`
	StepID      int `json:"step_id" jsonschema:"the numeric id of the step"`
}

// InstitutionInput identifies an institution.
type InstitutionInput struct {
	InstitutionID int `json:"institution_id" jsonschema:"the numeric id of the institution"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"keywords to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// QueryInput is the input schema for the answer_query tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"a free-text question about procedures or institutions"`
}

// PatternInput carries a resource pattern for subscription tools.
type PatternInput struct {
	Pattern string `json:"pattern" jsonschema:"resource pattern, e.g. eregulations://procedure/{id} or eregulations://procedure/**"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// PayloadOutput carries a formatted answer alongside the raw payload.
type PayloadOutput struct {
	Formatted string         `json:"formatted"`
	Data      map[string]any `json:"data,omitempty"`
}

// StepsOutput is the output schema for get_procedure_steps.
type StepsOutput struct {
	Formatted string           `json:"formatted"`
	Steps     []map[string]any `json:"steps"`
	Count     int              `json:"count"`
}

// SearchOutput is the output schema for search_procedures.
type SearchOutput struct {
	Formatted string               `json:"formatted"`
	Results   []SearchResultOutput `json:"results"`
	Count     int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// AnswerOutput is the output schema for answer_query.
type AnswerOutput struct {
	Answer        string  `json:"answer"`
	IntentType    string  `json:"intent_type"`
	SuggestedTool string  `json:"suggested_tool,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// CountriesOutput is the output schema for list_countries.
type CountriesOutput struct {
	Formatted string           `json:"formatted"`
	Countries []map[string]any `json:"countries"`
	Count     int              `json:"count"`
}

// SubscriptionsOutput lists the calling session's subscriptions.
type SubscriptionsOutput struct {
	Patterns []string `json:"patterns"`
	Count    int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_procedure",
		Description: "Get detailed information about a procedure by its ID",
	}, s.handleGetProcedure)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_procedure_steps",
		Description: "Get the list of steps for a procedure",
	}, s.handleGetProcedureSteps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_procedure_requirements",
		Description: "Get the requirements (documents, conditions) for a procedure",
	}, s.handleGetProcedureRequirements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_procedure_costs",
		Description: "Get the cost totals for a procedure",
	}, s.handleGetProcedureCosts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_procedure_detailed",
		Description: "Get combined basic info, summary, costs and requirements for a procedure",
	}, s.handleGetProcedureDetailed)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_procedure_abc",
		Description: "Get the activity-based costing analysis for a procedure",
	}, s.handleGetProcedureABC)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_step_details",
		Description: "Get detailed information about one step of a procedure",
	}, s.handleGetStepDetails)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_countries",
		Description: "List the countries available in the eRegulations deployment",
	}, s.handleListCountries)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_institution",
		Description: "Get information about an institution by its ID",
	}, s.handleGetInstitution)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_procedures",
		Description: "Search indexed procedures by keyword",
	}, s.handleSearchProcedures)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_query",
		Description: "Answer a free-text question about procedures, requirements, costs or institutions",
	}, s.handleAnswerQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "subscribe_resource",
		Description: "Subscribe this session to updates for resources matching a pattern",
	}, s.handleSubscribeResource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "unsubscribe_resource",
		Description: "Remove this session's subscription for a pattern",
	}, s.handleUnsubscribeResource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_subscriptions",
		Description: "List this session's active subscription patterns",
	}, s.handleListSubscriptions)
}

// textResult builds a plain-text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult builds a plain-text tool result flagged as an error.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// procedure fetches a procedure, preferring the orchestrated path.
func (s *Server) procedure(ctx context.Context, id int) (domain.Payload, error) {
	if s.ports.Regulations != nil {
		return s.ports.Regulations.Procedure(ctx, id)
	}
	return s.ports.Index.GetProcedure(ctx, id)
}

func (s *Server) handleGetProcedure(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcedureInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	data, err := s.procedure(ctx, input.ProcedureID)
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Procedure with ID %d not found.", input.ProcedureID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	formatted := format.ProcedureSummary(data)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleGetProcedureSteps(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcedureInput,
) (*mcp.CallToolResult, StepsOutput, error) {
	var (
		steps []domain.Payload
		err   error
	)
	if s.ports.Regulations != nil {
		steps, err = s.ports.Regulations.ProcedureSteps(ctx, input.ProcedureID)
	} else {
		var data domain.Payload
		data, err = s.ports.Index.GetProcedure(ctx, input.ProcedureID)
		if err == nil {
			steps = domain.ProcedureSteps(data)
		}
	}
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Procedure with ID %d not found.", input.ProcedureID)
		return textResult(msg), StepsOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, StepsOutput{}, err
	}

	out := StepsOutput{
		Formatted: format.StepList(steps),
		Steps:     make([]map[string]any, len(steps)),
		Count:     len(steps),
	}
	for i, step := range steps {
		out.Steps[i] = step
	}
	return textResult(out.Formatted), out, nil
}

func (s *Server) handleGetProcedureRequirements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcedureInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	var (
		data domain.Payload
		err  error
	)
	if s.ports.Regulations != nil {
		data, err = s.ports.Regulations.ProcedureRequirements(ctx, input.ProcedureID)
	} else {
		data, err = s.ports.Index.GetRequirements(ctx, input.ProcedureID)
	}
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Requirements for procedure %d not found.", input.ProcedureID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	formatted := format.Requirements(data)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleGetProcedureCosts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcedureInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	if s.ports.Regulations == nil {
		msg := "Cost lookups require the upstream API."
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}

	data, err := s.ports.Regulations.ProcedureCosts(ctx, input.ProcedureID)
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Costs for procedure %d not found.", input.ProcedureID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	formatted := format.Costs(data)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleGetProcedureDetailed(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcedureInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	if s.ports.Regulations == nil {
		msg := "Detailed lookups require the upstream API."
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}

	data, err := s.ports.Regulations.ProcedureDetailed(ctx, input.ProcedureID)
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Procedure with ID %d not found.", input.ProcedureID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	basic, _ := data["basic_info"].(domain.Payload)
	formatted := format.ProcedureSummary(basic)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleGetProcedureABC(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcedureInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	if s.ports.Regulations == nil {
		msg := "ABC analysis requires the upstream API."
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}

	data, err := s.ports.Regulations.ProcedureABC(ctx, input.ProcedureID)
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("ABC analysis not available for procedure %d.", input.ProcedureID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	formatted := format.ABCAnalysis(data)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleGetStepDetails(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StepInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	var (
		data domain.Payload
		err  error
	)
	if s.ports.Regulations != nil {
		data, err = s.ports.Regulations.Step(ctx, input.ProcedureID, input.StepID)
	} else {
		data, err = s.ports.Index.GetStep(ctx, input.ProcedureID, input.StepID)
	}
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Step %d of procedure %d not found.", input.StepID, input.ProcedureID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	formatted := format.Step(input.ProcedureID, input.StepID, data)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleListCountries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, CountriesOutput, error) {
	if s.ports.Regulations == nil {
		msg := "Country listings require the upstream API."
		return textResult(msg), CountriesOutput{Formatted: msg}, nil
	}

	countries, err := s.ports.Regulations.Countries(ctx)
	if err != nil {
		return nil, CountriesOutput{}, err
	}

	out := CountriesOutput{
		Formatted: format.Countries(countries),
		Countries: make([]map[string]any, len(countries)),
		Count:     len(countries),
	}
	for i, country := range countries {
		out.Countries[i] = country
	}
	return textResult(out.Formatted), out, nil
}

func (s *Server) handleGetInstitution(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InstitutionInput,
) (*mcp.CallToolResult, PayloadOutput, error) {
	var (
		data domain.Payload
		err  error
	)
	if s.ports.Regulations != nil {
		data, err = s.ports.Regulations.Institution(ctx, input.InstitutionID)
	} else {
		data, err = s.ports.Index.GetInstitution(ctx, input.InstitutionID)
	}
	if errors.Is(err, domain.ErrNotFound) {
		msg := fmt.Sprintf("Institution with ID %d not found.", input.InstitutionID)
		return textResult(msg), PayloadOutput{Formatted: msg}, nil
	}
	if err != nil {
		return nil, PayloadOutput{}, err
	}

	formatted := format.Institution(data)
	return textResult(formatted), PayloadOutput{Formatted: formatted, Data: data}, nil
}

func (s *Server) handleSearchProcedures(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results := s.ports.Index.Search(ctx, domain.KindProcedure, input.Query, limit)

	out := SearchOutput{
		Formatted: format.SearchResults(input.Query, results),
		Results:   make([]SearchResultOutput, len(results)),
		Count:     len(results),
	}
	for i, r := range results {
		out.Results[i] = SearchResultOutput{ID: r.ID, Title: r.Title, Score: r.Score}
	}
	return textResult(out.Formatted), out, nil
}

func (s *Server) handleAnswerQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	if s.ports.Query == nil {
		msg := "Query answering is not configured."
		return textResult(msg), AnswerOutput{Answer: msg}, nil
	}

	intent := s.ports.Query.Route(input.Query)
	answer, err := s.ports.Query.Answer(ctx, intent)
	if err != nil {
		return nil, AnswerOutput{}, err
	}

	out := AnswerOutput{
		Answer:        answer,
		IntentType:    string(intent.Type),
		SuggestedTool: intent.SuggestedTool,
		Confidence:    intent.Confidence,
	}
	return textResult(answer), out, nil
}

func (s *Server) handleSubscribeResource(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PatternInput,
) (*mcp.CallToolResult, SubscriptionsOutput, error) {
	if _, err := domain.CompilePattern(input.Pattern); err != nil {
		msg := fmt.Sprintf("Invalid pattern %q.", input.Pattern)
		return errorResult(msg), SubscriptionsOutput{}, nil
	}

	sink := &sessionNotifier{server: s.server, pattern: input.Pattern}
	if err := s.ports.Subscription.Subscribe(ctx, input.Pattern, req.Session.ID(), sink); err != nil {
		return nil, SubscriptionsOutput{}, err
	}
	s.trackClient(req.Session.ID())

	patterns := s.ports.Subscription.Patterns(req.Session.ID())
	msg := fmt.Sprintf("Subscribed to %s.", input.Pattern)
	return textResult(msg), SubscriptionsOutput{Patterns: patterns, Count: len(patterns)}, nil
}

func (s *Server) handleUnsubscribeResource(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input PatternInput,
) (*mcp.CallToolResult, SubscriptionsOutput, error) {
	s.ports.Subscription.Unsubscribe(ctx, input.Pattern, req.Session.ID())

	patterns := s.ports.Subscription.Patterns(req.Session.ID())
	msg := fmt.Sprintf("Unsubscribed from %s.", input.Pattern)
	return textResult(msg), SubscriptionsOutput{Patterns: patterns, Count: len(patterns)}, nil
}

func (s *Server) handleListSubscriptions(
	_ context.Context,
	req *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, SubscriptionsOutput, error) {
	patterns := s.ports.Subscription.Patterns(req.Session.ID())

	formatted := "No active subscriptions."
	if len(patterns) > 0 {
		formatted = fmt.Sprintf("%d active subscription(s).", len(patterns))
	}
	return textResult(formatted), SubscriptionsOutput{Patterns: patterns, Count: len(patterns)}, nil
}
