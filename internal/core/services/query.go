package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driving"
	"github.com/custodia-labs/eregs/internal/format"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// defaultSearchLimit bounds keyword searches routed from free text.
const defaultSearchLimit = 5

// unknownQueryMessage is the fallback for queries no rule matches.
const unknownQueryMessage = "I couldn't understand your query. Please try asking about a " +
	"specific procedure, steps, requirements, costs, or search for procedures using keywords."

// Routing rules, checked in order. The specific procedure sub-queries come
// before the bare procedure-id rule, which would otherwise swallow them.
var (
	stepsExpr        = regexp.MustCompile(`steps\s+(?:for|of)\s+procedure\s+(?:with\s+id\s+)?(\d+)`)
	requirementsExpr = regexp.MustCompile(`requirements\s+(?:for|of)\s+procedure\s+(?:with\s+id\s+)?(\d+)`)
	costsExpr        = regexp.MustCompile(`costs?\s+(?:for|of)\s+procedure\s+(?:with\s+id\s+)?(\d+)`)
	procedureExpr    = regexp.MustCompile(`procedure(?:\s+with)?\s+id\s+(\d+)`)
	institutionExpr  = regexp.MustCompile(`institution\s+(?:with\s+id\s+)?(\d+)`)
	searchExpr       = regexp.MustCompile(`search\s+(?:for\s+)?(?:procedures?\s+)?(?:with\s+)?(?:keyword\s+)?['"]?([^'"]+)['"]?`)
)

// stopWords are dropped during fallback keyword extraction.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "how": {}, "i": {}, "in": {},
	"is": {}, "it": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "will": {}, "with": {}, "procedure": {}, "procedures": {},
	"step": {}, "steps": {}, "requirement": {}, "requirements": {},
	"cost": {}, "costs": {}, "information": {}, "info": {}, "detail": {},
	"details": {}, "tell": {}, "me": {}, "show": {}, "get": {}, "find": {},
	"search": {}, "looking": {},
}

// QueryService maps free text to tool-shaped intents and renders answers.
type QueryService struct {
	index       driving.IndexService
	regulations driving.RegulationsService
}

// NewQueryService creates a query service. The regulations service is
// optional (can be nil); without it answers come from the index only.
func NewQueryService(index driving.IndexService, regulations driving.RegulationsService) *QueryService {
	return &QueryService{
		index:       index,
		regulations: regulations,
	}
}

// Route classifies a query into a structured intent. It never fails;
// unrecognised queries come back as IntentUnknown with confidence zero.
func (s *QueryService) Route(query string) domain.Intent {
	query = strings.ToLower(strings.TrimSpace(query))

	if m := stepsExpr.FindStringSubmatch(query); m != nil {
		return procedureIntent(domain.IntentProcedureSteps, "get_procedure_steps", m[1])
	}
	if m := requirementsExpr.FindStringSubmatch(query); m != nil {
		return procedureIntent(domain.IntentProcedureRequirements, "get_procedure_requirements", m[1])
	}
	if m := costsExpr.FindStringSubmatch(query); m != nil {
		return procedureIntent(domain.IntentProcedureCosts, "get_procedure_costs", m[1])
	}
	if m := procedureExpr.FindStringSubmatch(query); m != nil {
		return procedureIntent(domain.IntentProcedureInfo, "get_procedure", m[1])
	}
	if m := institutionExpr.FindStringSubmatch(query); m != nil {
		id, _ := strconv.Atoi(m[1])
		return domain.Intent{
			Type:          domain.IntentInstitutionInfo,
			InstitutionID: id,
			SuggestedTool: "get_institution",
			Confidence:    0.9,
		}
	}
	if m := searchExpr.FindStringSubmatch(query); m != nil {
		return domain.Intent{
			Type:          domain.IntentSearch,
			Query:         strings.TrimSpace(m[1]),
			Limit:         defaultSearchLimit,
			SuggestedTool: "search_procedures",
			Confidence:    0.8,
		}
	}

	// No rule matched; fall back to keyword extraction.
	if keywords := extractKeywords(query); len(keywords) > 0 {
		return domain.Intent{
			Type:          domain.IntentSearch,
			Query:         strings.Join(keywords, " "),
			Limit:         defaultSearchLimit,
			SuggestedTool: "search_procedures",
			Confidence:    0.6,
		}
	}

	return domain.Intent{
		Type:    domain.IntentUnknown,
		Message: unknownQueryMessage,
	}
}

func procedureIntent(typ domain.IntentType, tool, rawID string) domain.Intent {
	id, _ := strconv.Atoi(rawID)
	return domain.Intent{
		Type:          typ,
		ProcedureID:   id,
		SuggestedTool: tool,
		Confidence:    0.9,
	}
}

// extractKeywords drops stop words and short tokens from a query.
func extractKeywords(query string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if _, stop := stopWords[word]; stop || len(word) <= 2 {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// Answer renders a textual answer for a routed intent. The index is
// consulted first; on a miss the upstream API is asked, which also indexes
// the result for next time.
func (s *QueryService) Answer(ctx context.Context, intent domain.Intent) (string, error) {
	if intent.Confidence < 0.5 {
		if intent.Message != "" {
			return intent.Message, nil
		}
		return unknownQueryMessage, nil
	}

	switch intent.Type {
	case domain.IntentProcedureInfo:
		data, err := s.procedureData(ctx, intent.ProcedureID)
		if err != nil {
			return fmt.Sprintf("I couldn't find information for procedure with ID %d.", intent.ProcedureID), nil
		}
		return format.ProcedureMarkdown(intent.ProcedureID, data), nil

	case domain.IntentProcedureSteps:
		data, err := s.procedureData(ctx, intent.ProcedureID)
		if err != nil {
			return fmt.Sprintf("I couldn't find steps for procedure with ID %d.", intent.ProcedureID), nil
		}
		return format.StepList(domain.ProcedureSteps(data)), nil

	case domain.IntentProcedureRequirements:
		if s.regulations == nil {
			return "Requirement lookups need the upstream API, which is not configured.", nil
		}
		data, err := s.regulations.ProcedureRequirements(ctx, intent.ProcedureID)
		if err != nil {
			return fmt.Sprintf("I couldn't find requirements for procedure with ID %d.", intent.ProcedureID), nil
		}
		return format.Requirements(data), nil

	case domain.IntentProcedureCosts:
		if s.regulations == nil {
			return "Cost lookups need the upstream API, which is not configured.", nil
		}
		data, err := s.regulations.ProcedureCosts(ctx, intent.ProcedureID)
		if err != nil {
			return fmt.Sprintf("I couldn't find costs for procedure with ID %d.", intent.ProcedureID), nil
		}
		return format.Costs(data), nil

	case domain.IntentInstitutionInfo:
		data, err := s.institutionData(ctx, intent.InstitutionID)
		if err != nil {
			return fmt.Sprintf("I couldn't find information for institution with ID %d.", intent.InstitutionID), nil
		}
		return format.Institution(data), nil

	case domain.IntentSearch:
		results := s.index.Search(ctx, domain.KindProcedure, intent.Query, intent.Limit)
		return format.SearchResults(intent.Query, results), nil

	default:
		return unknownQueryMessage, nil
	}
}

// procedureData reads a procedure from the index, falling back to the
// upstream API (which indexes the result as a side effect).
func (s *QueryService) procedureData(ctx context.Context, procedureID int) (domain.Payload, error) {
	data, err := s.index.GetProcedure(ctx, procedureID)
	if err == nil {
		return data, nil
	}
	if s.regulations == nil {
		return nil, err
	}
	logger.Debug("procedure %d not indexed, fetching upstream", procedureID)
	return s.regulations.Procedure(ctx, procedureID)
}

func (s *QueryService) institutionData(ctx context.Context, institutionID int) (domain.Payload, error) {
	data, err := s.index.GetInstitution(ctx, institutionID)
	if err == nil {
		return data, nil
	}
	if s.regulations == nil {
		return nil, err
	}
	return s.regulations.Institution(ctx, institutionID)
}
