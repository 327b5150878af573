package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// uriScheme is the custom URI scheme for eRegulations resources.
const uriScheme = "eregulations://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing indexed procedures.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "procedures",
		Name:        "procedures",
		Description: "All indexed procedures",
		MIMEType:    "application/json",
	}, s.handleProceduresResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "procedure/{id}",
		Name:        "procedure",
		Description: "A procedure by id",
		MIMEType:    "application/json",
	}, s.handleProcedureResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "procedure/{id}/steps",
		Name:        "procedure-steps",
		Description: "The steps of a procedure",
		MIMEType:    "application/json",
	}, s.handleProcedureStepsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "institution/{id}",
		Name:        "institution",
		Description: "An institution by id",
		MIMEType:    "application/json",
	}, s.handleInstitutionResource)
}

// handleProceduresResource lists every indexed procedure.
func (s *Server) handleProceduresResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// An empty query matches every entry; the index is the full listing.
	results := s.ports.Index.Search(ctx, domain.KindProcedure, "", math.MaxInt)

	type procInfo struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	infos := make([]procInfo, len(results))
	for i, r := range results {
		infos[i] = procInfo{ID: r.ID, Title: r.Title}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling procedures: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// handleProcedureResource serves one procedure payload.
func (s *Server) handleProcedureResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := procedureIDFromURI(req.Params.URI, "")
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	payload, err := s.procedure(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling procedure %d: %w", id, err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// handleProcedureStepsResource serves the steps of one procedure.
func (s *Server) handleProcedureStepsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := procedureIDFromURI(req.Params.URI, "/steps")
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	payload, err := s.procedure(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(domain.ProcedureSteps(payload), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling steps of %d: %w", id, err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// handleInstitutionResource serves one institution payload.
func (s *Server) handleInstitutionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	raw, ok := strings.CutPrefix(req.Params.URI, uriScheme+"institution/")
	id, err := strconv.Atoi(raw)
	if !ok || err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var payload domain.Payload
	if s.ports.Regulations != nil {
		payload, err = s.ports.Regulations.Institution(ctx, id)
	} else {
		payload, err = s.ports.Index.GetInstitution(ctx, id)
	}
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling institution %d: %w", id, err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// procedureIDFromURI parses eregulations://procedure/{id}<suffix>.
func procedureIDFromURI(uri, suffix string) (int, bool) {
	raw, ok := strings.CutPrefix(uri, uriScheme+"procedure/")
	if !ok {
		return 0, false
	}
	raw, ok = strings.CutSuffix(raw, suffix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func jsonResource(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
