package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/ports/driven"
	"github.com/custodia-labs/eregs/internal/core/ports/driving"
	"github.com/custodia-labs/eregs/internal/logger"
)

// Ensure RegulationsService implements the interface.
var _ driving.RegulationsService = (*RegulationsService)(nil)

// mimeJSON is the MIME type attached to resource-update notifications.
const mimeJSON = "application/json"

// RegulationsService ties the upstream client, the search index and the
// subscription registry together: every successful fetch is indexed and
// announced to subscribers of the matching resource identifier.
type RegulationsService struct {
	client        driven.RegulationsClient
	index         driving.IndexService
	subscriptions driving.SubscriptionService
}

// NewRegulationsService creates the orchestration service. The
// subscription service is optional (can be nil); without it fetches are
// still indexed but nothing is announced.
func NewRegulationsService(
	client driven.RegulationsClient,
	index driving.IndexService,
	subscriptions driving.SubscriptionService,
) *RegulationsService {
	return &RegulationsService{
		client:        client,
		index:         index,
		subscriptions: subscriptions,
	}
}

// Procedure returns a procedure by id. The upstream response is indexed
// and announced; when upstream is unreachable the index serves as a
// degraded fallback.
func (s *RegulationsService) Procedure(ctx context.Context, procedureID int) (domain.Payload, error) {
	data, err := s.client.GetProcedure(ctx, procedureID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		logger.Warn("fetching procedure %d: %v, trying index", procedureID, err)
		return s.index.GetProcedure(ctx, procedureID)
	}

	s.index.IndexProcedure(ctx, procedureID, data)
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d", procedureID), data)
	return data, nil
}

// ProcedureSteps returns the flattened steps of a procedure.
func (s *RegulationsService) ProcedureSteps(ctx context.Context, procedureID int) ([]domain.Payload, error) {
	data, err := s.Procedure(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	steps := domain.ProcedureSteps(data)
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d/steps", procedureID), domain.Payload{"steps": steps})
	return steps, nil
}

// ProcedureRequirements returns and indexes the requirement set.
func (s *RegulationsService) ProcedureRequirements(ctx context.Context, procedureID int) (domain.Payload, error) {
	data, err := s.client.GetProcedureRequirements(ctx, procedureID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		logger.Warn("fetching requirements for procedure %d: %v, trying index", procedureID, err)
		return s.index.GetRequirements(ctx, procedureID)
	}

	s.index.IndexRequirements(ctx, procedureID, data)
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d/requirements", procedureID), data)
	return data, nil
}

// ProcedureCosts returns the cost totals of a procedure. Costs are not
// indexed; they change too often to be useful as search text.
func (s *RegulationsService) ProcedureCosts(ctx context.Context, procedureID int) (domain.Payload, error) {
	data, err := s.client.GetProcedureCosts(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d/costs", procedureID), data)
	return data, nil
}

// ProcedureDetailed combines basic info, resume, costs and requirements
// into one payload. Secondary lookups degrade to nil on failure rather
// than failing the whole call.
func (s *RegulationsService) ProcedureDetailed(ctx context.Context, procedureID int) (domain.Payload, error) {
	basic, err := s.Procedure(ctx, procedureID)
	if err != nil {
		return nil, err
	}

	resume, err := s.client.GetProcedureResume(ctx, procedureID)
	if err != nil {
		logger.Debug("resume for procedure %d unavailable: %v", procedureID, err)
	}
	costs, err := s.client.GetProcedureCosts(ctx, procedureID)
	if err != nil {
		logger.Debug("costs for procedure %d unavailable: %v", procedureID, err)
	}
	requirements, err := s.client.GetProcedureRequirements(ctx, procedureID)
	if err != nil {
		logger.Debug("requirements for procedure %d unavailable: %v", procedureID, err)
	} else {
		s.index.IndexRequirements(ctx, procedureID, requirements)
	}

	detailed := domain.Payload{
		"basic_info":   basic,
		"resume":       resume,
		"costs":        costs,
		"requirements": requirements,
	}
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d/detailed", procedureID), detailed)
	return detailed, nil
}

// ProcedureABC returns the activity-based costing analysis.
func (s *RegulationsService) ProcedureABC(ctx context.Context, procedureID int) (domain.Payload, error) {
	data, err := s.client.GetProcedureABC(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d/abc", procedureID), data)
	return data, nil
}

// Step returns one step of a procedure, indexing it under its composite key.
func (s *RegulationsService) Step(ctx context.Context, procedureID, stepID int) (domain.Payload, error) {
	data, err := s.client.GetStep(ctx, procedureID, stepID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		logger.Warn("fetching step %d/%d: %v, trying index", procedureID, stepID, err)
		return s.index.GetStep(ctx, procedureID, stepID)
	}

	s.index.IndexStep(ctx, procedureID, stepID, data)
	s.notify(ctx, fmt.Sprintf("eregulations://procedure/%d/step/%d", procedureID, stepID), data)
	return data, nil
}

// Institution returns an institution by id, indexing it on the way.
func (s *RegulationsService) Institution(ctx context.Context, institutionID int) (domain.Payload, error) {
	data, err := s.client.GetInstitution(ctx, institutionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		logger.Warn("fetching institution %d: %v, trying index", institutionID, err)
		return s.index.GetInstitution(ctx, institutionID)
	}

	s.index.IndexInstitution(ctx, institutionID, data)
	s.notify(ctx, fmt.Sprintf("eregulations://institution/%d", institutionID), data)
	return data, nil
}

// Countries returns the country list of the eRegulations deployment.
func (s *RegulationsService) Countries(ctx context.Context) ([]domain.Payload, error) {
	countries, err := s.client.GetCountries(ctx)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "eregulations://countries", domain.Payload{"countries": countries})
	return countries, nil
}

// notify announces an update to subscribers. Marshalling problems are
// logged and dropped; notification is best-effort.
func (s *RegulationsService) notify(ctx context.Context, resourceID string, content any) {
	if s.subscriptions == nil {
		return
	}
	body, err := json.Marshal(content)
	if err != nil {
		logger.Warn("marshalling notification for %s: %v", resourceID, err)
		return
	}
	s.subscriptions.NotifyUpdate(ctx, resourceID, body, mimeJSON)
}
