package mcp

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// mockRegulationsService is a mock implementation of driving.RegulationsService.
type mockRegulationsService struct {
	procedure    domain.Payload
	steps        []domain.Payload
	requirements domain.Payload
	costs        domain.Payload
	detailed     domain.Payload
	abc          domain.Payload
	step         domain.Payload
	institution  domain.Payload
	countries    []domain.Payload
	err          error
}

func (m *mockRegulationsService) Procedure(_ context.Context, _ int) (domain.Payload, error) {
	return m.procedure, m.err
}

func (m *mockRegulationsService) ProcedureSteps(_ context.Context, _ int) ([]domain.Payload, error) {
	return m.steps, m.err
}

func (m *mockRegulationsService) ProcedureRequirements(_ context.Context, _ int) (domain.Payload, error) {
	return m.requirements, m.err
}

func (m *mockRegulationsService) ProcedureCosts(_ context.Context, _ int) (domain.Payload, error) {
	return m.costs, m.err
}

func (m *mockRegulationsService) ProcedureDetailed(_ context.Context, _ int) (domain.Payload, error) {
	return m.detailed, m.err
}

func (m *mockRegulationsService) ProcedureABC(_ context.Context, _ int) (domain.Payload, error) {
	return m.abc, m.err
}

func (m *mockRegulationsService) Step(_ context.Context, _, _ int) (domain.Payload, error) {
	return m.step, m.err
}

func (m *mockRegulationsService) Institution(_ context.Context, _ int) (domain.Payload, error) {
	return m.institution, m.err
}

func (m *mockRegulationsService) Countries(_ context.Context) ([]domain.Payload, error) {
	return m.countries, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	intent domain.Intent
	answer string
	err    error
}

func (m *mockQueryService) Route(_ string) domain.Intent {
	return m.intent
}

func (m *mockQueryService) Answer(_ context.Context, _ domain.Intent) (string, error) {
	return m.answer, m.err
}
