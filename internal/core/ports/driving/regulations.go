package driving

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// RegulationsService orchestrates the fetch -> index -> notify flow for
// eRegulations entities. Fetches consult the index and response cache
// before the network.
type RegulationsService interface {
	// Procedure returns a procedure by id, indexing it on first fetch.
	Procedure(ctx context.Context, procedureID int) (domain.Payload, error)

	// ProcedureSteps returns the flattened steps of a procedure.
	ProcedureSteps(ctx context.Context, procedureID int) ([]domain.Payload, error)

	// ProcedureRequirements returns the requirement set of a procedure.
	ProcedureRequirements(ctx context.Context, procedureID int) (domain.Payload, error)

	// ProcedureCosts returns the cost totals of a procedure.
	ProcedureCosts(ctx context.Context, procedureID int) (domain.Payload, error)

	// ProcedureDetailed combines basic info, resume, costs and requirements.
	ProcedureDetailed(ctx context.Context, procedureID int) (domain.Payload, error)

	// ProcedureABC returns the activity-based costing analysis.
	ProcedureABC(ctx context.Context, procedureID int) (domain.Payload, error)

	// Step returns one step of a procedure.
	Step(ctx context.Context, procedureID, stepID int) (domain.Payload, error)

	// Institution returns an institution by id, indexing it on first fetch.
	Institution(ctx context.Context, institutionID int) (domain.Payload, error)

	// Countries returns the country list of the eRegulations deployment.
	Countries(ctx context.Context) ([]domain.Payload, error)
}
