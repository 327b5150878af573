package driven

import (
	"context"

	"github.com/custodia-labs/eregs/internal/core/domain"
)

// RegulationsClient fetches entities from the upstream eRegulations API.
// Implementations return domain.ErrNotFound for 404 responses.
type RegulationsClient interface {
	// GetProcedure fetches a procedure by id.
	GetProcedure(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetProcedureResume fetches the procedure summary block.
	GetProcedureResume(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetProcedureCosts fetches the cost totals for a procedure.
	GetProcedureCosts(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetProcedureRequirements fetches the requirement set for a procedure.
	GetProcedureRequirements(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetProcedureABC fetches the activity-based costing analysis.
	GetProcedureABC(ctx context.Context, procedureID int) (domain.Payload, error)

	// GetStep fetches one step of a procedure.
	GetStep(ctx context.Context, procedureID, stepID int) (domain.Payload, error)

	// GetInstitution fetches an institution by id.
	GetInstitution(ctx context.Context, institutionID int) (domain.Payload, error)

	// GetCountries fetches the country list.
	GetCountries(ctx context.Context) ([]domain.Payload, error)
}
