package domain

// IntentType classifies a free-text query into a tool-shaped action.
type IntentType string

// Recognised intent types.
const (
	// IntentProcedureInfo asks for a procedure by id.
	IntentProcedureInfo IntentType = "procedure_info"

	// IntentProcedureSteps asks for the steps of a procedure.
	IntentProcedureSteps IntentType = "procedure_steps"

	// IntentProcedureRequirements asks for a procedure's requirements.
	IntentProcedureRequirements IntentType = "procedure_requirements"

	// IntentProcedureCosts asks for a procedure's costs.
	IntentProcedureCosts IntentType = "procedure_costs"

	// IntentSearch is a keyword search over procedures.
	IntentSearch IntentType = "search"

	// IntentInstitutionInfo asks for an institution by id.
	IntentInstitutionInfo IntentType = "institution_info"

	// IntentUnknown means no pattern matched and no keywords survived.
	IntentUnknown IntentType = "unknown"
)

// Intent is the structured result of routing a free-text query.
type Intent struct {
	Type IntentType

	// ProcedureID or InstitutionID is set for id-shaped intents.
	ProcedureID   int
	InstitutionID int

	// Query and Limit are set for search intents.
	Query string
	Limit int

	// SuggestedTool is the tool name a client should call next.
	SuggestedTool string

	// Confidence is a coarse routing confidence in [0, 1].
	Confidence float64

	// Message carries the fallback help text for unknown intents.
	Message string
}
