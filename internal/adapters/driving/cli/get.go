package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/format"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch eRegulations entities",
	Long: `Fetches entities from the upstream eRegulations API, indexing them
locally on the way. When the API is unreachable, previously indexed data
is served instead.`,
}

var getProcedureCmd = &cobra.Command{
	Use:   "procedure [id]",
	Short: "Fetch a procedure by id",
	Args:  cobra.ExactArgs(1),
	RunE: entityRunE(func(cmd *cobra.Command, id int) error {
		data, err := regulationsService.Procedure(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printPayload(cmd, data, format.ProcedureSummary)
	}),
}

var getStepsCmd = &cobra.Command{
	Use:   "steps [procedure-id]",
	Short: "Fetch the steps of a procedure",
	Args:  cobra.ExactArgs(1),
	RunE: entityRunE(func(cmd *cobra.Command, id int) error {
		steps, err := regulationsService.ProcedureSteps(cmd.Context(), id)
		if err != nil {
			return err
		}
		if getJSON {
			return printJSON(cmd, steps)
		}
		cmd.Println(format.StepList(steps))
		return nil
	}),
}

var getRequirementsCmd = &cobra.Command{
	Use:   "requirements [procedure-id]",
	Short: "Fetch the requirements of a procedure",
	Args:  cobra.ExactArgs(1),
	RunE: entityRunE(func(cmd *cobra.Command, id int) error {
		data, err := regulationsService.ProcedureRequirements(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printPayload(cmd, data, format.Requirements)
	}),
}

var getCostsCmd = &cobra.Command{
	Use:   "costs [procedure-id]",
	Short: "Fetch the cost totals of a procedure",
	Args:  cobra.ExactArgs(1),
	RunE: entityRunE(func(cmd *cobra.Command, id int) error {
		data, err := regulationsService.ProcedureCosts(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printPayload(cmd, data, format.Costs)
	}),
}

var getABCCmd = &cobra.Command{
	Use:   "abc [procedure-id]",
	Short: "Fetch the activity-based costing analysis of a procedure",
	Args:  cobra.ExactArgs(1),
	RunE: entityRunE(func(cmd *cobra.Command, id int) error {
		data, err := regulationsService.ProcedureABC(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printPayload(cmd, data, format.ABCAnalysis)
	}),
}

var getStepCmd = &cobra.Command{
	Use:   "step [procedure-id] [step-id]",
	Short: "Fetch one step of a procedure",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		procedureID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q is not a numeric id", domain.ErrInvalidInput, args[0])
		}
		stepID, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q is not a numeric id", domain.ErrInvalidInput, args[1])
		}

		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}
		defer closeServices(ctx)

		data, err := regulationsService.Step(ctx, procedureID, stepID)
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Printf("Not found: step %d of procedure %d\n", stepID, procedureID)
			return nil
		}
		if err != nil {
			return err
		}
		if getJSON {
			return printJSON(cmd, data)
		}
		cmd.Println(format.Step(procedureID, stepID, data))
		return nil
	},
}

var getInstitutionCmd = &cobra.Command{
	Use:   "institution [id]",
	Short: "Fetch an institution by id",
	Args:  cobra.ExactArgs(1),
	RunE: entityRunE(func(cmd *cobra.Command, id int) error {
		data, err := regulationsService.Institution(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printPayload(cmd, data, format.Institution)
	}),
}

var getCountriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Fetch the deployment's country list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}
		defer closeServices(ctx)

		countries, err := regulationsService.Countries(ctx)
		if err != nil {
			return err
		}
		if getJSON {
			return printJSON(cmd, countries)
		}
		for _, country := range countries {
			cmd.Println(domain.ExtractText(country, "name"))
		}
		return nil
	},
}

func init() {
	getCmd.PersistentFlags().BoolVar(&getJSON, "json", false, "output raw JSON")
	getCmd.AddCommand(getProcedureCmd, getStepsCmd, getStepCmd, getRequirementsCmd, getCostsCmd, getABCCmd, getInstitutionCmd, getCountriesCmd)
	rootCmd.AddCommand(getCmd)
}

// entityRunE wraps a handler taking a numeric id with service wiring
// and friendly not-found reporting.
func entityRunE(run func(cmd *cobra.Command, id int) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q is not a numeric id", domain.ErrInvalidInput, args[0])
		}

		ctx := cmd.Context()
		if err := ensureServices(ctx); err != nil {
			return err
		}
		defer closeServices(ctx)

		if err := run(cmd, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				cmd.Printf("Not found: %d\n", id)
				return nil
			}
			return err
		}
		return nil
	}
}

func printPayload(cmd *cobra.Command, data domain.Payload, render func(domain.Payload) string) error {
	if getJSON {
		return printJSON(cmd, data)
	}
	cmd.Println(render(data))
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
