package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/eregs/internal/logger"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a free-text question",
	Long: `Routes a natural-language question to the matching lookup and prints
the answer. Questions it understands include procedure info, steps,
requirements, costs, institutions and keyword search.

Examples:
  eregs query "what are the steps for procedure 45"
  eregs query "search for procedures with keyword 'import'"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}
	defer closeServices(ctx)

	intent := queryService.Route(args[0])
	logger.Debug("routed query to %s (confidence %.2f)", intent.Type, intent.Confidence)

	answer, err := queryService.Answer(ctx, intent)
	if err != nil {
		return err
	}
	cmd.Println(answer)
	return nil
}
