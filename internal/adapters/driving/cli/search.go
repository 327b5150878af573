package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/format"
	"github.com/custodia-labs/eregs/internal/logger"
)

var (
	searchLimit int
	searchKind  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the local index",
	Long: `Searches the persistent index by substring match. The index is
populated as procedures are fetched, so search only covers what has been
looked up before.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().StringVarP(&searchKind, "kind", "k", "procedure", "entity kind: procedure, step, requirement or institution")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger.Section("Search Execution")

	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}
	defer closeServices(ctx)

	kind := domain.Kind(searchKind)
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, searchKind)
	}

	results := indexService.Search(ctx, kind, args[0], searchLimit)

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(format.SearchResults(args[0], results))
	return nil
}
