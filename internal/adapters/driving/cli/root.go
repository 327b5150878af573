// Package cli implements the eregs command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/eregs/internal/adapters/driven/config/file"
	"github.com/custodia-labs/eregs/internal/adapters/driven/eregulations"
	storagefile "github.com/custodia-labs/eregs/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/eregs/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/core/services"
	"github.com/custodia-labs/eregs/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Package-level services shared by the commands. Populated by
// ensureServices on first use.
var (
	configStore         *configfile.ConfigStore
	indexStore          *storagefile.IndexStore
	indexService        *services.IndexService
	subscriptionService *services.SubscriptionService
	regulationsService  *services.RegulationsService
	queryService        *services.QueryService
	authService         *services.AuthService
	responseCache       *sqlite.Cache
)

var rootCmd = &cobra.Command{
	Use:   "eregs",
	Short: "MCP server and CLI for eRegulations data",
	Long: `eregs serves eRegulations procedure data to AI assistants over the
Model Context Protocol, with a persistent search index, free-text query
answering and resource-update subscriptions. The same services are
available directly from the command line.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices wires the full service graph. Commands that touch data
// call this from their RunE; commands like version stay side-effect free.
func ensureServices(ctx context.Context) error {
	if indexService != nil {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settings := configStore.Settings()

	dataDir := settings.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".eregs", "data")
	}

	indexDir := settings.IndexDir
	if indexDir == "" {
		indexDir = filepath.Join(dataDir, "index")
	}
	indexStore, err = storagefile.NewIndexStore(indexDir)
	if err != nil {
		return fmt.Errorf("opening index store: %w", err)
	}

	indexService = services.NewIndexService(indexStore)
	if err := indexService.Load(ctx); err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	subscriptionService = services.NewSubscriptionService()

	clientOpts := []eregulations.Option{}
	if settings.APIKey != "" {
		clientOpts = append(clientOpts, eregulations.WithAPIKey(settings.APIKey))
	}
	if settings.CacheEnabled {
		responseCache, err = sqlite.NewCache(dataDir)
		if err != nil {
			return fmt.Errorf("opening response cache: %w", err)
		}
		if err := responseCache.Purge(ctx); err != nil {
			logger.Warn("purging response cache: %v", err)
		}
		clientOpts = append(clientOpts, eregulations.WithCache(responseCache, settings.CacheTTL))
	}
	client := eregulations.NewClient(apiBaseURL(settings), clientOpts...)

	regulationsService = services.NewRegulationsService(client, indexService, subscriptionService)
	queryService = services.NewQueryService(indexService, regulationsService)

	authStore, err := storagefile.NewAuthStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening auth store: %w", err)
	}
	authService = services.NewAuthService(authStore)
	if err := authService.Load(ctx); err != nil {
		return fmt.Errorf("loading auth data: %w", err)
	}

	logger.Debug("services wired: api=%s data=%s index=%s", settings.APIURL, dataDir, indexDir)
	return nil
}

// apiBaseURL builds the upstream base URL. eRegulations deployments
// serve the API under /api on the portal host.
func apiBaseURL(settings domain.Settings) string {
	base := strings.TrimRight(settings.APIURL, "/")
	if strings.HasSuffix(base, "/api") {
		return base
	}
	return base + "/api"
}

// closeServices flushes and releases resources. Called when a data
// command finishes.
func closeServices(ctx context.Context) {
	if indexService != nil {
		if err := indexService.Close(ctx); err != nil {
			logger.Warn("flushing index: %v", err)
		}
	}
	if responseCache != nil {
		if err := responseCache.Close(); err != nil {
			logger.Warn("closing response cache: %v", err)
		}
	}
}
