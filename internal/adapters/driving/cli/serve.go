package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/eregs/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/eregs/internal/adapters/driving/mcp"
	"github.com/custodia-labs/eregs/internal/core/domain"
	"github.com/custodia-labs/eregs/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for Claude Desktop)
  eregs mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  eregs mcp serve --port 8000

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "eregulations": {
        "command": "/path/to/eregs",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = settings, then stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	logger.Section("MCP Server Startup")

	ctx := cmd.Context()
	if err := ensureServices(ctx); err != nil {
		return err
	}
	defer closeServices(ctx)

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	settings := configStore.Settings()
	if port == 0 {
		port = settings.ServerPort
	}

	ports := &mcp.Ports{
		Index:        indexService,
		Subscription: subscriptionService,
		Regulations:  regulationsService,
		Query:        queryService,
	}

	server, err := mcp.NewServer(settings.ServerName, ports)
	if err != nil {
		return err
	}

	// Pick up shards rewritten by another process while serving.
	watcher, err := file.NewWatcher(indexStore.Dir(), func(kind domain.Kind) {
		if err := indexService.Load(ctx); err != nil {
			logger.Warn("reloading index: %v", err)
			return
		}
		if kind == domain.KindProcedure {
			subscriptionService.NotifyUpdate(ctx, "eregulations://procedures", nil, "application/json")
		}
	})
	if err != nil {
		logger.Warn("watching index directory: %v", err)
	} else {
		go watcher.Run(ctx) //nolint:errcheck
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
