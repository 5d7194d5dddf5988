package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/datacrafter/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve DataCrafter to AI assistants",
	Long: `Starts a Model Context Protocol server so AI assistants can read the
metrics and dashboard and submit text for analysis.

The server speaks JSON-RPC over stdio unless --addr is given, in which case it
serves the streamable HTTP transport on that address.

Examples:
  datacrafter mcp
  datacrafter mcp --addr 127.0.0.1:8081

Assistant configuration:
  {
    "mcpServers": {
      "datacrafter": {"command": "datacrafter", "args": ["mcp"]}
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if metricsService == nil {
		return errors.New("metrics service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Metrics:   metricsService,
		Dashboard: dashboardService,
		Analysis:  analysisService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if mcpAddr != "" {
		cmd.Printf("MCP server listening on http://%s\n", mcpAddr)
		return server.Serve(cmd.Context(), mcpAddr)
	}
	return server.Run(cmd.Context())
}
