package main

import (
	"context"
	"os"

	trainmcp "github.com/claude/trainplan/internal/mcp"
	"github.com/claude/trainplan/internal/program"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var (
	mcpURL    string
	mcpAPIKey string
)

// mcpCmd serves MCP over stdio
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	Long: `Serve the trainplan MCP tools over stdio for a local MCP host.

By default programs are generated in-process from the selected catalog.
With --url the tools call a remote trainplan server instead (for example
one reachable over Tailscale); the API key is read from --api-key or
TRAINPLAN_API_KEY.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpURL, "url", "", "Base URL of a remote trainplan server")
	mcpCmd.Flags().StringVar(&mcpAPIKey, "api-key", "", "API key for the remote server")
}

func runMCP(cmd *cobra.Command, args []string) error {
	var ds trainmcp.DataSource

	if mcpURL != "" {
		key := mcpAPIKey
		if key == "" {
			key = os.Getenv("TRAINPLAN_API_KEY")
		}
		ds = trainmcp.NewHTTPClient(mcpURL, key)
		logger.Info("mcp remote mode", "url", mcpURL)
	} else {
		b, err := openBackend(context.Background())
		if err != nil {
			return err
		}
		defer b.close()

		// A nil *storage.DB must not become a non-nil ProgramReader.
		var programs trainmcp.ProgramReader
		if b.db != nil {
			programs = b.db
		}
		ds = trainmcp.NewLocal(program.NewGenerator(b.store, logger), b.store, programs)
	}

	return server.ServeStdio(trainmcp.New(ds, Version, logger))
}
