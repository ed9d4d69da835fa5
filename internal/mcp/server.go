package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("trainplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("trainplan resistance-training program generator. Generate 8-week programs from a training profile, browse the exercise catalog, and inspect the split table. Generation is deterministic: the same profile always yields the same program."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateProgram, Handler: h.generateProgram},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolGetSplit, Handler: h.getSplit},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resSplitTable, Handler: h.splitTable},
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resSplitTable = mcp.NewResource(
	"trainplan://split_table",
	"Split Table",
	mcp.WithResourceDescription("Day templates for every supported training frequency and session duration"),
	mcp.WithMIMEType("application/json"),
)

var resCatalog = mcp.NewResource(
	"trainplan://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises eligible for program generation"),
	mcp.WithMIMEType("application/json"),
)
