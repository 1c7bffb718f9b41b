// Package mcp exposes the sync pipeline to MCP clients over stdio. Every
// tool is a thin wrapper around internal/service, so the MCP surface and
// the CLI behave identically.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/asteroid-belt/solvesync/internal/service"
	"github.com/asteroid-belt/solvesync/internal/telemetry"
	"github.com/asteroid-belt/solvesync/pkg/version"
)

// Server wraps the MCP server.
type Server struct {
	svc       *service.Service
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a new MCP server instance.
func NewServer(svc *service.Service, tc telemetry.Client) *Server {
	if tc == nil {
		tc = telemetry.Noop()
	}
	s := &Server{svc: svc, telemetry: tc}

	s.server = server.NewMCPServer(
		"solvesync",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.server)
}

func (s *Server) registerTools() {
	// Read-only
	s.server.AddTool(getStateTool(), s.handleGetState)

	// Configuration
	s.server.AddTool(saveSettingsTool(), s.handleSaveSettings)
	s.server.AddTool(saveTokenTool(), s.handleSaveToken)
	s.server.AddTool(clearTokenTool(), s.handleClearToken)

	// Pipeline
	s.server.AddTool(submitTool(), s.handleSubmit)
	s.server.AddTool(forceSyncTool(), s.handleForceSync)
	s.server.AddTool(forceProgressTool(), s.handleForceProgress)
	s.server.AddTool(clearLogsTool(), s.handleClearLogs)

	// Catalog
	s.server.AddTool(mergeCatalogTool(), s.handleMergeCatalog)
	s.server.AddTool(resetMappingTool(), s.handleResetMapping)
}

func (s *Server) registerResources() {
	s.server.AddResource(
		mcp.NewResource(stateURI, "Sync state",
			mcp.WithResourceDescription("Settings, queue, counters and recent activity. Never includes the token."),
			mcp.WithMIMEType("application/json"),
		),
		s.handleStateResource,
	)
	s.server.AddResource(
		mcp.NewResource(digestURI, "Progress digest",
			mcp.WithResourceDescription("Markdown summary of solved problems, built from local state"),
			mcp.WithMIMEType("text/markdown"),
		),
		s.handleDigestResource,
	)
	s.server.AddResource(
		mcp.NewResource(snapshotURI, "Progress snapshot",
			mcp.WithResourceDescription("JSON snapshot of solved problems, built from local state"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleSnapshotResource,
	)
}
