package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/oraviz-inc/oraviz-engine/pkg/mcp/tools"
)

// Server wraps the mcp-go MCPServer and owns registration of the engine's
// tool groups.
type Server struct {
	mcp     *server.MCPServer
	version string
	logger  *zap.Logger
}

// ToolDeps carries the dependencies for every tool group.
type ToolDeps struct {
	Schema *tools.SchemaToolDeps
	SQL    *tools.SQLToolDeps
	Chart  *tools.ChartToolDeps
}

// NewServer creates a new MCP server instance.
func NewServer(name, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	return &Server{
		mcp:     mcpServer,
		version: version,
		logger:  logger.Named("mcp"),
	}
}

// MCP returns the underlying MCPServer for direct registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// RegisterToolGroups registers the health, schema, sql and chart tool groups.
func (s *Server) RegisterToolGroups(deps ToolDeps) {
	tools.RegisterHealthTool(s.mcp, s.version)
	tools.RegisterSchemaTools(s.mcp, deps.Schema)
	tools.RegisterSQLTools(s.mcp, deps.SQL)
	tools.RegisterChartTools(s.mcp, deps.Chart)
	s.logger.Info("registered tool groups",
		zap.Strings("groups", []string{"health", "schema", "sql", "chart"}))
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}
