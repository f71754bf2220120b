package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/patriot/pkg/activity"
	"github.com/urmzd/patriot/pkg/api/handlers"
	"github.com/urmzd/patriot/pkg/schema"
)

// Server exposes the fleet and its activities as MCP tools
type Server struct {
	mcpServer *server.MCPServer
	fleet     handlers.Fleet
	store     *activity.Store
	validator *schema.Validator
}

// NewServer creates a new MCP server for activity control
func NewServer(fleet handlers.Fleet, store *activity.Store, validator *schema.Validator) *Server {
	s := &Server{
		fleet:     fleet,
		store:     store,
		validator: validator,
	}

	s.mcpServer = server.NewMCPServer(
		"patriot",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
