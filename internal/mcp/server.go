// ABOUTME: MCP server setup for the training log.
// ABOUTME: Wraps the MCP server with a mutation-layer store connection.
package mcp

import (
	"context"

	"github.com/harperreed/trainlog/internal/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with store access.
type Server struct {
	mcpServer    *mcp.Server
	store        *db.Store
	scheduleSync func(reason string)
}

// NewServer creates a new MCP server over the given store. scheduleSync
// is invoked after every successful mutation so queued changes push
// without waiting for an explicit sync; nil disables it.
func NewServer(store *db.Store, scheduleSync func(reason string)) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "trainlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer:    mcpServer,
		store:        store,
		scheduleSync: scheduleSync,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

func (s *Server) syncAfterMutation() {
	if s.scheduleSync != nil {
		s.scheduleSync("mutation")
	}
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
