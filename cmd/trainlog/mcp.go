// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/trainlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server communicates via stdin/stdout.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "trainlog": {
        "command": "trainlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_session             Record a training session with its sets
  log_readiness           Record a daily readiness check-in
  log_weight              Record a body-weight entry
  list_sessions           List sessions with sets
  delete_session          Delete a session and its sets
  list_recommendations    List recommendations by status
  resolve_recommendation  Accept or dismiss a recommendation

AVAILABLE RESOURCES:

  trainlog://summary      Latest readiness, weight, recent sessions
  trainlog://backup       Full export of all live records`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A long-lived server pushes each mutation as it happens. With
		// no sync server configured the tools still work locally.
		var scheduleSync func(string)
		if engine, _, err := syncStack(); err == nil {
			scheduleSync = engine.ScheduleSync
		}

		server, err := mcp.NewServer(trainStore, scheduleSync)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
