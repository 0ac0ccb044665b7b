// ABOUTME: MCP resource implementations for the training log.
// ABOUTME: Provides trainlog://summary and trainlog://backup resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// trainlog://summary - Latest readiness, weight, and recent sessions
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainlog://summary",
		Name:        "Training Summary",
		Description: "Latest readiness and weight plus recent sessions and pending recommendations",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// trainlog://backup - Full export of all live records
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "trainlog://backup",
		Name:        "Full Backup",
		Description: "Complete export of sessions, logs, settings, and recommendations",
		MIMEType:    "application/json",
	}, s.handleBackupResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	readiness, err := s.store.GetLatestReadinessLog()
	if err != nil {
		return nil, fmt.Errorf("failed to get readiness: %w", err)
	}

	// Last 30 days of weight entries, most recent first
	end := time.Now().UTC().Format("2006-01-02")
	start := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	weights, err := s.store.GetWeightLogsByDateRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get weights: %w", err)
	}

	sessions, err := s.store.GetSessionsByDateRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	pending, err := s.store.GetRecommendations(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	result := map[string]interface{}{
		"generated_at":     time.Now().UTC().Format(time.RFC3339),
		"latest_readiness": readiness,
		"recent_weights":   weights,
		"recent_sessions":  sessions,
		"recommendations":  pending,
		"counts": map[string]int{
			"sessions":        len(sessions),
			"weights":         len(weights),
			"recommendations": len(pending),
		},
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "trainlog://summary",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleBackupResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	snapshot, err := s.store.GetBackupSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "trainlog://backup",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
