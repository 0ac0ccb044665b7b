// ABOUTME: Tests for MCP server and tool handlers.
// ABOUTME: Covers NewServer wiring and the logging/query tool paths.
package mcp

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/store"
)

func setupTestServer(t *testing.T, scheduleSync func(string)) *Server {
	t.Helper()
	sdb, err := store.Open(t.TempDir(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = sdb.Close() })

	server, err := NewServer(db.New(sdb), scheduleSync)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t, nil)
	if server.mcpServer == nil {
		t.Error("expected non-nil mcpServer")
	}
	if server.store == nil {
		t.Error("expected non-nil store")
	}
}

func TestHandleLogSession(t *testing.T) {
	server := setupTestServer(t, nil)
	ctx := context.Background()

	_, out, err := server.handleLogSession(ctx, nil, logSessionInput{
		Date:        "2026-01-05",
		SplitType:   "ppl",
		WorkoutType: "push",
		Sets: []setInput{
			{ExerciseName: "Bench Press", WeightKg: 100, Reps: 8},
			{ExerciseName: "Bench Press", SetOrder: 1, WeightKg: 100, Reps: 7, Technique: "dropset"},
		},
	})
	if err != nil {
		t.Fatalf("handleLogSession failed: %v", err)
	}
	if out.ID == "" {
		t.Error("expected session id in output")
	}

	_, listed, err := server.handleListSessions(ctx, nil, listSessionsInput{})
	if err != nil {
		t.Fatalf("handleListSessions failed: %v", err)
	}
	if len(listed.Sessions) != 1 || len(listed.Sessions[0].Sets) != 2 {
		t.Fatalf("expected 1 session with 2 sets, got %+v", listed.Sessions)
	}
}

func TestHandleLogSessionRejectsBadWorkoutType(t *testing.T) {
	server := setupTestServer(t, nil)

	_, _, err := server.handleLogSession(context.Background(), nil, logSessionInput{
		Date:        "2026-01-05",
		SplitType:   "ppl",
		WorkoutType: "cardio",
	})
	if err == nil {
		t.Fatal("expected error for unknown workout type")
	}
}

func TestHandleDeleteSession(t *testing.T) {
	server := setupTestServer(t, nil)
	ctx := context.Background()

	_, out, err := server.handleLogSession(ctx, nil, logSessionInput{
		Date: "2026-01-05", SplitType: "ppl", WorkoutType: "push",
	})
	if err != nil {
		t.Fatalf("handleLogSession failed: %v", err)
	}

	if _, _, err := server.handleDeleteSession(ctx, nil, deleteSessionInput{ID: out.ID}); err != nil {
		t.Fatalf("handleDeleteSession failed: %v", err)
	}

	_, listed, err := server.handleListSessions(ctx, nil, listSessionsInput{})
	if err != nil {
		t.Fatalf("handleListSessions failed: %v", err)
	}
	if len(listed.Sessions) != 0 {
		t.Errorf("expected no sessions after delete, got %d", len(listed.Sessions))
	}
}

func TestMutationToolsScheduleSync(t *testing.T) {
	var reasons []string
	server := setupTestServer(t, func(reason string) { reasons = append(reasons, reason) })
	ctx := context.Background()

	_, _, err := server.handleLogWeight(ctx, nil, logWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	if err != nil {
		t.Fatalf("handleLogWeight failed: %v", err)
	}
	if len(reasons) != 1 || reasons[0] != "mutation" {
		t.Fatalf("expected one mutation trigger, got %v", reasons)
	}

	// Reads never trigger a sync pass.
	if _, _, err := server.handleListSessions(ctx, nil, listSessionsInput{}); err != nil {
		t.Fatalf("handleListSessions failed: %v", err)
	}
	if len(reasons) != 1 {
		t.Errorf("expected no trigger from a read, got %v", reasons)
	}

	// A rejected mutation queues nothing, so it must not trigger either.
	_, _, err = server.handleLogSession(ctx, nil, logSessionInput{
		Date: "2026-01-05", SplitType: "ppl", WorkoutType: "cardio",
	})
	if err == nil {
		t.Fatal("expected error for unknown workout type")
	}
	if len(reasons) != 1 {
		t.Errorf("expected no trigger from a failed mutation, got %v", reasons)
	}
}

func TestHandleRecommendationsFlow(t *testing.T) {
	server := setupTestServer(t, nil)
	ctx := context.Background()

	_, _, err := server.handleResolveRecommendation(ctx, nil, resolveRecommendationInput{
		ID: "x", Status: "pending",
	})
	if err == nil {
		t.Error("expected error resolving to pending")
	}

	_, listed, err := server.handleListRecommendations(ctx, nil, listRecommendationsInput{Status: "bogus"})
	if err == nil {
		t.Errorf("expected error for unknown status filter, got %+v", listed)
	}
}
