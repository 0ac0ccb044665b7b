// ABOUTME: MCP tool implementations for the training log.
// ABOUTME: Provides logging and query operations over the mutation layer.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_session",
		Description: "Record a training session with its sets",
	}, s.handleLogSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_readiness",
		Description: "Record a daily readiness check-in (sleep, stress, pain)",
	}, s.handleLogReadiness)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_weight",
		Description: "Record a body-weight entry for a date",
	}, s.handleLogWeight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List training sessions with sets, optionally within a date range",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a training session and its sets",
	}, s.handleDeleteSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_recommendations",
		Description: "List recommendations, optionally filtered by status",
	}, s.handleListRecommendations)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "resolve_recommendation",
		Description: "Accept or dismiss a recommendation",
	}, s.handleResolveRecommendation)
}

// Tool input/output types

type setInput struct {
	ExerciseName  string  `json:"exercise_name" jsonschema:"Exercise name"`
	ExerciseOrder int     `json:"exercise_order" jsonschema:"Position of the exercise in the session"`
	SetOrder      int     `json:"set_order" jsonschema:"Position of the set within the exercise"`
	WeightKg      float64 `json:"weight_kg" jsonschema:"Load in kilograms"`
	Reps          int     `json:"reps" jsonschema:"Repetitions performed"`
	RPE           *int    `json:"rpe,omitempty" jsonschema:"Rating of perceived exertion (6-10)"`
	RIR           *int    `json:"rir,omitempty" jsonschema:"Reps in reserve"`
	Technique     string  `json:"technique,omitempty" jsonschema:"Intensification technique (dropset, rest-pause, superset, myo-reps)"`
}

type logSessionInput struct {
	Date         string     `json:"date" jsonschema:"Calendar date (YYYY-MM-DD)"`
	SplitType    string     `json:"split_type" jsonschema:"Training split (ppl or upper-lower)"`
	WorkoutType  string     `json:"workout_type" jsonschema:"Workout type (push, pull, leg, upper-a, upper-b, lower-a, lower-b)"`
	WorkoutLabel string     `json:"workout_label,omitempty" jsonschema:"Display label for the workout"`
	DurationMin  int        `json:"duration_min,omitempty" jsonschema:"Duration in minutes"`
	Notes        string     `json:"notes,omitempty" jsonschema:"Session notes"`
	Sets         []setInput `json:"sets,omitempty" jsonschema:"Set lines for the session"`
}

type idOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type logReadinessInput struct {
	Date           string  `json:"date" jsonschema:"Calendar date (YYYY-MM-DD)"`
	SleepHours     float64 `json:"sleep_hours" jsonschema:"Hours slept"`
	SleepQuality   int     `json:"sleep_quality" jsonschema:"Sleep quality 1-5"`
	Stress         int     `json:"stress" jsonschema:"Stress level 1-5"`
	Pain           int     `json:"pain" jsonschema:"Pain level 1-5"`
	ReadinessScore int     `json:"readiness_score" jsonschema:"Computed readiness score"`
	Notes          string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type logWeightInput struct {
	Date     string  `json:"date" jsonschema:"Calendar date (YYYY-MM-DD)"`
	WeightKg float64 `json:"weight_kg" jsonschema:"Body weight in kilograms"`
	Notes    string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type listSessionsInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Inclusive range start (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"Inclusive range end (YYYY-MM-DD)"`
}

type listSessionsOutput struct {
	Sessions []models.SessionWithSets `json:"sessions"`
}

type deleteSessionInput struct {
	ID string `json:"id" jsonschema:"Session id"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listRecommendationsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status (pending, accepted, dismissed)"`
}

type listRecommendationsOutput struct {
	Recommendations []models.Recommendation `json:"recommendations"`
}

type resolveRecommendationInput struct {
	ID     string `json:"id" jsonschema:"Recommendation id"`
	Status string `json:"status" jsonschema:"New status (accepted or dismissed)"`
}

// Tool handlers

func (s *Server) handleLogSession(ctx context.Context, req *mcp.CallToolRequest, input logSessionInput) (*mcp.CallToolResult, idOutput, error) {
	if !models.IsValidWorkoutType(input.WorkoutType) {
		return nil, idOutput{}, fmt.Errorf("unknown workout type: %s", input.WorkoutType)
	}

	sets := make([]db.SetInput, 0, len(input.Sets))
	for _, in := range input.Sets {
		set := db.SetInput{
			ExerciseName:  in.ExerciseName,
			ExerciseOrder: in.ExerciseOrder,
			SetOrder:      in.SetOrder,
			WeightKg:      in.WeightKg,
			Reps:          in.Reps,
			RPE:           in.RPE,
			RIR:           in.RIR,
		}
		if in.Technique != "" {
			technique := models.IntensificationTechnique(in.Technique)
			set.Technique = &technique
		}
		sets = append(sets, set)
	}

	id, err := s.store.SaveSessionWithSets(db.SaveSessionInput{
		Date:         input.Date,
		SplitType:    models.SplitType(input.SplitType),
		WorkoutType:  models.WorkoutType(input.WorkoutType),
		WorkoutLabel: input.WorkoutLabel,
		DurationMin:  input.DurationMin,
		Notes:        input.Notes,
		Sets:         sets,
	})
	if err != nil {
		return nil, idOutput{}, err
	}
	s.syncAfterMutation()

	return nil, idOutput{
		ID:      id,
		Message: fmt.Sprintf("Logged %s session on %s with %d sets", input.WorkoutType, input.Date, len(sets)),
	}, nil
}

func (s *Server) handleLogReadiness(ctx context.Context, req *mcp.CallToolRequest, input logReadinessInput) (*mcp.CallToolResult, idOutput, error) {
	id, err := s.store.SaveReadinessLog(db.SaveReadinessInput{
		Date:           input.Date,
		SleepHours:     input.SleepHours,
		SleepQuality:   input.SleepQuality,
		Stress:         input.Stress,
		Pain:           input.Pain,
		ReadinessScore: input.ReadinessScore,
		Notes:          input.Notes,
	})
	if err != nil {
		return nil, idOutput{}, err
	}
	s.syncAfterMutation()
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Logged readiness for %s", input.Date)}, nil
}

func (s *Server) handleLogWeight(ctx context.Context, req *mcp.CallToolRequest, input logWeightInput) (*mcp.CallToolResult, idOutput, error) {
	id, err := s.store.SaveWeightLog(db.SaveWeightInput{
		Date:     input.Date,
		WeightKg: input.WeightKg,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, idOutput{}, err
	}
	s.syncAfterMutation()
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Logged %.1f kg for %s", input.WeightKg, input.Date)}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, listSessionsOutput, error) {
	var sessions []models.SessionWithSets
	var err error
	if input.StartDate != "" && input.EndDate != "" {
		sessions, err = s.store.GetSessionsByDateRange(input.StartDate, input.EndDate)
	} else {
		sessions, err = s.store.GetAllSessionsWithSets()
	}
	if err != nil {
		return nil, listSessionsOutput{}, err
	}
	return nil, listSessionsOutput{Sessions: sessions}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input deleteSessionInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.store.SoftDeleteSession(input.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	s.syncAfterMutation()
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted session %s", input.ID)}, nil
}

func (s *Server) handleListRecommendations(ctx context.Context, req *mcp.CallToolRequest, input listRecommendationsInput) (*mcp.CallToolResult, listRecommendationsOutput, error) {
	var status *models.RecommendationStatus
	if input.Status != "" {
		if !models.IsValidRecommendationStatus(input.Status) {
			return nil, listRecommendationsOutput{}, fmt.Errorf("unknown status: %s", input.Status)
		}
		st := models.RecommendationStatus(input.Status)
		status = &st
	}
	recs, err := s.store.GetRecommendations(status)
	if err != nil {
		return nil, listRecommendationsOutput{}, err
	}
	return nil, listRecommendationsOutput{Recommendations: recs}, nil
}

func (s *Server) handleResolveRecommendation(ctx context.Context, req *mcp.CallToolRequest, input resolveRecommendationInput) (*mcp.CallToolResult, simpleOutput, error) {
	status := models.RecommendationStatus(input.Status)
	if status != models.StatusAccepted && status != models.StatusDismissed {
		return nil, simpleOutput{}, fmt.Errorf("status must be accepted or dismissed, got %s", input.Status)
	}
	if err := s.store.UpdateRecommendationStatus(input.ID, status); err != nil {
		return nil, simpleOutput{}, err
	}
	s.syncAfterMutation()
	return nil, simpleOutput{Message: fmt.Sprintf("Recommendation %s %s", input.ID, input.Status)}, nil
}
