// ABOUTME: Tests for readiness and weight log operations.
// ABOUTME: Validates upsert-by-date and ordering of range and full reads.
package db

import (
	"testing"
)

func TestSaveReadinessLogUpsertsByDate(t *testing.T) {
	s := setupTestStore(t)

	first, err := s.SaveReadinessLog(SaveReadinessInput{
		Date: "2026-01-05", SleepHours: 7.5, SleepQuality: 4, Stress: 2, Pain: 1, ReadinessScore: 80,
	})
	if err != nil {
		t.Fatalf("SaveReadinessLog failed: %v", err)
	}

	second, err := s.SaveReadinessLog(SaveReadinessInput{
		Date: "2026-01-05", SleepHours: 6.0, SleepQuality: 3, Stress: 3, Pain: 1, ReadinessScore: 60,
	})
	if err != nil {
		t.Fatalf("second SaveReadinessLog failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected same-date save to reuse id: %s vs %s", first, second)
	}

	logs, err := s.GetAllReadinessLogs()
	if err != nil {
		t.Fatalf("GetAllReadinessLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log after upsert, got %d", len(logs))
	}
	if logs[0].Version != 2 {
		t.Errorf("expected version 2 after update, got %d", logs[0].Version)
	}
	if logs[0].SleepHours != 6.0 || logs[0].ReadinessScore != 60 {
		t.Errorf("expected updated values, got %+v", logs[0])
	}
}

func TestGetLatestReadinessLog(t *testing.T) {
	s := setupTestStore(t)

	latest, err := s.GetLatestReadinessLog()
	if err != nil {
		t.Fatalf("GetLatestReadinessLog failed: %v", err)
	}
	if latest != nil {
		t.Fatal("expected nil on empty store")
	}

	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-03", ReadinessScore: 70})
	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-07", ReadinessScore: 85})
	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-05", ReadinessScore: 60})

	latest, err = s.GetLatestReadinessLog()
	if err != nil {
		t.Fatalf("GetLatestReadinessLog failed: %v", err)
	}
	if latest == nil || latest.Date != "2026-01-07" {
		t.Fatalf("expected the 2026-01-07 log, got %+v", latest)
	}
}

func TestReadinessLogOrdering(t *testing.T) {
	s := setupTestStore(t)

	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-05"})
	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-01"})
	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-03"})

	// Range reads come back newest first.
	ranged, err := s.GetReadinessLogsByDateRange("2026-01-01", "2026-01-05")
	if err != nil {
		t.Fatalf("GetReadinessLogsByDateRange failed: %v", err)
	}
	if len(ranged) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(ranged))
	}
	if ranged[0].Date != "2026-01-05" || ranged[2].Date != "2026-01-01" {
		t.Errorf("expected descending dates, got %s..%s", ranged[0].Date, ranged[2].Date)
	}

	// Full reads come back oldest first.
	all, err := s.GetAllReadinessLogs()
	if err != nil {
		t.Fatalf("GetAllReadinessLogs failed: %v", err)
	}
	if all[0].Date != "2026-01-01" || all[2].Date != "2026-01-05" {
		t.Errorf("expected ascending dates, got %s..%s", all[0].Date, all[2].Date)
	}
}

func TestSaveWeightLogUpsertsByDate(t *testing.T) {
	s := setupTestStore(t)

	first, err := s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	if err != nil {
		t.Fatalf("SaveWeightLog failed: %v", err)
	}
	second, err := s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.1})
	if err != nil {
		t.Fatalf("second SaveWeightLog failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected same-date save to reuse id")
	}

	logs, err := s.GetWeightLogs()
	if err != nil {
		t.Fatalf("GetWeightLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].WeightKg != 82.1 || logs[0].Version != 2 {
		t.Fatalf("expected one updated log at version 2, got %+v", logs)
	}
}

func TestWeightLogOrdering(t *testing.T) {
	s := setupTestStore(t)

	s.SaveWeightLog(SaveWeightInput{Date: "2026-01-03", WeightKg: 82.0})
	s.SaveWeightLog(SaveWeightInput{Date: "2026-01-01", WeightKg: 83.0})
	s.SaveWeightLog(SaveWeightInput{Date: "2026-01-02", WeightKg: 82.5})

	ranged, err := s.GetWeightLogsByDateRange("2026-01-01", "2026-01-03")
	if err != nil {
		t.Fatalf("GetWeightLogsByDateRange failed: %v", err)
	}
	if ranged[0].Date != "2026-01-03" || ranged[2].Date != "2026-01-01" {
		t.Errorf("expected descending dates in range read")
	}

	all, err := s.GetWeightLogs()
	if err != nil {
		t.Fatalf("GetWeightLogs failed: %v", err)
	}
	if all[0].Date != "2026-01-01" || all[2].Date != "2026-01-03" {
		t.Errorf("expected ascending dates in full read")
	}
}
