// ABOUTME: Tests for the outbox and last-writer-wins remote apply.
// ABOUTME: Validates pending resolution, conflict skips, and the cursor.
package db

import (
	"encoding/json"
	"testing"

	"github.com/harperreed/trainlog/internal/models"
)

func TestMutationsMarkPending(t *testing.T) {
	s := setupTestStore(t)

	saveSession(t, s, "2026-01-05", models.WorkoutPush,
		SetInput{ExerciseName: "Bench Press", WeightKg: 100, Reps: 8},
	)
	s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})

	n, err := s.PendingCount()
	if err != nil {
		t.Fatalf("PendingCount failed: %v", err)
	}
	if n != 3 { // session + set + weight log
		t.Fatalf("expected 3 pending records, got %d", n)
	}

	// Re-saving the same date mutates the same record: the outbox is a
	// set, so the count stays put.
	s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.0})
	n, _ = s.PendingCount()
	if n != 3 {
		t.Errorf("expected outbox to de-duplicate, got %d", n)
	}
}

func TestPendingChangesAndClear(t *testing.T) {
	s := setupTestStore(t)

	id, err := s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	if err != nil {
		t.Fatalf("SaveWeightLog failed: %v", err)
	}

	pending, err := s.PendingChanges()
	if err != nil {
		t.Fatalf("PendingChanges failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending record, got %d", len(pending))
	}
	if pending[0].Table != WeightLogs.Name || pending[0].ID != id {
		t.Errorf("unexpected pending record: %+v", pending[0])
	}

	var log models.WeightLog
	if err := json.Unmarshal(pending[0].Raw, &log); err != nil {
		t.Fatalf("pending raw is not the record: %v", err)
	}
	if log.WeightKg != 82.5 {
		t.Errorf("pending raw holds wrong payload: %+v", log)
	}

	if err := s.ClearPending(pending); err != nil {
		t.Fatalf("ClearPending failed: %v", err)
	}
	n, _ := s.PendingCount()
	if n != 0 {
		t.Errorf("expected empty outbox after clear, got %d", n)
	}
}

func TestClearPendingKeepsLaterMarkers(t *testing.T) {
	s := setupTestStore(t)

	s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	pending, _ := s.PendingChanges()

	// A mutation lands after the outbox was read, as it would during an
	// in-flight push.
	s.SaveReadinessLog(SaveReadinessInput{Date: "2026-01-05", ReadinessScore: 70})

	if err := s.ClearPending(pending); err != nil {
		t.Fatalf("ClearPending failed: %v", err)
	}
	n, _ := s.PendingCount()
	if n != 1 {
		t.Errorf("expected the later marker to survive, got %d", n)
	}
}

func remoteWeightRecord(t *testing.T, log models.WeightLog) PendingRecord {
	t.Helper()
	raw, err := json.Marshal(log)
	if err != nil {
		t.Fatalf("marshal remote record: %v", err)
	}
	return PendingRecord{Table: WeightLogs.Name, ID: log.ID, Raw: raw}
}

func TestApplyRemoteInsertsUnknownRecords(t *testing.T) {
	s := setupTestStore(t)

	remote := models.WeightLog{
		SyncMeta: models.SyncMeta{
			ID:        "w-remote-1",
			CreatedAt: "2026-01-05T08:00:00.000000000Z",
			UpdatedAt: "2026-01-05T08:00:00.000000000Z",
			Version:   1,
		},
		Date:     "2026-01-05",
		WeightKg: 83.0,
	}

	applied, skipped, err := s.ApplyRemote([]PendingRecord{remoteWeightRecord(t, remote)}, "cursor-1")
	if err != nil {
		t.Fatalf("ApplyRemote failed: %v", err)
	}
	if applied != 1 || skipped != 0 {
		t.Fatalf("expected 1 applied, got applied=%d skipped=%d", applied, skipped)
	}

	logs, _ := s.GetWeightLogs()
	if len(logs) != 1 || logs[0].ID != "w-remote-1" {
		t.Fatalf("expected remote record in store, got %+v", logs)
	}

	// Remote-applied records are not queued for push back.
	n, _ := s.PendingCount()
	if n != 0 {
		t.Errorf("expected no pending after remote apply, got %d", n)
	}

	cursor, _ := s.GetMeta(MetaLastPulledAt)
	if cursor != "cursor-1" {
		t.Errorf("expected cursor to advance, got %q", cursor)
	}
}

func TestApplyRemoteLastWriterWins(t *testing.T) {
	s := setupTestStore(t)

	id, _ := s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	for i := 0; i < 4; i++ {
		s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5 - float64(i)})
	}
	local, _ := s.GetWeightLogs()
	if local[0].Version != 5 {
		t.Fatalf("setup: expected local version 5, got %d", local[0].Version)
	}

	// A remote copy at version 3 loses; applying it is a silent no-op.
	stale := models.WeightLog{
		SyncMeta: models.SyncMeta{
			ID:        id,
			CreatedAt: local[0].CreatedAt,
			UpdatedAt: "2026-01-09T00:00:00.000000000Z",
			Version:   3,
		},
		Date:     "2026-01-05",
		WeightKg: 99.0,
	}
	applied, skipped, err := s.ApplyRemote([]PendingRecord{remoteWeightRecord(t, stale)}, "c1")
	if err != nil {
		t.Fatalf("ApplyRemote failed: %v", err)
	}
	if applied != 0 || skipped != 1 {
		t.Fatalf("expected stale record skipped, got applied=%d skipped=%d", applied, skipped)
	}
	logs, _ := s.GetWeightLogs()
	if logs[0].WeightKg == 99.0 || logs[0].Version != 5 {
		t.Fatalf("stale remote clobbered local record: %+v", logs[0])
	}

	// A remote copy at version 7 wins, including its tombstone.
	deletedAt := "2026-01-10T00:00:00.000000000Z"
	winner := stale
	winner.Version = 7
	winner.UpdatedAt = deletedAt
	winner.DeletedAt = &deletedAt
	applied, skipped, err = s.ApplyRemote([]PendingRecord{remoteWeightRecord(t, winner)}, "c2")
	if err != nil {
		t.Fatalf("ApplyRemote failed: %v", err)
	}
	if applied != 1 || skipped != 0 {
		t.Fatalf("expected newer record applied, got applied=%d skipped=%d", applied, skipped)
	}
	logs, _ = s.GetWeightLogs()
	if len(logs) != 0 {
		t.Errorf("expected tombstone to hide record, got %+v", logs)
	}
}

func TestApplyRemoteVersionTieBreaksOnTimestamp(t *testing.T) {
	s := setupTestStore(t)

	id, _ := s.SaveWeightLog(SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	local, _ := s.GetWeightLogs()

	// Same version, later updatedAt: remote wins.
	tied := models.WeightLog{
		SyncMeta: models.SyncMeta{
			ID:        id,
			CreatedAt: local[0].CreatedAt,
			UpdatedAt: "2027-01-01T00:00:00.000000000Z",
			Version:   local[0].Version,
		},
		Date:     "2026-01-05",
		WeightKg: 84.0,
	}
	applied, _, err := s.ApplyRemote([]PendingRecord{remoteWeightRecord(t, tied)}, "")
	if err != nil {
		t.Fatalf("ApplyRemote failed: %v", err)
	}
	if applied != 1 {
		t.Fatalf("expected later-timestamp record to win on version tie")
	}
	logs, _ := s.GetWeightLogs()
	if logs[0].WeightKg != 84.0 {
		t.Errorf("expected remote value, got %+v", logs[0])
	}
}

func TestApplyRemoteUnknownTableSkipped(t *testing.T) {
	s := setupTestStore(t)

	applied, skipped, err := s.ApplyRemote([]PendingRecord{{
		Table: "future_table",
		ID:    "x",
		Raw:   []byte(`{"id":"x","version":1}`),
	}}, "c1")
	if err != nil {
		t.Fatalf("ApplyRemote failed: %v", err)
	}
	if applied != 0 || skipped != 1 {
		t.Errorf("expected unknown table to be skipped, got applied=%d skipped=%d", applied, skipped)
	}
}
