// ABOUTME: Mutation layer over the record store for training-log entities.
// ABOUTME: Owns table declarations, SyncMeta invariants, and encoding.
package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
)

// Table declarations with the secondary indexes used by equality and
// range lookups. Ordering is applied in memory after the index scan.
var (
	Sessions        = store.Table{Name: "sessions", Indexes: []string{"date", "splitType", "workoutType"}}
	ExerciseSets    = store.Table{Name: "exercise_sets", Indexes: []string{"sessionId", "date", "splitType", "workoutType", "exerciseName"}}
	ReadinessLogs   = store.Table{Name: "readiness_logs", Indexes: []string{"date"}}
	WeightLogs      = store.Table{Name: "weight_logs", Indexes: []string{"date"}}
	AppSettings     = store.Table{Name: "app_settings", Indexes: []string{"key"}}
	Recommendations = store.Table{Name: "recommendations", Indexes: []string{"date", "status", "kind", "workoutType"}}
)

// AllTables lists every entity table, keyed by wire name for sync apply.
var AllTables = map[string]store.Table{
	Sessions.Name:        Sessions,
	ExerciseSets.Name:    ExerciseSets,
	ReadinessLogs.Name:   ReadinessLogs,
	WeightLogs.Name:      WeightLogs,
	AppSettings.Name:     AppSettings,
	Recommendations.Name: Recommendations,
}

// Store is the mutation layer. All entity reads and writes go through
// it; records are never edited outside a Store method.
type Store struct {
	db  *store.DB
	now func() time.Time
}

// New creates a mutation layer over an open record store.
func New(db *store.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB exposes the underlying record store for the sync engine.
func (s *Store) DB() *store.DB {
	return s.db
}

func (s *Store) nowISO() string {
	return models.FormatTimestamp(s.now())
}

func encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return raw, nil
}

func decode[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode record: %w", err)
	}
	return v, nil
}

// decodeLive decodes raws and keeps only records that are not tombstoned.
func decodeLive[T any](raws [][]byte, meta func(*T) *models.SyncMeta) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		if meta(&v).Live() {
			out = append(out, v)
		}
	}
	return out, nil
}

func sessionMeta(s *models.TrainingSession) *models.SyncMeta { return &s.SyncMeta }
func setMeta(s *models.ExerciseSetLog) *models.SyncMeta      { return &s.SyncMeta }
func readinessMeta(r *models.ReadinessLog) *models.SyncMeta  { return &r.SyncMeta }
func weightMeta(w *models.WeightLog) *models.SyncMeta        { return &w.SyncMeta }
func settingMeta(a *models.AppSetting) *models.SyncMeta      { return &a.SyncMeta }
func recMeta(r *models.Recommendation) *models.SyncMeta      { return &r.SyncMeta }

// putRecord encodes v, writes it, and marks it pending for sync, all
// within the supplied transaction.
func putRecord(tx *store.Tx, t store.Table, id string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}
	if err := tx.Put(t, id, raw); err != nil {
		return err
	}
	return tx.MarkPending(t, id)
}

// insertRecord is putRecord for brand-new ids.
func insertRecord(tx *store.Tx, t store.Table, id string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}
	if err := tx.Insert(t, id, raw); err != nil {
		return err
	}
	return tx.MarkPending(t, id)
}
