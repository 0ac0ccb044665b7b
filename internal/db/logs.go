// ABOUTME: Readiness and weight log operations for the mutation layer.
// ABOUTME: Both upsert by date so each day has at most one live row.
package db

import (
	"sort"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
)

// SaveReadinessInput carries a readiness check-in for one date.
type SaveReadinessInput struct {
	Date           string
	SleepHours     float64
	SleepQuality   int
	Stress         int
	Pain           int
	ReadinessScore int
	Notes          string
}

// SaveWeightInput carries a body-weight entry for one date.
type SaveWeightInput struct {
	Date     string
	WeightKg float64
	Notes    string
}

// liveByDate finds the live record for a date, if any.
func liveByDate[T any](tx *store.Tx, t store.Table, date string, meta func(*T) *models.SyncMeta) (*T, error) {
	raws, err := tx.Eq(t, "date", date)
	if err != nil {
		return nil, err
	}
	live, err := decodeLive(raws, meta)
	if err != nil {
		return nil, err
	}
	if len(live) == 0 {
		return nil, nil
	}
	return &live[0], nil
}

// SaveReadinessLog saves a check-in, mutating the existing live row for
// the date if one exists. Returns the record id.
func (s *Store) SaveReadinessLog(input SaveReadinessInput) (string, error) {
	ts := s.nowISO()
	var id string
	err := s.db.Update(func(tx *store.Tx) error {
		current, err := liveByDate(tx, ReadinessLogs, input.Date, readinessMeta)
		if err != nil {
			return err
		}
		if current != nil {
			current.Touch(ts)
			current.SleepHours = input.SleepHours
			current.SleepQuality = input.SleepQuality
			current.Stress = input.Stress
			current.Pain = input.Pain
			current.ReadinessScore = input.ReadinessScore
			current.Notes = input.Notes
			id = current.ID
			return putRecord(tx, ReadinessLogs, current.ID, *current)
		}

		record := models.ReadinessLog{
			SyncMeta:       models.NewSyncMeta(ts),
			Date:           input.Date,
			SleepHours:     input.SleepHours,
			SleepQuality:   input.SleepQuality,
			Stress:         input.Stress,
			Pain:           input.Pain,
			ReadinessScore: input.ReadinessScore,
			Notes:          input.Notes,
		}
		id = record.ID
		return insertRecord(tx, ReadinessLogs, record.ID, record)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetLatestReadinessLog returns the live check-in with the highest date,
// or nil when none exist.
func (s *Store) GetLatestReadinessLog() (*models.ReadinessLog, error) {
	var latest *models.ReadinessLog
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.All(ReadinessLogs)
		if err != nil {
			return err
		}
		logs, err := decodeLive(raws, readinessMeta)
		if err != nil {
			return err
		}
		for i := range logs {
			if latest == nil || logs[i].Date > latest.Date {
				latest = &logs[i]
			}
		}
		return nil
	})
	return latest, err
}

// GetReadinessLogsByDateRange returns live check-ins in [start, end]
// inclusive, most recent date first.
func (s *Store) GetReadinessLogsByDateRange(start, end string) ([]models.ReadinessLog, error) {
	var out []models.ReadinessLog
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.Range(ReadinessLogs, "date", start, end)
		if err != nil {
			return err
		}
		out, err = decodeLive(raws, readinessMeta)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// GetAllReadinessLogs returns every live check-in, oldest date first.
func (s *Store) GetAllReadinessLogs() ([]models.ReadinessLog, error) {
	var out []models.ReadinessLog
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.All(ReadinessLogs)
		if err != nil {
			return err
		}
		out, err = decodeLive(raws, readinessMeta)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// SaveWeightLog saves a weight entry, mutating the existing live row for
// the date if one exists. Returns the record id.
func (s *Store) SaveWeightLog(input SaveWeightInput) (string, error) {
	ts := s.nowISO()
	var id string
	err := s.db.Update(func(tx *store.Tx) error {
		current, err := liveByDate(tx, WeightLogs, input.Date, weightMeta)
		if err != nil {
			return err
		}
		if current != nil {
			current.Touch(ts)
			current.WeightKg = input.WeightKg
			current.Notes = input.Notes
			id = current.ID
			return putRecord(tx, WeightLogs, current.ID, *current)
		}

		record := models.WeightLog{
			SyncMeta: models.NewSyncMeta(ts),
			Date:     input.Date,
			WeightKg: input.WeightKg,
			Notes:    input.Notes,
		}
		id = record.ID
		return insertRecord(tx, WeightLogs, record.ID, record)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetWeightLogsByDateRange returns live weight entries in [start, end]
// inclusive, most recent date first.
func (s *Store) GetWeightLogsByDateRange(start, end string) ([]models.WeightLog, error) {
	var out []models.WeightLog
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.Range(WeightLogs, "date", start, end)
		if err != nil {
			return err
		}
		out, err = decodeLive(raws, weightMeta)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// GetWeightLogs returns every live weight entry, oldest date first.
func (s *Store) GetWeightLogs() ([]models.WeightLog, error) {
	var out []models.WeightLog
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.All(WeightLogs)
		if err != nil {
			return err
		}
		out, err = decodeLive(raws, weightMeta)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
