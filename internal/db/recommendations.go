// ABOUTME: Recommendation operations for the mutation layer.
// ABOUTME: Pending recommendations are de-duplicated by date/kind/types.
package db

import (
	"errors"
	"sort"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
)

// CreateRecommendationInput carries a new recommendation. Status
// defaults to pending when empty.
type CreateRecommendationInput struct {
	Date        string
	SplitType   *models.SplitType
	WorkoutType *models.WorkoutType
	Kind        models.RecommendationKind
	Status      models.RecommendationStatus
	Message     string
	Reason      string
}

// AddRecommendation inserts a recommendation unconditionally and returns
// its id.
func (s *Store) AddRecommendation(input CreateRecommendationInput) (string, error) {
	status := input.Status
	if status == "" {
		status = models.StatusPending
	}
	rec := models.Recommendation{
		SyncMeta:    models.NewSyncMeta(s.nowISO()),
		Date:        input.Date,
		SplitType:   input.SplitType,
		WorkoutType: input.WorkoutType,
		Kind:        input.Kind,
		Status:      status,
		Message:     input.Message,
		Reason:      input.Reason,
	}
	err := s.db.Update(func(tx *store.Tx) error {
		return insertRecord(tx, Recommendations, rec.ID, rec)
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// AddRecommendationIfMissing inserts only when no live pending
// recommendation exists for the same (date, kind, workoutType,
// splitType). Returns the new id, or "" when suppressed.
func (s *Store) AddRecommendationIfMissing(input CreateRecommendationInput) (string, error) {
	var exists bool
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.Eq(Recommendations, "date", input.Date)
		if err != nil {
			return err
		}
		recs, err := decodeLive(raws, recMeta)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if rec.Status == models.StatusPending &&
				rec.Kind == input.Kind &&
				equalPtr(rec.WorkoutType, input.WorkoutType) &&
				equalPtr(rec.SplitType, input.SplitType) {
				exists = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if exists {
		return "", nil
	}
	return s.AddRecommendation(input)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// UpdateRecommendationStatus sets the status of a recommendation.
// Missing or tombstoned ids are a no-op.
func (s *Store) UpdateRecommendationStatus(id string, status models.RecommendationStatus) error {
	ts := s.nowISO()
	return s.db.Update(func(tx *store.Tx) error {
		raw, err := tx.Get(Recommendations, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		rec, err := decode[models.Recommendation](raw)
		if err != nil {
			return err
		}
		if !rec.Live() {
			return nil
		}
		rec.Touch(ts)
		rec.Status = status
		return putRecord(tx, Recommendations, rec.ID, rec)
	})
}

// GetRecommendations returns live recommendations, optionally filtered
// by status, most recent date first.
func (s *Store) GetRecommendations(status *models.RecommendationStatus) ([]models.Recommendation, error) {
	var out []models.Recommendation
	err := s.db.View(func(tx *store.Tx) error {
		var raws [][]byte
		var err error
		if status != nil {
			raws, err = tx.Eq(Recommendations, "status", string(*status))
		} else {
			raws, err = tx.All(Recommendations)
		}
		if err != nil {
			return err
		}
		out, err = decodeLive(raws, recMeta)
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}
