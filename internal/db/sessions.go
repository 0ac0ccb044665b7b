// ABOUTME: Session and exercise-set operations for the mutation layer.
// ABOUTME: Sessions and their sets are written and tombstoned atomically.
package db

import (
	"errors"
	"sort"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
)

// SaveSessionInput carries a new session plus its set lines.
type SaveSessionInput struct {
	Date         string
	SplitType    models.SplitType
	WorkoutType  models.WorkoutType
	WorkoutLabel string
	DurationMin  int
	Notes        string
	Sets         []SetInput
}

// SetInput is one set line within SaveSessionInput.
type SetInput struct {
	ExerciseName  string
	ExerciseOrder int
	SetOrder      int
	WeightKg      float64
	Reps          int
	RPE           *int
	RIR           *int
	Technique     *models.IntensificationTechnique
}

// sortSessionsDescending orders by date descending, most recently
// touched first on ties.
func sortSessionsDescending(sessions []models.TrainingSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date > sessions[j].Date
		}
		return sessions[i].UpdatedAt > sessions[j].UpdatedAt
	})
}

// sortSets orders by exerciseOrder ascending, then setOrder ascending.
func sortSets(sets []models.ExerciseSetLog) {
	sort.SliceStable(sets, func(i, j int) bool {
		if sets[i].ExerciseOrder != sets[j].ExerciseOrder {
			return sets[i].ExerciseOrder < sets[j].ExerciseOrder
		}
		return sets[i].SetOrder < sets[j].SetOrder
	})
}

// SaveSessionWithSets inserts a session and its sets as one atomic unit
// and returns the new session id. Date, split, and workout type are
// copied onto every set row.
func (s *Store) SaveSessionWithSets(input SaveSessionInput) (string, error) {
	ts := s.nowISO()
	session := models.TrainingSession{
		SyncMeta:     models.NewSyncMeta(ts),
		Date:         input.Date,
		SplitType:    input.SplitType,
		WorkoutType:  input.WorkoutType,
		WorkoutLabel: input.WorkoutLabel,
		DurationMin:  input.DurationMin,
		Notes:        input.Notes,
	}

	sets := make([]models.ExerciseSetLog, 0, len(input.Sets))
	for _, in := range input.Sets {
		sets = append(sets, models.ExerciseSetLog{
			SyncMeta:      models.NewSyncMeta(ts),
			SessionID:     session.ID,
			Date:          session.Date,
			SplitType:     session.SplitType,
			WorkoutType:   session.WorkoutType,
			ExerciseName:  in.ExerciseName,
			ExerciseOrder: in.ExerciseOrder,
			SetOrder:      in.SetOrder,
			WeightKg:      in.WeightKg,
			Reps:          in.Reps,
			RPE:           in.RPE,
			RIR:           in.RIR,
			Technique:     in.Technique,
		})
	}

	err := s.db.Update(func(tx *store.Tx) error {
		if err := insertRecord(tx, Sessions, session.ID, session); err != nil {
			return err
		}
		for _, set := range sets {
			if err := insertRecord(tx, ExerciseSets, set.ID, set); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

// GetSessionByID returns the raw session record regardless of tombstone
// state, or store.ErrNotFound.
func (s *Store) GetSessionByID(id string) (*models.TrainingSession, error) {
	var session models.TrainingSession
	err := s.db.View(func(tx *store.Tx) error {
		raw, err := tx.Get(Sessions, id)
		if err != nil {
			return err
		}
		session, err = decode[models.TrainingSession](raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// liveSetsBySessionIDs groups the live sets of the given sessions,
// ordered per the set ordering rule.
func liveSetsBySessionIDs(tx *store.Tx, sessionIDs []string) (map[string][]models.ExerciseSetLog, error) {
	grouped := make(map[string][]models.ExerciseSetLog, len(sessionIDs))
	for _, id := range sessionIDs {
		raws, err := tx.Eq(ExerciseSets, "sessionId", id)
		if err != nil {
			return nil, err
		}
		sets, err := decodeLive(raws, setMeta)
		if err != nil {
			return nil, err
		}
		sortSets(sets)
		grouped[id] = sets
	}
	return grouped, nil
}

func attachSets(tx *store.Tx, sessions []models.TrainingSession) ([]models.SessionWithSets, error) {
	ids := make([]string, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}
	grouped, err := liveSetsBySessionIDs(tx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.SessionWithSets, len(sessions))
	for i, session := range sessions {
		out[i] = models.SessionWithSets{Session: session, Sets: grouped[session.ID]}
	}
	return out, nil
}

// GetSessionsByDateRange returns live sessions with dates in
// [start, end] inclusive, ordered descending, with their sets.
func (s *Store) GetSessionsByDateRange(start, end string) ([]models.SessionWithSets, error) {
	var out []models.SessionWithSets
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.Range(Sessions, "date", start, end)
		if err != nil {
			return err
		}
		sessions, err := decodeLive(raws, sessionMeta)
		if err != nil {
			return err
		}
		sortSessionsDescending(sessions)
		out, err = attachSets(tx, sessions)
		return err
	})
	return out, err
}

// GetAllSessionsWithSets returns every live session with its sets,
// ordered descending.
func (s *Store) GetAllSessionsWithSets() ([]models.SessionWithSets, error) {
	var out []models.SessionWithSets
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.All(Sessions)
		if err != nil {
			return err
		}
		sessions, err := decodeLive(raws, sessionMeta)
		if err != nil {
			return err
		}
		sortSessionsDescending(sessions)
		out, err = attachSets(tx, sessions)
		return err
	})
	return out, err
}

// GetLastSessionByWorkoutType returns the most recent live session of
// the given workout and split type with its sets, or nil.
func (s *Store) GetLastSessionByWorkoutType(workoutType models.WorkoutType, splitType models.SplitType) (*models.SessionWithSets, error) {
	recent, err := s.GetRecentSessionsByWorkoutType(workoutType, splitType, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}
	return &recent[0], nil
}

// GetRecentSessionsByWorkoutType returns the most recent limit live
// sessions matching both fields, with their sets.
func (s *Store) GetRecentSessionsByWorkoutType(workoutType models.WorkoutType, splitType models.SplitType, limit int) ([]models.SessionWithSets, error) {
	var out []models.SessionWithSets
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.Eq(Sessions, "workoutType", string(workoutType))
		if err != nil {
			return err
		}
		sessions, err := decodeLive(raws, sessionMeta)
		if err != nil {
			return err
		}
		matched := sessions[:0]
		for _, session := range sessions {
			if session.SplitType == splitType {
				matched = append(matched, session)
			}
		}
		sortSessionsDescending(matched)
		if limit > 0 && len(matched) > limit {
			matched = matched[:limit]
		}
		out, err = attachSets(tx, matched)
		return err
	})
	return out, err
}

// SoftDeleteSession tombstones a session and every live set under it
// with one shared deletion timestamp, as one transaction. Missing or
// already-tombstoned sessions are a no-op.
func (s *Store) SoftDeleteSession(id string) error {
	deletedAt := s.nowISO()
	return s.db.Update(func(tx *store.Tx) error {
		raw, err := tx.Get(Sessions, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		session, err := decode[models.TrainingSession](raw)
		if err != nil {
			return err
		}
		if !session.Live() {
			return nil
		}

		session.Touch(deletedAt)
		session.DeletedAt = &deletedAt
		if err := putRecord(tx, Sessions, session.ID, session); err != nil {
			return err
		}

		setRaws, err := tx.Eq(ExerciseSets, "sessionId", id)
		if err != nil {
			return err
		}
		sets, err := decodeLive(setRaws, setMeta)
		if err != nil {
			return err
		}
		for _, set := range sets {
			set.Touch(deletedAt)
			set.DeletedAt = &deletedAt
			if err := putRecord(tx, ExerciseSets, set.ID, set); err != nil {
				return err
			}
		}
		return nil
	})
}
