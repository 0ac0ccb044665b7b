// ABOUTME: End-to-end two-device sync tests over an in-memory remote.
// ABOUTME: Verifies propagation of creates, deletes, and conflict outcomes.
package sync

import (
	"context"
	"io"
	"strconv"
	stdsync "sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRemote is a shared remote store: an append-only change log with
// integer cursors, as the server would present it.
type memoryRemote struct {
	mu  stdsync.Mutex
	log []Record
}

func (m *memoryRemote) Push(ctx context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, records...)
	return nil
}

func (m *memoryRemote) Pull(ctx context.Context, since string) ([]Record, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if since != "" {
		n, err := strconv.Atoi(since)
		if err != nil {
			return nil, "", err
		}
		start = n
	}
	out := make([]Record, len(m.log)-start)
	copy(out, m.log[start:])
	return out, strconv.Itoa(len(m.log)), nil
}

type device struct {
	engine *Engine
	store  *db.Store
}

func newDevice(t *testing.T, remote Remote) *device {
	t.Helper()
	sdb, err := store.Open(t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sdb.Close() })

	trainStore := db.New(sdb)
	engine := NewEngine(EngineConfig{
		Store:    trainStore,
		Remote:   remote,
		Identity: signedIn,
		Logger:   log.New(io.Discard),
	})
	return &device{engine: engine, store: trainStore}
}

func (d *device) sync(t *testing.T) {
	t.Helper()
	d.engine.ScheduleSync("test")
	waitIdle(t, d.engine)
	st := d.engine.Status()
	require.Nil(t, st.SyncError)
}

func TestSessionPropagatesAcrossDevices(t *testing.T) {
	remote := &memoryRemote{}
	a := newDevice(t, remote)
	b := newDevice(t, remote)

	id, err := a.store.SaveSessionWithSets(db.SaveSessionInput{
		Date:        "2026-01-05",
		SplitType:   models.SplitPPL,
		WorkoutType: models.WorkoutPush,
		Sets: []db.SetInput{
			{ExerciseName: "Bench Press", WeightKg: 100, Reps: 8},
		},
	})
	require.NoError(t, err)

	a.sync(t)
	b.sync(t)

	sessions, err := b.store.GetAllSessionsWithSets()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].Session.ID)
	require.Len(t, sessions[0].Sets, 1)
	assert.Equal(t, 100.0, sessions[0].Sets[0].WeightKg)
}

func TestDeletePropagatesAcrossDevices(t *testing.T) {
	remote := &memoryRemote{}
	a := newDevice(t, remote)
	b := newDevice(t, remote)

	id, err := a.store.SaveSessionWithSets(db.SaveSessionInput{
		Date:        "2026-01-05",
		SplitType:   models.SplitPPL,
		WorkoutType: models.WorkoutPush,
		Sets: []db.SetInput{
			{ExerciseName: "Bench Press", WeightKg: 100, Reps: 8},
		},
	})
	require.NoError(t, err)
	a.sync(t)
	b.sync(t)

	// B tombstones the session; the delete travels back to A.
	require.NoError(t, b.store.SoftDeleteSession(id))
	b.sync(t)
	a.sync(t)

	sessions, err := a.store.GetAllSessionsWithSets()
	require.NoError(t, err)
	assert.Empty(t, sessions, "tombstone must propagate to the originating device")

	// The record itself survives as a tombstone, not an erasure.
	raw, err := a.store.GetSessionByID(id)
	require.NoError(t, err)
	assert.False(t, raw.Live())
}

func TestConcurrentEditsResolveLastWriterWins(t *testing.T) {
	remote := &memoryRemote{}
	a := newDevice(t, remote)
	b := newDevice(t, remote)

	// Seed the same record onto both devices.
	_, err := a.store.SaveWeightLog(db.SaveWeightInput{Date: "2026-01-05", WeightKg: 82.5})
	require.NoError(t, err)
	a.sync(t)
	b.sync(t)

	// A edits twice (version 3), B edits once (version 2), both offline.
	_, err = a.store.SaveWeightLog(db.SaveWeightInput{Date: "2026-01-05", WeightKg: 82.0})
	require.NoError(t, err)
	_, err = a.store.SaveWeightLog(db.SaveWeightInput{Date: "2026-01-05", WeightKg: 81.5})
	require.NoError(t, err)
	_, err = b.store.SaveWeightLog(db.SaveWeightInput{Date: "2026-01-05", WeightKg: 90.0})
	require.NoError(t, err)

	// B pushes first, then A; each then pulls the other's copy.
	b.sync(t)
	a.sync(t)
	b.sync(t)

	logsA, err := a.store.GetWeightLogs()
	require.NoError(t, err)
	logsB, err := b.store.GetWeightLogs()
	require.NoError(t, err)
	require.Len(t, logsA, 1)
	require.Len(t, logsB, 1)

	// The higher-version copy wins on both devices.
	assert.Equal(t, 81.5, logsA[0].WeightKg)
	assert.Equal(t, 81.5, logsB[0].WeightKg)
	assert.Equal(t, logsA[0].Version, logsB[0].Version)
}
