// ABOUTME: Sync engine: Idle/Syncing/Error state machine with coalescing.
// ABOUTME: Pushes the outbox, pulls remote deltas, applies last-writer-wins.
package sync

import (
	"context"
	"encoding/json"
	"io"
	stdsync "sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/models"
)

// DefaultTimeout bounds each remote call.
const DefaultTimeout = 15 * time.Second

// EngineConfig holds the collaborators for NewEngine.
type EngineConfig struct {
	Store    *db.Store
	Remote   Remote
	Identity func() string // current user id, or "" when signed out
	Probe    func() ProbeResult
	Logger   *log.Logger
	Timeout  time.Duration
}

// ProbeResult is the storage capability report merged into Status.
type ProbeResult struct {
	Checked   bool
	Persisted *bool
	IsIOS     bool
}

// Status is the surface consumed by the presentation layer.
type Status struct {
	LastSyncAt       *string `json:"lastSyncAt"`
	SyncError        *string `json:"syncError"`
	PendingChanges   int     `json:"pendingChanges"`
	IsSyncing        bool    `json:"isSyncing"`
	StorageChecked   bool    `json:"storageChecked"`
	StoragePersisted *bool   `json:"storagePersisted"`
	IsIOS            bool    `json:"isIOS"`
}

// Engine reconciles local mutations with the remote store. At most one
// sync pass is in flight; triggers during a pass set a rerun bit that is
// consumed by exactly one follow-up pass.
type Engine struct {
	store    *db.Store
	remote   Remote
	identity func() string
	probe    func() ProbeResult
	logger   *log.Logger
	timeout  time.Duration

	mu         stdsync.Mutex
	syncing    bool
	trigger    bool
	lastSyncAt string
	syncErr    string

	listeners    map[int]func(Status)
	nextListener int
}

// NewEngine creates a sync engine. The last-sync timestamp is recovered
// from the store so status survives restarts.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	probe := cfg.Probe
	if probe == nil {
		probe = func() ProbeResult { return ProbeResult{} }
	}

	e := &Engine{
		store:     cfg.Store,
		remote:    cfg.Remote,
		identity:  cfg.Identity,
		probe:     probe,
		logger:    logger.With("component", "sync"),
		timeout:   timeout,
		listeners: make(map[int]func(Status)),
	}
	e.lastSyncAt, _ = cfg.Store.GetMeta(db.MetaLastSyncAt)
	return e
}

// ScheduleSync requests a sync pass. Fire-and-forget: callers never
// await the outcome; observe Status instead. Without an authenticated
// identity the engine stays inert.
func (e *Engine) ScheduleSync(reason string) {
	if e.identity() == "" {
		e.logger.Debug("sync skipped, signed out", "reason", reason)
		return
	}

	e.mu.Lock()
	e.trigger = true
	if e.syncing {
		e.mu.Unlock()
		e.logger.Debug("sync coalesced into in-flight pass", "reason", reason)
		return
	}
	e.syncing = true
	e.mu.Unlock()

	e.logger.Debug("sync scheduled", "reason", reason)
	// Listeners see the Syncing state before the pass starts.
	e.notify()
	go e.run()
}

// run consumes the trigger bit before each pass, so triggers that land
// before a pass starts coalesce into it, and a trigger that lands during
// a pass buys exactly one more.
func (e *Engine) run() {
	for {
		e.mu.Lock()
		if !e.trigger {
			e.syncing = false
			e.mu.Unlock()
			e.notify()
			return
		}
		e.trigger = false
		e.mu.Unlock()

		err := e.syncOnce()

		e.mu.Lock()
		if err != nil {
			e.syncErr = err.Error()
		} else {
			e.syncErr = ""
			e.lastSyncAt = models.FormatTimestamp(time.Now())
			_ = e.store.SetMeta(db.MetaLastSyncAt, e.lastSyncAt)
		}
		e.mu.Unlock()
		e.notify()
	}
}

// syncOnce performs one push+pull round trip. Local data is never rolled
// back on failure; the outbox keeps its markers until a push succeeds.
func (e *Engine) syncOnce() error {
	if e.identity() == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	pending, err := e.store.PendingChanges()
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		records := make([]Record, 0, len(pending))
		for _, p := range pending {
			var meta models.SyncMeta
			if err := json.Unmarshal(p.Raw, &meta); err != nil {
				return err
			}
			records = append(records, Record{
				Table:     p.Table,
				ID:        p.ID,
				Version:   meta.Version,
				UpdatedAt: meta.UpdatedAt,
				DeletedAt: meta.DeletedAt,
				Payload:   json.RawMessage(p.Raw),
			})
		}
		if err := e.remote.Push(ctx, records); err != nil {
			e.logger.Error("push failed", "err", err, "records", len(records))
			return err
		}
		if err := e.store.ClearPending(pending); err != nil {
			return err
		}
		e.logger.Info("pushed local changes", "records", len(records))
	}

	since, err := e.store.GetMeta(db.MetaLastPulledAt)
	if err != nil {
		return err
	}
	pulled, cursor, err := e.remote.Pull(ctx, since)
	if err != nil {
		e.logger.Error("pull failed", "err", err)
		return err
	}
	if len(pulled) > 0 || cursor != since {
		incoming := make([]db.PendingRecord, 0, len(pulled))
		for _, r := range pulled {
			incoming = append(incoming, db.PendingRecord{Table: r.Table, ID: r.ID, Raw: r.Payload})
		}
		applied, skipped, err := e.store.ApplyRemote(incoming, cursor)
		if err != nil {
			return err
		}
		if skipped > 0 {
			// Expected steady-state outcome, not a failure.
			e.logger.Debug("conflict skipped", "records", skipped)
		}
		e.logger.Info("pulled remote changes", "applied", applied, "skipped", skipped)
	}
	return nil
}

// Status reports the current sync state merged with the storage probe.
// Pending changes read 0 while signed out.
func (e *Engine) Status() Status {
	e.mu.Lock()
	syncing, syncErr, lastSyncAt := e.syncing, e.syncErr, e.lastSyncAt
	e.mu.Unlock()

	st := Status{IsSyncing: syncing}
	if syncErr != "" {
		st.SyncError = &syncErr
	}
	if lastSyncAt != "" {
		st.LastSyncAt = &lastSyncAt
	}
	if e.identity() != "" {
		if n, err := e.store.PendingCount(); err == nil {
			st.PendingChanges = n
		}
	}

	probe := e.probe()
	st.StorageChecked = probe.Checked
	st.StoragePersisted = probe.Persisted
	st.IsIOS = probe.IsIOS
	return st
}

// Subscribe registers a status listener. The listener receives the
// current snapshot immediately and again after every state change.
// The returned function removes the listener.
func (e *Engine) Subscribe(fn func(Status)) func() {
	e.mu.Lock()
	id := e.nextListener
	e.nextListener++
	e.listeners[id] = fn
	e.mu.Unlock()

	fn(e.Status())

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

func (e *Engine) notify() {
	st := e.Status()
	e.mu.Lock()
	fns := make([]func(Status), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
