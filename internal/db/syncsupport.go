// ABOUTME: Sync-facing operations: outbox reads, versioned apply, cursors.
// ABOUTME: Conflict resolution compares version first, then updatedAt.
package db

import (
	"errors"
	"fmt"

	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
)

// Store-level metadata keys used by the sync engine.
const (
	MetaLastSyncAt   = "lastSyncAt"
	MetaLastPulledAt = "lastPulledAt"
)

// PendingRecord is one outbox entry resolved to its current raw record.
type PendingRecord struct {
	Table string
	ID    string
	Raw   []byte
}

// supersedes reports whether a record with (version, updatedAt) a wins
// over b. Higher version wins; on a tie the later timestamp wins.
func supersedes(a, b models.SyncMeta) bool {
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	return a.UpdatedAt > b.UpdatedAt
}

// applyVersioned writes raw into t unless the stored copy has an
// equal-or-higher version (then equal-or-later updatedAt). Returns
// whether the incoming record was applied.
func applyVersioned(tx *store.Tx, t store.Table, raw []byte) (bool, error) {
	incoming, err := decode[models.SyncMeta](raw)
	if err != nil {
		return false, err
	}
	if incoming.ID == "" {
		return false, fmt.Errorf("apply %s: record has no id", t.Name)
	}

	existing, err := tx.Get(t, incoming.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		current, err := decode[models.SyncMeta](existing)
		if err != nil {
			return false, err
		}
		if !supersedes(incoming, current) {
			return false, nil
		}
	}
	if err := tx.Put(t, incoming.ID, raw); err != nil {
		return false, err
	}
	return true, nil
}

// PendingChanges returns the current outbox resolved to raw records.
// Markers whose record has vanished are skipped.
func (s *Store) PendingChanges() ([]PendingRecord, error) {
	var out []PendingRecord
	err := s.db.View(func(tx *store.Tx) error {
		pending, err := tx.PendingList()
		if err != nil {
			return err
		}
		for _, p := range pending {
			t, ok := AllTables[p.Table]
			if !ok {
				continue
			}
			raw, err := tx.Get(t, p.ID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, PendingRecord{Table: p.Table, ID: p.ID, Raw: raw})
		}
		return nil
	})
	return out, err
}

// PendingCount returns the number of local changes not yet mirrored.
func (s *Store) PendingCount() (int, error) {
	var n int
	err := s.db.View(func(tx *store.Tx) error {
		var err error
		n, err = tx.PendingCount()
		return err
	})
	return n, err
}

// ClearPending removes the markers for the given records, leaving any
// markers added after they were read untouched.
func (s *Store) ClearPending(records []PendingRecord) error {
	return s.db.Update(func(tx *store.Tx) error {
		for _, r := range records {
			if err := tx.ClearPending(r.Table, r.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyRemote applies pulled records with last-writer-wins resolution
// and advances the pull cursor, all in one transaction. Records the
// local copy wins against are counted in skipped. Remote-applied
// records are not marked pending.
func (s *Store) ApplyRemote(records []PendingRecord, cursor string) (applied, skipped int, err error) {
	err = s.db.Update(func(tx *store.Tx) error {
		for _, r := range records {
			t, ok := AllTables[r.Table]
			if !ok {
				// Unknown table: skip for forward compatibility.
				skipped++
				continue
			}
			ok, err := applyVersioned(tx, t, r.Raw)
			if err != nil {
				return err
			}
			if ok {
				applied++
			} else {
				skipped++
			}
		}
		if cursor != "" {
			return tx.SetMeta(MetaLastPulledAt, cursor)
		}
		return nil
	})
	return applied, skipped, err
}

// GetMeta reads a sync metadata value ("" when unset).
func (s *Store) GetMeta(name string) (string, error) {
	var v string
	err := s.db.View(func(tx *store.Tx) error {
		var err error
		v, err = tx.GetMeta(name)
		return err
	})
	return v, err
}

// SetMeta writes a sync metadata value.
func (s *Store) SetMeta(name, value string) error {
	return s.db.Update(func(tx *store.Tx) error {
		return tx.SetMeta(name, value)
	})
}
