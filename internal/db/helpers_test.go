// ABOUTME: Shared test helpers for mutation-layer tests.
// ABOUTME: Provides an isolated store with a deterministic advancing clock.
package db

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainlog/internal/store"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	sdb, err := store.Open(t.TempDir(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = sdb.Close() })

	s := New(sdb)

	// Deterministic clock that advances 1ms per call so successive
	// mutations always get distinct, ordered timestamps.
	var mu sync.Mutex
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
	return s
}

func intPtr(n int) *int { return &n }
