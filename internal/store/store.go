// ABOUTME: Badger-backed record store with explicit open/close lifecycle.
// ABOUTME: Provides atomic multi-table transactions over keyed JSON records.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// ErrNotFound is returned when a point lookup misses.
var ErrNotFound = errors.New("not found")

// ErrExists is returned by Insert when the id is already taken.
var ErrExists = errors.New("already exists")

// DB is an embedded record store. All access goes through View/Update
// transactions; a transaction that returns an error commits nothing.
type DB struct {
	bdb    *badger.DB
	path   string
	logger *log.Logger
}

// Open opens or creates the store at the given directory.
func Open(path string, logger *log.Logger) (*DB, error) {
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &DB{bdb: bdb, path: path, logger: logger.With("component", "store")}, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "trainlog")
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d.bdb != nil {
		return d.bdb.Close()
	}
	return nil
}

// Update runs fn in a read-write transaction. If fn returns an error the
// transaction aborts and none of its writes are visible.
func (d *DB) Update(fn func(tx *Tx) error) error {
	err := d.bdb.Update(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
	if err != nil {
		return fmt.Errorf("store update: %w", err)
	}
	return nil
}

// View runs fn in a read-only transaction.
func (d *DB) View(fn func(tx *Tx) error) error {
	err := d.bdb.View(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
	if err != nil {
		return fmt.Errorf("store view: %w", err)
	}
	return nil
}
