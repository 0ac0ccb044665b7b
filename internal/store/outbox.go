// ABOUTME: Pending-change outbox and sync cursor keyspace.
// ABOUTME: Markers are written in the same transaction as the mutation.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"
)

// Pending identifies one record awaiting push to the remote store.
type Pending struct {
	Table string
	ID    string
}

func outKey(table, id string) []byte {
	return []byte("out" + sep + table + sep + id)
}

func metaKey(name string) []byte {
	return []byte("meta" + sep + name)
}

// MarkPending records that table/id has a local change not yet mirrored.
// Marking an already-pending record is a no-op, so the outbox behaves as
// a set.
func (tx *Tx) MarkPending(t Table, id string) error {
	if err := tx.txn.Set(outKey(t.Name, id), nil); err != nil {
		return fmt.Errorf("mark pending %s/%s: %w", t.Name, id, err)
	}
	return nil
}

// ClearPending removes the marker for table/id, if any.
func (tx *Tx) ClearPending(table, id string) error {
	if err := tx.txn.Delete(outKey(table, id)); err != nil {
		return fmt.Errorf("clear pending %s/%s: %w", table, id, err)
	}
	return nil
}

// PendingList returns every outstanding marker.
func (tx *Tx) PendingList() ([]Pending, error) {
	prefix := []byte("out" + sep)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var out []Pending
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		rest := string(it.Item().Key()[len(prefix):])
		table, id, ok := strings.Cut(rest, sep)
		if !ok {
			return nil, fmt.Errorf("malformed outbox key %q", rest)
		}
		out = append(out, Pending{Table: table, ID: id})
	}
	return out, nil
}

// PendingCount returns the number of outstanding markers.
func (tx *Tx) PendingCount() (int, error) {
	list, err := tx.PendingList()
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// GetMeta reads a store-level metadata value such as the pull cursor.
// Returns "" when the key has never been set.
func (tx *Tx) GetMeta(name string) (string, error) {
	item, err := tx.txn.Get(metaKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %s: %w", name, err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", fmt.Errorf("get meta %s: %w", name, err)
	}
	return string(val), nil
}

// SetMeta writes a store-level metadata value.
func (tx *Tx) SetMeta(name, value string) error {
	if err := tx.txn.Set(metaKey(name), []byte(value)); err != nil {
		return fmt.Errorf("set meta %s: %w", name, err)
	}
	return nil
}
