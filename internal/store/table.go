// ABOUTME: Table definitions and transaction operations for the record store.
// ABOUTME: Maintains secondary index entries alongside each record write.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

// Key segments are joined with a zero byte so field values can never
// collide with the layout.
const sep = "\x00"

// Table declares a record table and the fields to maintain secondary
// indexes for. Index fields must be top-level string values in the
// record's JSON encoding; records where the field is null or absent are
// simply not indexed under it.
type Table struct {
	Name    string
	Indexes []string
}

// Tx is a single atomic transaction over the store. Operations across
// any number of tables within one Tx commit or abort together.
type Tx struct {
	txn *badger.Txn
}

func recKey(table, id string) []byte {
	return []byte("rec" + sep + table + sep + id)
}

func idxKey(table, field, value, id string) []byte {
	return []byte("idx" + sep + table + sep + field + sep + value + sep + id)
}

func idxPrefix(table, field string) []byte {
	return []byte("idx" + sep + table + sep + field + sep)
}

// indexValues extracts the declared index fields from a raw record.
func indexValues(t Table, raw []byte) (map[string]string, error) {
	if len(t.Indexes) == 0 {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record for indexing: %w", err)
	}
	values := make(map[string]string, len(t.Indexes))
	for _, field := range t.Indexes {
		rawVal, ok := fields[field]
		if !ok || bytes.Equal(rawVal, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(rawVal, &s); err != nil {
			return nil, fmt.Errorf("index field %s.%s is not a string: %w", t.Name, field, err)
		}
		values[field] = s
	}
	return values, nil
}

// Get returns the raw record for id, or ErrNotFound.
func (tx *Tx) Get(t Table, id string) ([]byte, error) {
	item, err := tx.txn.Get(recKey(t.Name, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", t.Name, id, err)
	}
	return item.ValueCopy(nil)
}

// Insert writes a new record, failing with ErrExists if the id is taken.
func (tx *Tx) Insert(t Table, id string, raw []byte) error {
	_, err := tx.txn.Get(recKey(t.Name, id))
	if err == nil {
		return fmt.Errorf("insert %s/%s: %w", t.Name, id, ErrExists)
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("insert %s/%s: %w", t.Name, id, err)
	}
	return tx.write(t, id, raw, nil)
}

// Put writes a record, replacing any existing copy and reindexing it.
func (tx *Tx) Put(t Table, id string, raw []byte) error {
	old, err := tx.Get(t, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return tx.write(t, id, raw, old)
}

func (tx *Tx) write(t Table, id string, raw, old []byte) error {
	if old != nil {
		oldValues, err := indexValues(t, old)
		if err != nil {
			return err
		}
		for field, value := range oldValues {
			if err := tx.txn.Delete(idxKey(t.Name, field, value, id)); err != nil {
				return fmt.Errorf("drop index %s.%s: %w", t.Name, field, err)
			}
		}
	}

	newValues, err := indexValues(t, raw)
	if err != nil {
		return err
	}
	for field, value := range newValues {
		if err := tx.txn.Set(idxKey(t.Name, field, value, id), nil); err != nil {
			return fmt.Errorf("write index %s.%s: %w", t.Name, field, err)
		}
	}

	if err := tx.txn.Set(recKey(t.Name, id), raw); err != nil {
		return fmt.Errorf("write %s/%s: %w", t.Name, id, err)
	}
	return nil
}

// All returns the raw records of every row in the table.
func (tx *Tx) All(t Table) ([][]byte, error) {
	prefix := []byte("rec" + sep + t.Name + sep)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var out [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		raw, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Eq returns records whose indexed field equals value. The iterator is
// pinned to the value's own key prefix, so only matching entries are
// visited.
func (tx *Tx) Eq(t Table, field, value string) ([][]byte, error) {
	prefix := []byte("idx" + sep + t.Name + sep + field + sep + value + sep)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var out [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		rest := it.Item().Key()[len(prefix):]
		if bytes.IndexByte(rest, 0) >= 0 {
			// A longer indexed value that starts with value+sep.
			continue
		}
		raw, ok, err := tx.indexedRecord(t, string(rest))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, raw)
		}
	}
	return out, nil
}

// Range returns records whose indexed field falls in [lo, hi] inclusive.
// Values compare lexicographically, which matches chronological order for
// ISO dates and the canonical timestamp layout. The iterator seeks
// straight to lo and stops at the first value past hi, so the scan is
// bounded by the requested window.
func (tx *Tx) Range(t Table, field, lo, hi string) ([][]byte, error) {
	prefix := idxPrefix(t.Name, field)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	seek := append(append([]byte(nil), prefix...), lo...)
	var out [][]byte
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		rest := it.Item().Key()[len(prefix):]
		i := bytes.LastIndexByte(rest, 0)
		if i < 0 {
			return nil, fmt.Errorf("malformed index key in %s.%s", t.Name, field)
		}
		value, id := string(rest[:i]), string(rest[i+1:])
		if value > hi {
			break
		}
		if value < lo {
			continue
		}
		raw, ok, err := tx.indexedRecord(t, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, raw)
		}
	}
	return out, nil
}

// indexedRecord resolves an index entry to its record. Stale entries
// read as absent rather than failing the scan.
func (tx *Tx) indexedRecord(t Table, id string) ([]byte, bool, error) {
	raw, err := tx.Get(t, id)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}
