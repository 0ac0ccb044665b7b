// ABOUTME: SyncMeta envelope shared by every persisted entity.
// ABOUTME: Carries id, timestamps, tombstone marker, and version counter.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the fixed-width UTC layout used for all entity
// timestamps. Fixed width means lexicographic order equals time order,
// which the sync engine relies on when versions tie.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// DateLayout is the ISO calendar date layout used for date fields.
const DateLayout = "2006-01-02"

// FormatTimestamp renders t in the canonical timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SyncMeta is the envelope every persisted entity embeds.
// Version starts at 1 and increments by exactly 1 on every mutation,
// including soft-delete. DeletedAt is nil while the record is live.
type SyncMeta struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	DeletedAt *string `json:"deletedAt"`
	Version   int     `json:"version"`
}

// NewSyncMeta creates a fresh envelope with a generated id and version 1.
func NewSyncMeta(ts string) SyncMeta {
	return SyncMeta{
		ID:        uuid.NewString(),
		CreatedAt: ts,
		UpdatedAt: ts,
		DeletedAt: nil,
		Version:   1,
	}
}

// Touch records a mutation: bumps the version and rewrites UpdatedAt.
func (m *SyncMeta) Touch(ts string) {
	m.UpdatedAt = ts
	m.Version++
}

// Live reports whether the record has not been tombstoned.
func (m *SyncMeta) Live() bool {
	return m.DeletedAt == nil
}
