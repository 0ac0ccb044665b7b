// ABOUTME: AppSetting key/value model.
// ABOUTME: Keys are unique among live rows; re-setting resurrects tombstones.
package models

// Well-known setting keys.
const (
	SettingActiveSplit     = "active-split"
	SettingThemePreference = "theme-preference"
)

// AppSetting is a persisted key/value pair. The key is a natural key:
// setting an existing key mutates the row in place, and setting a
// tombstoned key clears its DeletedAt instead of allocating a new id.
type AppSetting struct {
	SyncMeta
	Key   string `json:"key"`
	Value string `json:"value"`
}
