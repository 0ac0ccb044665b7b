// ABOUTME: App setting operations for the mutation layer.
// ABOUTME: Settings upsert by key and resurrect tombstoned keys in place.
package db

import (
	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/store"
)

// GetSetting returns the live setting for key, or nil when the key is
// unset or tombstoned.
func (s *Store) GetSetting(key string) (*models.AppSetting, error) {
	var out *models.AppSetting
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.Eq(AppSettings, "key", key)
		if err != nil {
			return err
		}
		live, err := decodeLive(raws, settingMeta)
		if err != nil {
			return err
		}
		if len(live) > 0 {
			out = &live[0]
		}
		return nil
	})
	return out, err
}

// GetAllSettings returns every live setting.
func (s *Store) GetAllSettings() ([]models.AppSetting, error) {
	var out []models.AppSetting
	err := s.db.View(func(tx *store.Tx) error {
		raws, err := tx.All(AppSettings)
		if err != nil {
			return err
		}
		out, err = decodeLive(raws, settingMeta)
		return err
	})
	return out, err
}

// SetSetting writes a setting value. An existing row for the key is
// mutated in place; a tombstoned row is resurrected rather than given a
// new id. Returns the record id.
func (s *Store) SetSetting(key, value string) (string, error) {
	ts := s.nowISO()
	var id string
	err := s.db.Update(func(tx *store.Tx) error {
		raws, err := tx.Eq(AppSettings, "key", key)
		if err != nil {
			return err
		}
		if len(raws) > 0 {
			current, err := decode[models.AppSetting](raws[0])
			if err != nil {
				return err
			}
			current.Touch(ts)
			current.Value = value
			current.DeletedAt = nil
			id = current.ID
			return putRecord(tx, AppSettings, current.ID, current)
		}

		setting := models.AppSetting{
			SyncMeta: models.NewSyncMeta(ts),
			Key:      key,
			Value:    value,
		}
		id = setting.ID
		return insertRecord(tx, AppSettings, setting.ID, setting)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteSetting tombstones the live row for key. Missing or already
// tombstoned keys are a no-op.
func (s *Store) DeleteSetting(key string) error {
	ts := s.nowISO()
	return s.db.Update(func(tx *store.Tx) error {
		raws, err := tx.Eq(AppSettings, "key", key)
		if err != nil {
			return err
		}
		live, err := decodeLive(raws, settingMeta)
		if err != nil {
			return err
		}
		if len(live) == 0 {
			return nil
		}
		setting := live[0]
		setting.Touch(ts)
		setting.DeletedAt = &ts
		return putRecord(tx, AppSettings, setting.ID, setting)
	})
}
