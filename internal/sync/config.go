// ABOUTME: Sync configuration stored as JSON at the XDG config path.
// ABOUTME: Holds server URL, device ID, and remote call timeout.
package sync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Config stores sync settings.
type Config struct {
	Server         string `json:"server"`
	DeviceID       string `json:"device_id"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// ConfigDir returns the XDG config directory for trainlog.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trainlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "trainlog")
}

// ConfigPath returns the path to the sync config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "sync.json")
}

// LoadConfig loads sync config from disk, generating a device ID on
// first use.
func LoadConfig() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{DeviceID: GenerateDeviceID()}
			if err := SaveConfig(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.DeviceID == "" {
		// Config predates device identity; assign and keep it stable.
		cfg.DeviceID = GenerateDeviceID()
		if err := SaveConfig(&cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// SaveConfig persists sync config to disk.
func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath(), data, 0600)
}

// Timeout returns the configured remote call timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GenerateDeviceID creates a new unique device ID.
func GenerateDeviceID() string {
	return ulid.Make().String()
}
