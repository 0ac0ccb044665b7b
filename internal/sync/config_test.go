// ABOUTME: Tests for sync configuration loading and device identity.
// ABOUTME: Verifies first-use device ID generation and persistence.
package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigGeneratesDeviceID(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DeviceID, "first load assigns a device id")

	// The generated id is persisted, not re-rolled.
	again, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg.DeviceID, again.DeviceID)
}

func TestGenerateDeviceIDUnique(t *testing.T) {
	a := GenerateDeviceID()
	b := GenerateDeviceID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestConfigTimeout(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultTimeout, cfg.Timeout(), "zero config falls back to the default")

	cfg.TimeoutSeconds = 30
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{Server: "https://sync.example.com", DeviceID: "dev-1"}
	require.NoError(t, SaveConfig(cfg))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://sync.example.com", loaded.Server)
	assert.Equal(t, "dev-1", loaded.DeviceID)
}
