// ABOUTME: Storage capability probe for the data directory.
// ABOUTME: Informs user-facing warnings only, never core logic.
package storagecheck

import (
	"os"
	"path/filepath"
	"runtime"
)

// Result reports whether durable storage could be verified. Persisted is
// nil when the probe has not run.
type Result struct {
	Checked   bool
	Persisted *bool
	IsIOS     bool
}

// Probe verifies the data directory accepts writes. A failed write on a
// constrained device means data may not survive eviction, which callers
// surface as a warning.
func Probe(dataDir string) Result {
	persisted := probeWrite(dataDir)
	return Result{
		Checked:   true,
		Persisted: &persisted,
		IsIOS:     runtime.GOOS == "ios",
	}
}

func probeWrite(dataDir string) bool {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return false
	}
	marker := filepath.Join(dataDir, ".storage-probe")
	if err := os.WriteFile(marker, []byte("ok"), 0600); err != nil {
		return false
	}
	_ = os.Remove(marker)
	return true
}
