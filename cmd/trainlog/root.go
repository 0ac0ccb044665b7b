// ABOUTME: Root Cobra command for the trainlog CLI.
// ABOUTME: Handles store lifecycle and logging via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainlog/internal/config"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	appConfig  *config.Config
	storeDB    *store.DB
	trainStore *db.Store
	logger     *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trainlog",
	Short: "Local-first personal training log",
	Long: `Trainlog is a local-first CLI for logging strength training.

WHAT IT TRACKS:

  Sessions        workouts with per-set weight, reps, RPE/RIR, techniques
  Readiness       daily sleep, stress, and pain check-ins
  Weight          daily body-weight entries
  Recommendations progression and deload suggestions

QUICK START:

  $ trainlog session add --date 2026-08-31 --split ppl --type push \
      --set "Bench Press:100x8:rpe=8" --set "Bench Press:100x7:rpe=9"
  $ trainlog readiness add --sleep 7.5 --quality 4 --stress 2 --pain 1
  $ trainlog weight add 82.5
  $ trainlog session list                 # Recent sessions with sets

SYNC (OPTIONAL):

  All data lives on this device and every operation works offline.
  Sign in to mirror your log to a sync server; conflicts resolve
  last-writer-wins by record version.

  $ trainlog sync login you@example.com   # Request a sign-in code
  $ trainlog sync verify you@example.com 123456
  $ trainlog sync status                  # Pending changes, last sync
  $ trainlog sync now                     # Force a sync pass

MCP INTEGRATION:

  Run 'trainlog mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants.

DATA STORAGE:

  Records are stored in a local Badger database at
  ~/.local/share/trainlog (override with data_dir in config.json).
  Deletes are tombstones so they propagate across devices.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		appConfig, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = newLogger(appConfig.GetDataDir())

		storeDB, err = appConfig.OpenStore(logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		trainStore = db.New(storeDB)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if storeDB != nil {
			return storeDB.Close()
		}
		return nil
	},
}

// newLogger builds a file-backed logger so CLI output stays clean.
// Set TRAINLOG_DEBUG=1 for debug-level logging.
func newLogger(dataDir string) *log.Logger {
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "logs", "trainlog.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	l := log.New(writer)
	l.SetReportTimestamp(true)
	if os.Getenv("TRAINLOG_DEBUG") == "1" {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
