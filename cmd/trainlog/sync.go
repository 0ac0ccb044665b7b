// ABOUTME: CLI commands for sync and sign-in.
// ABOUTME: Supports login, verify, logout, status, and forcing a sync pass.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainlog/internal/auth"
	"github.com/harperreed/trainlog/internal/storagecheck"
	syncpkg "github.com/harperreed/trainlog/internal/sync"
	"github.com/spf13/cobra"
)

var loginServer string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync training data across devices",
	Long: `Sync training data with a sync server.

Everything works offline; sync is optional and never blocks local
writes. Each mutation is queued locally and pushed on the next sync
pass. Conflicts between devices resolve last-writer-wins by record
version, so the most recently saved copy of a record survives.

GETTING STARTED:

  1. Request a sign-in code (sent to your email):
     trainlog sync login you@example.com --server https://sync.example.com

  2. Complete sign-in with the emailed code:
     trainlog sync verify you@example.com 123456

  3. Check status or force a pass:
     trainlog sync status
     trainlog sync now

COMMANDS:

  login     Request an emailed sign-in code
  verify    Exchange the code for a session
  logout    Sign out and stop syncing
  status    Show pending changes and last sync time
  now       Run a sync pass and wait for it to finish`,
}

// syncStack wires the auth provider and sync engine from config.
func syncStack() (*syncpkg.Engine, *auth.Provider, error) {
	cfg, err := syncpkg.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sync config: %w", err)
	}
	if cfg.Server == "" {
		return nil, nil, fmt.Errorf("no sync server configured; run 'trainlog sync login <email> --server <url>' first")
	}

	provider := auth.NewProvider(auth.Config{
		Server: cfg.Server,
		Logger: logger,
	})
	// Hold a subscription so the persisted session is loaded.
	_ = provider.Subscribe(func(auth.Snapshot) {})

	dataDir := appConfig.GetDataDir()
	engine := syncpkg.NewEngine(syncpkg.EngineConfig{
		Store:    trainStore,
		Remote:   syncpkg.NewHTTPRemote(cfg.Server, provider.Token, cfg.Timeout()),
		Identity: provider.UserID,
		Probe: func() syncpkg.ProbeResult {
			r := storagecheck.Probe(dataDir)
			return syncpkg.ProbeResult{Checked: r.Checked, Persisted: r.Persisted, IsIOS: r.IsIOS}
		},
		Logger:  logger,
		Timeout: cfg.Timeout(),
	})
	return engine, provider, nil
}

// scheduleMutationSync pushes a just-written mutation when a sync
// server is configured and a session exists. Best effort: the local
// write has already committed, so a missing config, signed-out state,
// or failed pass never fails the command.
func scheduleMutationSync(ctx context.Context) {
	engine, provider, err := syncStack()
	if err != nil {
		return
	}
	if provider.UserID() == "" {
		return
	}

	engine.ScheduleSync("mutation")
	if err := waitForSync(ctx, engine); err != nil {
		logger.Warn("background sync incomplete", "err", err)
	}
}

var syncLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Request an emailed sign-in code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := syncpkg.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load sync config: %w", err)
		}
		if loginServer != "" {
			cfg.Server = loginServer
			if err := syncpkg.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save sync config: %w", err)
			}
		}
		if cfg.Server == "" {
			return fmt.Errorf("no sync server configured; pass --server")
		}

		provider := auth.NewProvider(auth.Config{Server: cfg.Server, Logger: logger})
		if err := provider.SignIn(cmd.Context(), args[0]); err != nil {
			return err
		}

		color.Green("✓ Sign-in code sent to %s", args[0])
		fmt.Println("Complete sign-in with: trainlog sync verify", args[0], "<code>")
		return nil
	},
}

var syncVerifyCmd = &cobra.Command{
	Use:   "verify <email> <code>",
	Short: "Exchange the emailed code for a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, provider, err := syncStack()
		if err != nil {
			return err
		}
		if err := provider.CompleteSignIn(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}

		color.Green("✓ Signed in as %s", args[0])
		engine.ScheduleSync("auth")
		if err := waitForSync(cmd.Context(), engine); err != nil {
			color.Yellow("⚠ Initial sync did not complete: %v", err)
			return nil
		}
		color.Green("✓ Initial sync complete")
		return nil
	},
}

var syncLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and stop syncing",
	Long: `Sign out from the sync server.

Local data is preserved. Unsynced changes stay queued and are pushed
after the next sign-in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, provider, err := syncStack()
		if err != nil {
			return err
		}
		if err := provider.SignOut(cmd.Context()); err != nil {
			return err
		}
		color.Green("✓ Signed out")
		fmt.Println("Your local training data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, provider, err := syncStack()
		if err != nil {
			return err
		}

		snap := provider.Current()
		if snap.User == nil {
			color.Yellow("Not signed in")
			fmt.Println("\nRun 'trainlog sync login <email>' to start syncing.")
			return nil
		}

		st := engine.Status()
		color.Green("✓ Signed in as %s", snap.User.Email)
		fmt.Printf("  Pending changes: %d\n", st.PendingChanges)
		if st.LastSyncAt != nil {
			fmt.Printf("  Last sync: %s\n", *st.LastSyncAt)
		} else {
			fmt.Println("  Last sync: never")
		}
		if st.SyncError != nil {
			color.Red("  Last error: %s", *st.SyncError)
		}
		if st.StorageChecked && st.StoragePersisted != nil && !*st.StoragePersisted {
			color.Yellow("  ⚠ Storage may not be persistent on this device")
		}
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Run a sync pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, provider, err := syncStack()
		if err != nil {
			return err
		}
		if provider.UserID() == "" {
			color.Yellow("Not signed in")
			fmt.Println("\nRun 'trainlog sync login <email>' to start syncing.")
			return nil
		}

		engine.ScheduleSync("cli")
		if err := waitForSync(cmd.Context(), engine); err != nil {
			return err
		}

		st := engine.Status()
		if st.SyncError != nil {
			return fmt.Errorf("sync failed: %s", *st.SyncError)
		}
		color.Green("✓ Sync complete")
		fmt.Printf("  Pending changes: %d\n", st.PendingChanges)
		return nil
	},
}

// waitForSync polls until the in-flight pass finishes. Scheduling is
// fire-and-forget, so the CLI has to wait on status.
func waitForSync(ctx context.Context, engine *syncpkg.Engine) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if !engine.Status().IsSyncing {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return fmt.Errorf("timed out waiting for sync")
}

func init() {
	syncLoginCmd.Flags().StringVar(&loginServer, "server", "", "sync server base URL (saved to config)")

	syncCmd.AddCommand(syncLoginCmd)
	syncCmd.AddCommand(syncVerifyCmd)
	syncCmd.AddCommand(syncLogoutCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	rootCmd.AddCommand(syncCmd)
}
