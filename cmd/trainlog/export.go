// ABOUTME: CLI commands for exporting and restoring training data.
// ABOUTME: Supports JSON and YAML export and versioned restore from backup.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export all live training data.

FORMATS:

  json   Full JSON export (suitable for backup/restore)
  yaml   YAML export (human-readable)

Tombstoned records are not exported; a backup restored elsewhere will
not resurrect deleted data.

EXAMPLES:

  trainlog export json                  # Export all data as JSON
  trainlog export json -o backup.json   # Save to file
  trainlog export yaml                  # Export as YAML`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		snapshot, err := trainStore.GetBackupSnapshot()
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch format {
		case "json":
			data, err = json.MarshalIndent(snapshot, "", "  ")
		case "yaml":
			data, err = yaml.Marshal(snapshot)
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore training data from a JSON backup",
	Long: `Restore training data from a previously exported JSON backup.

Each record in the backup is applied with the same version rule sync
uses: a record only replaces the local copy when its version (then its
last-modified timestamp) is newer. Restoring an old backup never
clobbers records you changed since it was taken.

EXAMPLES:

  trainlog restore backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var snapshot db.BackupSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("invalid backup file: %w", err)
		}

		if err := trainStore.Restore(&snapshot); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		color.Green("✓ Restored from %s", args[0])
		fmt.Printf("  %d sessions, %d readiness logs, %d weight logs, %d settings, %d recommendations\n",
			len(snapshot.Sessions), len(snapshot.ReadinessLogs), len(snapshot.WeightLogs),
			len(snapshot.Settings), len(snapshot.Recommendations))

		// Applied records were marked pending, push them out.
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(restoreCmd)
}
