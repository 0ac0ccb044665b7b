// ABOUTME: CLI commands for body-weight entries.
// ABOUTME: Saving twice for one date updates that day's entry in place.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	weightDate  string
	weightNotes string
	weightStart string
	weightEnd   string
)

var weightCmd = &cobra.Command{
	Use:     "weight",
	Aliases: []string{"w"},
	Short:   "Manage body-weight entries",
}

var weightAddCmd = &cobra.Command{
	Use:   "add <kg>",
	Short: "Log a body-weight entry",
	Long: `Log a body-weight entry in kilograms.

Each date has at most one entry: logging again for the same date
updates it rather than adding a second row.

EXAMPLES:

  trainlog weight add 82.5
  trainlog weight add 82.1 --date 2026-08-30 --notes "post travel"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}

		date := weightDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", date)
		}

		id, err := trainStore.SaveWeightLog(db.SaveWeightInput{
			Date:     date,
			WeightKg: kg,
			Notes:    weightNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to save weight log: %w", err)
		}

		color.Green("✓ Logged %.1f kg for %s", kg, date)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(id[:8]))
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

var weightListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List body-weight entries",
	Long: `List body-weight entries.

Without a range all entries are shown oldest first; with --start and
--end the range is shown newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var logs []models.WeightLog
		var err error
		if weightStart != "" && weightEnd != "" {
			logs, err = trainStore.GetWeightLogsByDateRange(weightStart, weightEnd)
		} else {
			logs, err = trainStore.GetWeightLogs()
		}
		if err != nil {
			return fmt.Errorf("failed to list weight logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No weight logs found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, l := range logs {
			notes := ""
			if l.Notes != "" {
				notes = faint.Sprintf(" (%s)", l.Notes)
			}
			fmt.Printf("%s %s %.1f kg%s\n", faint.Sprint(l.ID[:8]), l.Date, l.WeightKg, notes)
		}
		return nil
	},
}

func init() {
	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "date (YYYY-MM-DD, default today)")
	weightAddCmd.Flags().StringVar(&weightNotes, "notes", "", "optional notes")

	weightListCmd.Flags().StringVar(&weightStart, "start", "", "inclusive range start (YYYY-MM-DD)")
	weightListCmd.Flags().StringVar(&weightEnd, "end", "", "inclusive range end (YYYY-MM-DD)")

	weightCmd.AddCommand(weightAddCmd)
	weightCmd.AddCommand(weightListCmd)
	rootCmd.AddCommand(weightCmd)
}
