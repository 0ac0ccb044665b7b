// ABOUTME: CLI commands for daily readiness check-ins.
// ABOUTME: Saving twice for one date updates that day's entry in place.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	readinessDate    string
	readinessSleep   float64
	readinessQuality int
	readinessStress  int
	readinessPain    int
	readinessScore   int
	readinessNotes   string
	readinessStart   string
	readinessEnd     string
)

var readinessCmd = &cobra.Command{
	Use:     "readiness",
	Aliases: []string{"r"},
	Short:   "Manage daily readiness check-ins",
}

var readinessAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a readiness check-in",
	Long: `Log a daily readiness check-in.

Each date has at most one entry: logging again for the same date
updates it rather than adding a second row.

When --score is omitted it is derived from sleep quality, stress, and
pain on a 0-100 scale.

EXAMPLES:

  trainlog readiness add --sleep 7.5 --quality 4 --stress 2 --pain 1
  trainlog readiness add --date 2026-08-30 --sleep 6 --quality 2 --stress 4 --pain 2 \
    --notes "late night"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := readinessDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", date)
		}

		score := readinessScore
		if score == 0 {
			score = deriveReadinessScore(readinessQuality, readinessStress, readinessPain)
		}

		id, err := trainStore.SaveReadinessLog(db.SaveReadinessInput{
			Date:           date,
			SleepHours:     readinessSleep,
			SleepQuality:   readinessQuality,
			Stress:         readinessStress,
			Pain:           readinessPain,
			ReadinessScore: score,
			Notes:          readinessNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to save readiness log: %w", err)
		}

		color.Green("✓ Logged readiness for %s", date)
		fmt.Printf("  %s score %d\n", color.New(color.Faint).Sprint(id[:8]), score)
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

// deriveReadinessScore maps quality/stress/pain (each 1-5) onto 0-100.
// Quality pushes the score up; stress and pain pull it down.
func deriveReadinessScore(quality, stress, pain int) int {
	score := 40 + quality*12 - (stress-1)*10 - (pain-1)*10
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

var readinessListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List readiness check-ins",
	Long: `List readiness check-ins.

Without a range all entries are shown oldest first; with --start and
--end the range is shown newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var logs []models.ReadinessLog
		var err error
		if readinessStart != "" && readinessEnd != "" {
			logs, err = trainStore.GetReadinessLogsByDateRange(readinessStart, readinessEnd)
		} else {
			logs, err = trainStore.GetAllReadinessLogs()
		}
		if err != nil {
			return fmt.Errorf("failed to list readiness logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No readiness logs found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, l := range logs {
			notes := ""
			if l.Notes != "" {
				notes = faint.Sprintf(" (%s)", l.Notes)
			}
			fmt.Printf("%s %s score %-3d sleep %.1fh q%d stress %d pain %d%s\n",
				faint.Sprint(l.ID[:8]), l.Date, l.ReadinessScore,
				l.SleepHours, l.SleepQuality, l.Stress, l.Pain, notes)
		}
		return nil
	},
}

func init() {
	readinessAddCmd.Flags().StringVar(&readinessDate, "date", "", "date (YYYY-MM-DD, default today)")
	readinessAddCmd.Flags().Float64Var(&readinessSleep, "sleep", 0, "hours slept")
	readinessAddCmd.Flags().IntVar(&readinessQuality, "quality", 3, "sleep quality 1-5")
	readinessAddCmd.Flags().IntVar(&readinessStress, "stress", 1, "stress level 1-5")
	readinessAddCmd.Flags().IntVar(&readinessPain, "pain", 1, "pain level 1-5")
	readinessAddCmd.Flags().IntVar(&readinessScore, "score", 0, "readiness score 0-100 (derived when omitted)")
	readinessAddCmd.Flags().StringVar(&readinessNotes, "notes", "", "optional notes")

	readinessListCmd.Flags().StringVar(&readinessStart, "start", "", "inclusive range start (YYYY-MM-DD)")
	readinessListCmd.Flags().StringVar(&readinessEnd, "end", "", "inclusive range end (YYYY-MM-DD)")

	readinessCmd.AddCommand(readinessAddCmd)
	readinessCmd.AddCommand(readinessListCmd)
	rootCmd.AddCommand(readinessCmd)
}
