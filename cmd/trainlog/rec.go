// ABOUTME: CLI commands for progression/deload recommendations.
// ABOUTME: Supports add with dedup, list by status, accept, and dismiss.
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
	recDate    string
	recSplit   string
	recWorkout string
	recReason  string
	recStatus  string
)

var recCmd = &cobra.Command{
	Use:     "rec",
	Aliases: []string{"recommendation"},
	Short:   "Manage recommendations",
	Long: `Manage progression and deload recommendations.

A recommendation suggests increasing load (progression) or backing off
(deload) for a workout. Adding one that matches a pending
recommendation with the same date, kind, and workout is suppressed, so
re-running an analysis never piles up duplicates.

EXAMPLES:

  trainlog rec add progression "Add 2.5kg to Bench Press" --type push --split ppl
  trainlog rec add deload "Back off 10% this week" --reason "readiness trending down"
  trainlog rec list
  trainlog rec list --status accepted
  trainlog rec accept abc12345
  trainlog rec dismiss abc12345`,
}

var recAddCmd = &cobra.Command{
	Use:   "add <kind> <message>",
	Short: "Add a recommendation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := models.RecommendationKind(args[0])
		if kind != models.RecommendationProgression && kind != models.RecommendationDeload {
			return fmt.Errorf("kind must be progression or deload, got %s", args[0])
		}

		date := recDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		input := db.CreateRecommendationInput{
			Date:    date,
			Kind:    kind,
			Message: args[1],
			Reason:  recReason,
		}
		if recSplit != "" {
			st := models.SplitType(recSplit)
			input.SplitType = &st
		}
		if recWorkout != "" {
			if !models.IsValidWorkoutType(recWorkout) {
				return fmt.Errorf("unknown workout type: %s", recWorkout)
			}
			wt := models.WorkoutType(recWorkout)
			input.WorkoutType = &wt
		}

		id, err := trainStore.AddRecommendationIfMissing(input)
		if err != nil {
			return fmt.Errorf("failed to add recommendation: %w", err)
		}
		if id == "" {
			fmt.Println("An equivalent pending recommendation already exists.")
			return nil
		}

		color.Green("✓ Added %s recommendation", kind)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(id[:8]), args[1])
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

var recListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status *models.RecommendationStatus
		if recStatus != "" {
			if !models.IsValidRecommendationStatus(recStatus) {
				return fmt.Errorf("unknown status: %s (use pending, accepted, or dismissed)", recStatus)
			}
			st := models.RecommendationStatus(recStatus)
			status = &st
		}

		recs, err := trainStore.GetRecommendations(status)
		if err != nil {
			return fmt.Errorf("failed to list recommendations: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No recommendations found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range recs {
			target := ""
			if r.WorkoutType != nil {
				target = fmt.Sprintf(" [%s]", *r.WorkoutType)
			}
			reason := ""
			if r.Reason != "" {
				reason = faint.Sprintf(" (%s)", r.Reason)
			}
			fmt.Printf("%s %s %-11s %-9s %s%s%s\n",
				faint.Sprint(r.ID[:8]), r.Date, r.Kind, r.Status, r.Message, target, reason)
		}
		return nil
	},
}

var recAcceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Accept a recommendation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trainStore.UpdateRecommendationStatus(args[0], models.StatusAccepted); err != nil {
			return fmt.Errorf("failed to accept recommendation: %w", err)
		}
		color.Green("✓ Accepted %s", args[0])
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

var recDismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a recommendation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := trainStore.UpdateRecommendationStatus(args[0], models.StatusDismissed); err != nil {
			return fmt.Errorf("failed to dismiss recommendation: %w", err)
		}
		color.Yellow("✗ Dismissed %s", args[0])
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

func init() {
	recAddCmd.Flags().StringVar(&recDate, "date", "", "date (YYYY-MM-DD, default today)")
	recAddCmd.Flags().StringVar(&recSplit, "split", "", "training split the recommendation targets")
	recAddCmd.Flags().StringVar(&recWorkout, "type", "", "workout type the recommendation targets")
	recAddCmd.Flags().StringVar(&recReason, "reason", "", "why this recommendation was made")

	recListCmd.Flags().StringVar(&recStatus, "status", "", "filter by status (pending, accepted, dismissed)")

	recCmd.AddCommand(recAddCmd)
	recCmd.AddCommand(recListCmd)
	recCmd.AddCommand(recAcceptCmd)
	recCmd.AddCommand(recDismissCmd)
	rootCmd.AddCommand(recCmd)
}
