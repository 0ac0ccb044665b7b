// ABOUTME: CLI commands for training sessions.
// ABOUTME: Handles add with set parsing, list, last, and delete.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainlog/internal/db"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionDate     string
	sessionSplit    string
	sessionLabel    string
	sessionDuration int
	sessionNotes    string
	sessionSets     []string
	sessionStart    string
	sessionEnd      string
	lastSplit       string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage training sessions",
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <workout-type>",
	Short: "Log a training session",
	Long: `Log a training session with its sets.

Workout types: push, pull, leg (ppl split)
               upper-a, upper-b, lower-a, lower-b (upper-lower split)

SET FORMAT:

  Each --set flag is one set: "EXERCISE:WEIGHTxREPS[:rpe=N][:rir=N][:tech=NAME]"

  Weight is in kilograms. Consecutive sets of the same exercise are
  grouped; set order within an exercise follows flag order.

EXAMPLES:

  trainlog session add push --split ppl \
    --set "Bench Press:100x8:rpe=8" \
    --set "Bench Press:100x7:rpe=9" \
    --set "Overhead Press:60x10"

  trainlog session add upper-a --split upper-lower --date 2026-08-30 \
    --duration 55 --notes "felt strong" \
    --set "Row:80x12:tech=myo-reps"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutType := args[0]
		if !models.IsValidWorkoutType(workoutType) {
			return fmt.Errorf("unknown workout type: %s\nValid types: push, pull, leg, upper-a, upper-b, lower-a, lower-b", workoutType)
		}

		date := sessionDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", date)
		}

		sets, err := parseSets(sessionSets)
		if err != nil {
			return err
		}

		id, err := trainStore.SaveSessionWithSets(db.SaveSessionInput{
			Date:         date,
			SplitType:    models.SplitType(sessionSplit),
			WorkoutType:  models.WorkoutType(workoutType),
			WorkoutLabel: sessionLabel,
			DurationMin:  sessionDuration,
			Notes:        sessionNotes,
			Sets:         sets,
		})
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		color.Green("✓ Logged %s session", workoutType)
		fmt.Printf("  %s %s, %d sets\n",
			color.New(color.Faint).Sprint(id[:8]), date, len(sets))
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

// parseSets converts "EXERCISE:WEIGHTxREPS[:rpe=N][:rir=N][:tech=NAME]"
// flags into set inputs, grouping consecutive sets of the same exercise.
func parseSets(specs []string) ([]db.SetInput, error) {
	sets := make([]db.SetInput, 0, len(specs))
	exerciseOrder := -1
	setOrder := 0
	prevName := ""

	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid set %q (want EXERCISE:WEIGHTxREPS)", spec)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("invalid set %q: empty exercise name", spec)
		}

		load := strings.SplitN(parts[1], "x", 2)
		if len(load) != 2 {
			return nil, fmt.Errorf("invalid set %q (want WEIGHTxREPS, e.g. 100x8)", spec)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(load[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in %q", spec)
		}
		reps, err := strconv.Atoi(strings.TrimSpace(load[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid reps in %q", spec)
		}

		if name != prevName {
			exerciseOrder++
			setOrder = 0
			prevName = name
		}

		set := db.SetInput{
			ExerciseName:  name,
			ExerciseOrder: exerciseOrder,
			SetOrder:      setOrder,
			WeightKg:      weight,
			Reps:          reps,
		}
		setOrder++

		for _, opt := range parts[2:] {
			kv := strings.SplitN(opt, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid option %q in %q", opt, spec)
			}
			switch kv[0] {
			case "rpe":
				n, err := strconv.Atoi(kv[1])
				if err != nil {
					return nil, fmt.Errorf("invalid rpe in %q", spec)
				}
				set.RPE = &n
			case "rir":
				n, err := strconv.Atoi(kv[1])
				if err != nil {
					return nil, fmt.Errorf("invalid rir in %q", spec)
				}
				set.RIR = &n
			case "tech":
				t := models.IntensificationTechnique(kv[1])
				set.Technique = &t
			default:
				return nil, fmt.Errorf("unknown option %q in %q", kv[0], spec)
			}
		}

		sets = append(sets, set)
	}
	return sets, nil
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List training sessions",
	Long: `List training sessions with their sets, newest first.

EXAMPLES:

  trainlog session list
  trainlog session list --start 2026-08-01 --end 2026-08-31`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sessions []models.SessionWithSets
		var err error
		if sessionStart != "" && sessionEnd != "" {
			sessions, err = trainStore.GetSessionsByDateRange(sessionStart, sessionEnd)
		} else {
			sessions, err = trainStore.GetAllSessionsWithSets()
		}
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		for _, sw := range sessions {
			printSession(sw)
		}
		return nil
	},
}

var sessionLastCmd = &cobra.Command{
	Use:   "last <workout-type>",
	Short: "Show the most recent session of a workout type",
	Long: `Show the most recent session of a workout type within a split.

EXAMPLES:

  trainlog session last push --split ppl
  trainlog session last upper-a --split upper-lower`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutType := args[0]
		if !models.IsValidWorkoutType(workoutType) {
			return fmt.Errorf("unknown workout type: %s", workoutType)
		}

		sw, err := trainStore.GetLastSessionByWorkoutType(
			models.WorkoutType(workoutType), models.SplitType(lastSplit))
		if err != nil {
			return fmt.Errorf("failed to look up session: %w", err)
		}
		if sw == nil {
			fmt.Printf("No %s sessions found.\n", workoutType)
			return nil
		}

		printSession(*sw)
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a training session",
	Long: `Delete a training session and all of its sets.

The session is tombstoned, not erased, so the delete propagates to
other devices on the next sync. Deleting an already-deleted or unknown
session is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if err := trainStore.SoftDeleteSession(id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Yellow("✗ Deleted session %s", id)
		scheduleMutationSync(cmd.Context())
		return nil
	},
}

func printSession(sw models.SessionWithSets) {
	faint := color.New(color.Faint)
	s := sw.Session
	label := s.WorkoutLabel
	if label == "" {
		label = string(s.WorkoutType)
	}
	duration := ""
	if s.DurationMin > 0 {
		duration = faint.Sprintf(" %dmin", s.DurationMin)
	}
	fmt.Printf("%s %s %s [%s]%s\n",
		faint.Sprint(s.ID[:8]), s.Date, label, s.SplitType, duration)
	for _, set := range sw.Sets {
		extra := ""
		if set.RPE != nil {
			extra += fmt.Sprintf(" @rpe%d", *set.RPE)
		}
		if set.RIR != nil {
			extra += fmt.Sprintf(" @rir%d", *set.RIR)
		}
		if set.Technique != nil {
			extra += faint.Sprintf(" (%s)", *set.Technique)
		}
		fmt.Printf("    %s %.1fkg x %d%s\n", set.ExerciseName, set.WeightKg, set.Reps, extra)
	}
	if s.Notes != "" {
		fmt.Printf("    %s\n", faint.Sprint(s.Notes))
	}
}

func init() {
	sessionAddCmd.Flags().StringVar(&sessionDate, "date", "", "session date (YYYY-MM-DD, default today)")
	sessionAddCmd.Flags().StringVar(&sessionSplit, "split", "ppl", "training split (ppl or upper-lower)")
	sessionAddCmd.Flags().StringVar(&sessionLabel, "label", "", "display label for the workout")
	sessionAddCmd.Flags().IntVar(&sessionDuration, "duration", 0, "duration in minutes")
	sessionAddCmd.Flags().StringVar(&sessionNotes, "notes", "", "session notes")
	sessionAddCmd.Flags().StringArrayVar(&sessionSets, "set", nil, "set line (EXERCISE:WEIGHTxREPS[:rpe=N][:rir=N][:tech=NAME])")

	sessionListCmd.Flags().StringVar(&sessionStart, "start", "", "inclusive range start (YYYY-MM-DD)")
	sessionListCmd.Flags().StringVar(&sessionEnd, "end", "", "inclusive range end (YYYY-MM-DD)")

	sessionLastCmd.Flags().StringVar(&lastSplit, "split", "ppl", "training split (ppl or upper-lower)")

	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionLastCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
