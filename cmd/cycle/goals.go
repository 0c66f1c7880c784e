// ABOUTME: CLI command for listing goals with streaks and completion rates.
// ABOUTME: Shows active goals by default, archived with a flag.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var goalsArchived bool

var goalsCmd = &cobra.Command{
	Use:     "goals",
	Aliases: []string{"g"},
	Short:   "List goals",
	Long: `List goals with their current streak and 30-day completion rate.

Each line shows: ID  STREAK  RATE  TITLE  (last log date)

The streak counts consecutive logged days, tolerating a single missed
day. The rate is the share of metric checkmarks hit over the last 30
days.

EXAMPLES:

  cycle goals               # Active goals
  cycle goals --archived    # Include archived goals`,
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := db.ListGoals(goalsArchived)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}

		if len(goals) == 0 {
			fmt.Println("No goals found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, g := range goals {
			streak, err := db.Streak(g.ID)
			if err != nil {
				return fmt.Errorf("failed to compute streak: %w", err)
			}
			rate, err := db.CompletionRate(g.ID, 30)
			if err != nil {
				return fmt.Errorf("failed to compute completion rate: %w", err)
			}

			suffix := ""
			if g.IsArchived {
				suffix = faint.Sprint(" [archived]")
			} else if g.LastLogDate != nil {
				suffix = faint.Sprintf(" (last log %s)", *g.LastLogDate)
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprintf("%4d", g.ID),
				padRight(fmt.Sprintf("%dd", streak), 5),
				padRight(fmt.Sprintf("%d%%", rate), 4),
				truncate(g.Title, 50),
				suffix)
		}

		return nil
	},
}

func init() {
	goalsCmd.Flags().BoolVarP(&goalsArchived, "archived", "a", false, "include archived goals")
	rootCmd.AddCommand(goalsCmd)
}
