// ABOUTME: CLI command for seeding sample data.
// ABOUTME: Populates demo entries and a goal on an empty database.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data",
	Long: `Populate the database with sample entries and a demo goal.

Seeding only runs on an empty database; if entries already exist it
does nothing. Useful for trying out the web UI.

EXAMPLES:

  cycle seed
  cycle serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.SeedSampleData(); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		count, err := db.CountEntries(nil)
		if err != nil {
			return err
		}
		color.Green("✓ Database has %d entries", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
