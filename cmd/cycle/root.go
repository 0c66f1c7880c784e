// ABOUTME: Root Cobra command for cycle CLI.
// ABOUTME: Handles config loading and database lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/cycle/internal/config"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	db  *storage.DB
)

var rootCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Reflective journaling and goal tracker",
	Long: `Cycle is a local-first tool for reflective journaling and goal tracking.

THE LEARNING CYCLE:

  Each journal entry walks four steps:

    1. Experience       what happened, concretely
    2. Reflection       how it felt, what stood out
    3. Abstraction      the lesson or principle behind it
    4. Experimentation  a specific thing to try next

  Entries start as drafts and can be marked complete once all four
  steps are filled in (or the entry opts out of an experiment).

GOALS:

  Up to 3 goals can be active at once. Each goal has daily habit
  metrics you check off, with a streak that tolerates a single missed
  day but breaks on two in a row.

QUICK START:

  $ cycle serve                 # Start the web UI (http://127.0.0.1:8777)
  $ cycle list                  # Recent journal entries
  $ cycle goals                 # Active goals with streaks
  $ cycle export json           # Full data export
  $ cycle backup                # Snapshot the database file

MCP INTEGRATION:

  Run 'cycle mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants. Add to
  your Claude config:

  {
    "mcpServers": {
      "cycle": { "command": "cycle", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in a single SQLite file, by default at
  ~/.local/share/cycle/cycle.db. Override with CYCLE_DATA_DIR or a
  config file at ~/.config/cycle/config.yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config and database setup for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
