// ABOUTME: CLI commands for exporting and backing up data.
// ABOUTME: Supports JSON, YAML, and ZIP export formats plus database snapshots.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export journal and goal data",
	Long: `Export all data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  zip        ZIP archive with a JSON manifest plus one Markdown
             file per entry

OPTIONS:

  --output, -o   Write to file instead of stdout. ZIP exports always
                 go to a file (default: cycle-export-YYYYMMDD.zip).

EXAMPLES:

  cycle export json                     # Export all data as JSON
  cycle export json -o backup.json      # Save to file
  cycle export yaml                     # Export as YAML
  cycle export zip                      # Write cycle-export-YYYYMMDD.zip`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "zip"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = db.ExportJSON()
		case "yaml":
			data, err = db.ExportYAML()
		case "zip":
			data, err = db.ExportZip()
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or zip)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		output := exportOutput
		if output == "" && format == "zip" {
			output = fmt.Sprintf("cycle-export-%s.zip", time.Now().Format("20060102"))
		}

		if output != "" {
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", output)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the database file",
	Long: `Create a timestamped copy of the SQLite database next to the original.

The WAL is checkpointed first, so the copy is a self-contained
snapshot.

EXAMPLES:

  cycle backup               # Writes cycle.db.backup-<timestamp>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := db.Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		color.Green("✓ Backup written to %s", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
}
