// ABOUTME: CLI command for listing journal entries.
// ABOUTME: Supports filtering by domain and status and limiting results.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listDomain string
	listStatus string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List journal entries",
	Long: `List recent journal entries, newest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  DONE%  VALENCE  TITLE  (DOMAIN)

  DONE% is the four-step completion percentage (0, 25, 50, 75, 100).

FILTERING:

  --domain    Filter by life domain (work, health, ...)
  --status    Filter by status: draft or complete

EXAMPLES:

  cycle list                       # Last 20 entries
  cycle list --status draft        # Unfinished entries
  cycle list --domain work -n 50   # Last 50 work entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStatus != "" && listStatus != "draft" && listStatus != "complete" {
			return fmt.Errorf("unknown status: %s (use draft or complete)", listStatus)
		}

		filters := &storage.EntryFilters{
			Domain: listDomain,
			Status: listStatus,
		}
		entries, err := db.ListEntries(filters, "newest", listLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range entries {
			title := e.Title
			if title == "" {
				title = "(untitled)"
			}
			domain := ""
			if e.Domain != "" {
				domain = faint.Sprintf(" (%s)", e.Domain)
			}
			fmt.Printf("%s %s %s %s %s%s\n",
				faint.Sprintf("%4d", e.ID),
				faint.Sprint(e.OccurredAt.Format("2006-01-02")),
				padRight(fmt.Sprintf("%d%%", e.Completion()), 4),
				padRight(string(e.Valence), 8),
				truncate(title, 50),
				domain)
		}

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listDomain, "domain", "d", "", "filter by life domain")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status (draft or complete)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
