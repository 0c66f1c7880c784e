// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests truncate, padRight, command flags, and end-to-end runs.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/cycle/internal/models"
	"github.com/harperreed/cycle/internal/storage"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string no truncation",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "needs truncation",
			input:  "hello world this is a long string",
			maxLen: 10,
			want:   "hello w...",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{
			name:   "needs padding",
			input:  "hi",
			length: 5,
			want:   "hi   ",
		},
		{
			name:   "exact length",
			input:  "hello",
			length: 5,
			want:   "hello",
		},
		{
			name:   "longer than length",
			input:  "hello world",
			length: 5,
			want:   "hello world",
		},
		{
			name:   "empty string",
			input:  "",
			length: 5,
			want:   "     ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := padRight(tt.input, tt.length)
			if got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "cycle" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "cycle")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	if rootCmd.Long == "" {
		t.Error("Expected rootCmd.Long to be non-empty")
	}
}

func TestCommandsRegistered(t *testing.T) {
	expected := []string{"serve", "list", "goals", "export", "backup", "seed", "mcp", "version"}

	cmdNames := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdNames[cmd.Name()] = true
	}

	for _, name := range expected {
		if !cmdNames[name] {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestListCmdFlags(t *testing.T) {
	for _, name := range []string{"domain", "status", "limit"} {
		if listCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on list command", name)
		}
	}

	limitFlag := listCmd.Flags().Lookup("limit")
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestListCmdAliases(t *testing.T) {
	expectedAliases := map[string]bool{"ls": false, "l": false}

	for _, alias := range listCmd.Aliases {
		if _, ok := expectedAliases[alias]; ok {
			expectedAliases[alias] = true
		}
	}

	for alias, found := range expectedAliases {
		if !found {
			t.Errorf("Expected alias %q for listCmd", alias)
		}
	}
}

func TestServeCmdFlags(t *testing.T) {
	if serveCmd.Flags().Lookup("host") == nil {
		t.Error("Expected --host flag on serve command")
	}
	if serveCmd.Flags().Lookup("port") == nil {
		t.Error("Expected --port flag on serve command")
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	expected := map[string]bool{"json": false, "yaml": false, "zip": false}

	for _, arg := range exportCmd.ValidArgs {
		if _, ok := expected[arg]; ok {
			expected[arg] = true
		}
	}

	for arg, found := range expected {
		if !found {
			t.Errorf("Expected valid arg %q for exportCmd", arg)
		}
	}
}

func TestGoalsCmdFlags(t *testing.T) {
	if goalsCmd.Flags().Lookup("archived") == nil {
		t.Error("Expected --archived flag on goals command")
	}
}

func TestLongDescriptions(t *testing.T) {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "help" {
			continue
		}
		if cmd.Long == "" {
			t.Errorf("Expected %q command to have a long description", cmd.Name())
		}
	}
}

// setupTestCLI redirects the database to a temp directory via
// CYCLE_DATA_DIR and pre-opens it so tests can create fixtures.
func setupTestCLI(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("CYCLE_DATA_DIR", tmpDir)

	testDB, err := storage.Open(filepath.Join(tmpDir, "cycle.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	t.Cleanup(func() {
		if db != nil {
			db.Close()
			db = nil
		}
		testDB.Close()
	})

	return testDB
}

func TestListCmdWithDB(t *testing.T) {
	testDB := setupTestCLI(t)

	// Reset global flags
	listDomain = ""
	listStatus = ""
	listLimit = 20

	e := models.NewEntry()
	e.Title = "Sprint retro"
	e.Domain = "work"
	if err := testDB.CreateEntry(e); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	rootCmd.SetArgs([]string{"list"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("list command failed: %v", err)
	}
}

func TestListCmdEmptyDB(t *testing.T) {
	setupTestCLI(t)

	listDomain = ""
	listStatus = ""
	listLimit = 20

	rootCmd.SetArgs([]string{"list"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("list command on empty DB failed: %v", err)
	}
}

func TestListCmdInvalidStatus(t *testing.T) {
	setupTestCLI(t)

	listDomain = ""
	listStatus = ""
	listLimit = 20

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"list", "--status", "bogus"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error for invalid status filter")
	}
}

func TestGoalsCmdWithDB(t *testing.T) {
	testDB := setupTestCLI(t)

	goalsArchived = false

	g := &models.Goal{Title: "Run a 10k"}
	if err := testDB.CreateGoal(g); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}

	rootCmd.SetArgs([]string{"goals"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("goals command failed: %v", err)
	}
}

func TestGoalsCmdEmptyDB(t *testing.T) {
	setupTestCLI(t)

	goalsArchived = false

	rootCmd.SetArgs([]string{"goals"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("goals command on empty DB failed: %v", err)
	}
}

func TestSeedCmd(t *testing.T) {
	testDB := setupTestCLI(t)

	rootCmd.SetArgs([]string{"seed"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("seed command failed: %v", err)
	}

	count, err := testDB.CountEntries(nil)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count == 0 {
		t.Error("Expected seeded entries")
	}
}

func TestExportCmdToFile(t *testing.T) {
	testDB := setupTestCLI(t)

	exportOutput = ""

	e := models.NewEntry()
	e.Title = "Exported"
	if err := testDB.CreateEntry(e); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "export.json")

	rootCmd.SetArgs([]string{"export", "json", "--output", tmpFile})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("export to file failed: %v", err)
	}

	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Error("Expected export file to be created")
	}
}

func TestExportCmdZipToFile(t *testing.T) {
	setupTestCLI(t)

	exportOutput = ""

	tmpFile := filepath.Join(t.TempDir(), "export.zip")

	rootCmd.SetArgs([]string{"export", "zip", "--output", tmpFile})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("export zip failed: %v", err)
	}

	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Error("Expected zip file to be created")
	}
}

func TestExportCmdInvalidFormat(t *testing.T) {
	setupTestCLI(t)

	exportOutput = ""

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	rootCmd.SetArgs([]string{"export", "csv"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected error for invalid export format")
	}
}

func TestBackupCmd(t *testing.T) {
	setupTestCLI(t)

	rootCmd.SetArgs([]string{"backup"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("backup command failed: %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Errorf("version command failed: %v", err)
	}
}
