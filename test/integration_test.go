// ABOUTME: Integration tests for cycle CLI.
// ABOUTME: Tests full workflow from CLI commands.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	cycleBinary := filepath.Join(projectRoot, "cycle")

	buildCmd := exec.Command("go", "build", "-o", cycleBinary, "./cmd/cycle")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(cycleBinary)

	// Use temp data dir
	tmpDir := t.TempDir()

	run := func(args ...string) (string, error) {
		cmd := exec.Command(cycleBinary, args...)
		cmd.Env = append(os.Environ(), "CYCLE_DATA_DIR="+tmpDir)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Empty database lists cleanly
	output, err := run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No entries found") {
		t.Errorf("Expected 'No entries found' in output, got: %s", output)
	}

	// Seed sample data
	output, err = run("seed")
	if err != nil {
		t.Fatalf("Failed to seed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "entries") {
		t.Errorf("Expected entry count in seed output, got: %s", output)
	}

	// Seeded entries show up
	output, err = run("list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Difficult team meeting") {
		t.Errorf("Expected seeded entry in list output, got: %s", output)
	}

	// Goals listing
	output, err = run("goals")
	if err != nil {
		t.Fatalf("Failed to list goals: %v\n%s", err, output)
	}

	// Export to a file
	exportPath := filepath.Join(tmpDir, "export.json")
	output, err = run("export", "json", "--output", exportPath)
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "Difficult team meeting") {
		t.Errorf("Expected seeded entry in export, got: %s", data)
	}

	// Backup
	output, err = run("backup")
	if err != nil {
		t.Fatalf("Failed to backup: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Backup written") {
		t.Errorf("Expected backup path in output, got: %s", output)
	}

	// Version runs without touching the database
	output, err = run("version")
	if err != nil {
		t.Fatalf("Failed to print version: %v\n%s", err, output)
	}
	if !strings.Contains(output, "cycle") {
		t.Errorf("Expected version string, got: %s", output)
	}
}
