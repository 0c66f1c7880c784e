// ABOUTME: Tests for config loading precedence and validation.
// ABOUTME: Covers defaults, YAML file values, env overrides, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFile failed: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 8777 {
		t.Errorf("port = %d, want 8777", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v, want info/console", cfg.Log)
	}
	if cfg.Addr() != "127.0.0.1:8777" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "data_dir: /tmp/cycle-data\nserver:\n  port: 9000\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile failed: %v", err)
	}
	if cfg.DataDir != "/tmp/cycle-data" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Log.Level)
	}
	// File only set port; host still defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CYCLE_SERVER_PORT", "9100")
	t.Setenv("CYCLE_LOG_FORMAT", "json")
	t.Setenv("CYCLE_DATA_DIR", "/tmp/env-data")

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile failed: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Log.Format)
	}
	if cfg.DataDir != "/tmp/env-data" {
		t.Errorf("data_dir = %q, want /tmp/env-data", cfg.DataDir)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 99999\n"},
		{"bad level", "log:\n  level: shout\n"},
		{"bad format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := LoadWithFile(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/notes"); got != filepath.Join(home, "notes") {
		t.Errorf("ExpandPath(~/notes) = %q", got)
	}
	if got := ExpandPath("~"); got != home {
		t.Errorf("ExpandPath(~) = %q", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q", got)
	}
}

func TestDBPath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/cycle-data"}
	if got := cfg.DBPath(); got != "/tmp/cycle-data/cycle.db" {
		t.Errorf("DBPath = %q", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	got := DefaultConfigPath()
	if !strings.HasSuffix(got, filepath.Join("cycle", "config.yaml")) {
		t.Errorf("DefaultConfigPath = %q", got)
	}
	if !strings.HasPrefix(got, "/tmp/xdg-config") {
		t.Errorf("DefaultConfigPath = %q, want under XDG_CONFIG_HOME", got)
	}
}
