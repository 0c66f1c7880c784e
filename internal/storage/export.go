// ABOUTME: Export functionality for journal entries.
// ABOUTME: Supports JSON, YAML, and a ZIP archive of JSON plus per-entry Markdown.
package storage

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/cycle/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData is the full export document for journal data.
type ExportData struct {
	Version    string          `json:"version" yaml:"version"`
	ExportID   string          `json:"export_id" yaml:"export_id"`
	ExportedAt time.Time       `json:"exported_at" yaml:"exported_at"`
	Tool       string          `json:"tool" yaml:"tool"`
	Entries    []*models.Entry `json:"entries" yaml:"entries"`
}

// AllEntries returns every entry fully hydrated, newest first.
func (d *DB) AllEntries() ([]*models.Entry, error) {
	rows, err := d.db.Query("SELECT id FROM entries ORDER BY occurred_at DESC")
	if err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("export entries: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}

	entries := []*models.Entry{}
	for _, id := range ids {
		e, err := d.GetEntry(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetAllData retrieves all journal data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	entries, err := d.AllEntries()
	if err != nil {
		return nil, err
	}
	return &ExportData{
		Version:    "1.0",
		ExportID:   uuid.New().String(),
		ExportedAt: time.Now(),
		Tool:       "cycle",
		Entries:    entries,
	}, nil
}

// ExportJSON exports all entries as indented JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all entries as YAML.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportZip builds a ZIP archive holding one JSON document of all
// entries plus one Markdown file per entry under entries/.
func (d *DB) ExportZip() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}

	jsonDoc, err := json.MarshalIndent(data.Entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export zip: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("all-entries.json")
	if err != nil {
		return nil, fmt.Errorf("export zip: %w", err)
	}
	if _, err := w.Write(jsonDoc); err != nil {
		return nil, fmt.Errorf("export zip: %w", err)
	}

	for _, e := range data.Entries {
		w, err := zw.Create(fmt.Sprintf("entries/%s", EntryExportName(e)))
		if err != nil {
			return nil, fmt.Errorf("export zip: %w", err)
		}
		if _, err := w.Write([]byte(EntryMarkdown(e))); err != nil {
			return nil, fmt.Errorf("export zip: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("export zip: %w", err)
	}
	return buf.Bytes(), nil
}

// EntryExportName builds the per-entry Markdown filename: a
// zero-padded 4-digit ID plus a sanitized title capped at 30 runes.
// Only alphanumerics, dot, dash, underscore, and space survive.
func EntryExportName(e *models.Entry) string {
	title := e.Title
	if title == "" {
		title = "untitled"
	}
	runes := []rune(title)
	if len(runes) > 30 {
		runes = runes[:30]
	}

	var sb strings.Builder
	for _, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-', r == '_', r == ' ':
			sb.WriteRune(r)
		}
	}

	return fmt.Sprintf("%04d-%s.md", e.ID, sb.String())
}
