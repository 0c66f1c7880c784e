// ABOUTME: Opaque string-keyed settings storage.
// ABOUTME: Absent keys resolve to hardcoded defaults at read time.
package storage

import (
	"database/sql"
	"fmt"
)

// DefaultSettings are the values a fresh database resolves to. They
// live here rather than in the schema so defaults can change without a
// migration.
var DefaultSettings = map[string]string{
	"preferred_mode":   "wizard",
	"default_domain":   "",
	"autosave_enabled": "true",
	"font_size":        "medium",
}

// GetSetting returns a single setting value, falling back to its
// default (or the empty string for unknown keys).
func (d *DB) GetSetting(key string) (string, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return DefaultSettings[key], nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting stores a setting value, replacing any existing one.
func (d *DB) SetSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// AllSettings returns every stored setting merged over the defaults.
func (d *DB) AllSettings() (map[string]string, error) {
	rows, err := d.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	for k, v := range DefaultSettings {
		if _, ok := settings[k]; !ok {
			settings[k] = v
		}
	}
	return settings, nil
}
