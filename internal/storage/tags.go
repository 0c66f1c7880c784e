// ABOUTME: Tag operations and entry-link helpers.
// ABOUTME: Tags are de-duplicated by lowercase name with get-or-create semantics.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// Tag is a unique lowercase label attached to entries.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// UsageCount is populated by ListTags only.
	UsageCount int `json:"usage_count,omitempty"`
}

// GetOrCreateTag returns the ID of the tag with the given name,
// creating it if needed. Names are trimmed and lowercased first, so
// "Work" and "work" resolve to the same tag.
func (d *DB) GetOrCreateTag(name string) (int64, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("tag name is required")
	}
	return d.getOrCreateTagTx(d.db, name)
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (d *DB) getOrCreateTagTx(e execer, name string) (int64, error) {
	var id int64
	err := e.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("get tag: %w", err)
	}

	result, err := e.Exec("INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("create tag: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create tag: %w", err)
	}
	return id, nil
}

// SetEntryTags replaces an entry's tag set with the given names,
// creating tags as needed. Blank names are skipped.
func (d *DB) SetEntryTags(entryID int64, names []string) error {
	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM entry_tags WHERE entry_id = ?", entryID); err != nil {
			return fmt.Errorf("clear entry tags: %w", err)
		}
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			tagID, err := d.getOrCreateTagTx(tx, name)
			if err != nil {
				return err
			}
			_, err = tx.Exec(
				"INSERT OR IGNORE INTO entry_tags (entry_id, tag_id) VALUES (?, ?)",
				entryID, tagID,
			)
			if err != nil {
				return fmt.Errorf("link tag: %w", err)
			}
		}
		return nil
	})
}

// ListTags returns all tags with usage counts, most used first.
func (d *DB) ListTags() ([]Tag, error) {
	rows, err := d.db.Query(`
		SELECT t.id, t.name, COUNT(et.entry_id) AS usage_count
		FROM tags t
		LEFT JOIN entry_tags et ON t.id = et.tag_id
		GROUP BY t.id
		ORDER BY usage_count DESC, t.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UsageCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// entryTagNames returns an entry's tag names.
func (d *DB) entryTagNames(entryID int64) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT t.name FROM tags t
		JOIN entry_tags et ON t.id = et.tag_id
		WHERE et.entry_id = ?
		ORDER BY t.name
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("list entry tags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// EntryLink connects two entries, e.g. a reflection written about an
// earlier entry's outcome.
type EntryLink struct {
	ID          int64  `json:"id"`
	FromEntryID int64  `json:"from_entry_id"`
	ToEntryID   int64  `json:"to_entry_id"`
	LinkType    string `json:"link_type"`
	LinkedTitle string `json:"linked_title,omitempty"`
}

// CreateEntryLink links two entries. An empty linkType defaults to
// "reflects_on".
func (d *DB) CreateEntryLink(fromID, toID int64, linkType string) (int64, error) {
	if linkType == "" {
		linkType = "reflects_on"
	}
	result, err := d.db.Exec(
		"INSERT INTO entry_links (from_entry_id, to_entry_id, link_type) VALUES (?, ?, ?)",
		fromID, toID, linkType,
	)
	if err != nil {
		return 0, fmt.Errorf("create entry link: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create entry link: %w", err)
	}
	return id, nil
}

// EntryLinks returns outgoing links from an entry with target titles.
func (d *DB) EntryLinks(entryID int64) ([]EntryLink, error) {
	rows, err := d.db.Query(`
		SELECT el.id, el.from_entry_id, el.to_entry_id, el.link_type, e.title
		FROM entry_links el
		JOIN entries e ON el.to_entry_id = e.id
		WHERE el.from_entry_id = ?
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("list entry links: %w", err)
	}
	defer rows.Close()

	links := []EntryLink{}
	for rows.Next() {
		var l EntryLink
		if err := rows.Scan(&l.ID, &l.FromEntryID, &l.ToEntryID, &l.LinkType, &l.LinkedTitle); err != nil {
			return nil, fmt.Errorf("scan entry link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
