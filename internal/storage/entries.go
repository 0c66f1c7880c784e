// ABOUTME: Entry CRUD operations for SQLite storage.
// ABOUTME: Handles quick-capture creates, partial updates, and filtered listings.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

const entryColumns = `id, title, occurred_at, created_at, updated_at, domain, valence,
	experience_text, reflection_text, reflection_prompts,
	abstraction_text, abstraction_prompts,
	no_experiment_needed, is_complete, current_step, reflects_on_experiment_id`

// CreateEntry stores a new entry and assigns its ID. Partially filled
// entries are valid; a quick capture may carry nothing but a title or
// an experience.
func (d *DB) CreateEntry(e *models.Entry) error {
	now := time.Now()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Valence == "" {
		e.Valence = models.ValenceNeutral
	}
	if e.CurrentStep == 0 {
		e.CurrentStep = 1
	}

	query := `
		INSERT INTO entries (
			title, occurred_at, created_at, updated_at, domain, valence,
			experience_text, reflection_text, reflection_prompts,
			abstraction_text, abstraction_prompts,
			no_experiment_needed, is_complete, current_step, reflects_on_experiment_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.db.Exec(query,
		e.Title,
		formatTime(e.OccurredAt),
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
		e.Domain,
		string(e.Valence),
		e.ExperienceText,
		e.ReflectionText,
		models.EncodePromptMap(e.ReflectionPrompts),
		e.AbstractionText,
		models.EncodePromptMap(e.AbstractionPrompts),
		boolToInt(e.NoExperimentNeeded),
		0,
		e.CurrentStep,
		e.ReflectsOnExperimentID,
	)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	e.ID = id
	e.IsComplete = false
	return nil
}

// GetEntry retrieves an entry by ID with its tags, experiments, and
// the experiment it reflects on.
func (d *DB) GetEntry(id int64) (*models.Entry, error) {
	query := fmt.Sprintf("SELECT %s FROM entries WHERE id = ?", entryColumns)
	e, err := scanEntry(d.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	tags, err := d.entryTagNames(id)
	if err != nil {
		return nil, err
	}
	e.Tags = tags

	experiments, err := d.entryExperiments(id)
	if err != nil {
		return nil, err
	}
	e.Experiments = experiments

	if e.ReflectsOnExperimentID != nil {
		exp, err := d.getExperimentWithEntryTitle(*e.ReflectsOnExperimentID)
		if err == nil {
			e.ReflectsOnExperiment = exp
		} else if err != ErrNotFound {
			return nil, err
		}
	}

	return e, nil
}

// EntryUpdate describes a partial entry update. Nil fields are left
// unchanged. ReflectsOnSet distinguishes "leave the link alone" from
// "write it" (a nil ID then clears the link).
type EntryUpdate struct {
	Title                  *string
	OccurredAt             *time.Time
	Domain                 *string
	Valence                *models.Valence
	ExperienceText         *string
	ReflectionText         *string
	ReflectionPrompts      models.PromptMap
	AbstractionText        *string
	AbstractionPrompts     models.PromptMap
	NoExperimentNeeded     *bool
	IsComplete             *bool
	CurrentStep            *int
	ReflectsOnExperimentID *int64
	ReflectsOnSet          bool
}

// UpdateEntry applies a partial update and bumps updated_at.
func (d *DB) UpdateEntry(id int64, u *EntryUpdate) error {
	var sets []string
	var args []interface{}

	add := func(col string, val interface{}) {
		sets = append(sets, col+" = ?")
		args = append(args, val)
	}

	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.OccurredAt != nil {
		add("occurred_at", formatTime(*u.OccurredAt))
	}
	if u.Domain != nil {
		add("domain", *u.Domain)
	}
	if u.Valence != nil {
		add("valence", string(*u.Valence))
	}
	if u.ExperienceText != nil {
		add("experience_text", *u.ExperienceText)
	}
	if u.ReflectionText != nil {
		add("reflection_text", *u.ReflectionText)
	}
	if u.ReflectionPrompts != nil {
		add("reflection_prompts", models.EncodePromptMap(u.ReflectionPrompts))
	}
	if u.AbstractionText != nil {
		add("abstraction_text", *u.AbstractionText)
	}
	if u.AbstractionPrompts != nil {
		add("abstraction_prompts", models.EncodePromptMap(u.AbstractionPrompts))
	}
	if u.NoExperimentNeeded != nil {
		add("no_experiment_needed", boolToInt(*u.NoExperimentNeeded))
	}
	if u.IsComplete != nil {
		add("is_complete", boolToInt(*u.IsComplete))
	}
	if u.CurrentStep != nil {
		add("current_step", *u.CurrentStep)
	}
	if u.ReflectsOnSet {
		add("reflects_on_experiment_id", u.ReflectsOnExperimentID)
	}

	if len(sets) == 0 {
		return nil
	}

	add("updated_at", formatTime(time.Now()))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE entries SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := d.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEntry removes an entry. Its experiments and tag associations
// go with it via foreign-key cascades.
func (d *DB) DeleteEntry(id int64) error {
	result, err := d.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// EntryFilters narrows entry listings. Zero values mean "no filter".
type EntryFilters struct {
	Search           string
	Domain           string
	Valence          string
	Status           string // "draft" or "complete"
	HasExperiments   bool
	DateFrom         string // YYYY-MM-DD
	DateTo           string
	Tag              string
	ExperimentStatus string
}

// filterClause builds the shared WHERE tail for listings and counts.
func (f *EntryFilters) filterClause() (string, []interface{}) {
	var sb strings.Builder
	var params []interface{}

	if f.Search != "" {
		sb.WriteString(` AND (
			title LIKE ? OR experience_text LIKE ? OR
			reflection_text LIKE ? OR abstraction_text LIKE ?
		)`)
		search := "%" + f.Search + "%"
		params = append(params, search, search, search, search)
	}
	if f.Domain != "" {
		sb.WriteString(" AND domain = ?")
		params = append(params, f.Domain)
	}
	if f.Valence != "" {
		sb.WriteString(" AND valence = ?")
		params = append(params, f.Valence)
	}
	switch f.Status {
	case "draft":
		sb.WriteString(" AND is_complete = 0")
	case "complete":
		sb.WriteString(" AND is_complete = 1")
	}
	if f.HasExperiments {
		sb.WriteString(" AND id IN (SELECT DISTINCT entry_id FROM experiments)")
	}
	if f.DateFrom != "" {
		sb.WriteString(" AND DATE(occurred_at) >= ?")
		params = append(params, f.DateFrom)
	}
	if f.DateTo != "" {
		sb.WriteString(" AND DATE(occurred_at) <= ?")
		params = append(params, f.DateTo)
	}
	if f.Tag != "" {
		sb.WriteString(` AND id IN (
			SELECT entry_id FROM entry_tags et
			JOIN tags t ON et.tag_id = t.id
			WHERE t.name = ?
		)`)
		params = append(params, f.Tag)
	}
	if f.ExperimentStatus != "" {
		sb.WriteString(" AND id IN (SELECT entry_id FROM experiments WHERE status = ?)")
		params = append(params, f.ExperimentStatus)
	}

	return sb.String(), params
}

// ListEntries retrieves entries matching the filters, with tag names
// and experiment counts attached.
func (d *DB) ListEntries(filters *EntryFilters, sort string, limit, offset int) ([]*models.Entry, error) {
	if filters == nil {
		filters = &EntryFilters{}
	}

	query := fmt.Sprintf("SELECT %s FROM entries WHERE 1=1", entryColumns)
	clause, params := filters.filterClause()
	query += clause

	switch sort {
	case "oldest":
		query += " ORDER BY occurred_at ASC"
	case "last_edited":
		query += " ORDER BY updated_at DESC"
	default: // newest
		query += " ORDER BY occurred_at DESC"
	}

	query += " LIMIT ? OFFSET ?"
	params = append(params, limit, offset)

	rows, err := d.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		e, err := scanEntryRows(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	for _, e := range entries {
		tags, err := d.entryTagNames(e.ID)
		if err != nil {
			return nil, err
		}
		e.Tags = tags

		var count int
		err = d.db.QueryRow("SELECT COUNT(*) FROM experiments WHERE entry_id = ?", e.ID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("count experiments: %w", err)
		}
		e.ExperimentCount = count
	}

	return entries, nil
}

// CountEntries returns the number of entries matching the filters.
func (d *DB) CountEntries(filters *EntryFilters) (int, error) {
	if filters == nil {
		filters = &EntryFilters{}
	}

	query := "SELECT COUNT(*) FROM entries WHERE 1=1"
	clause, params := filters.filterClause()
	query += clause

	var count int
	if err := d.db.QueryRow(query, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// LatestDraft returns the most recently updated incomplete entry, or
// ErrNotFound when every entry is complete.
func (d *DB) LatestDraft() (*models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM entries WHERE is_complete = 0
		ORDER BY updated_at DESC LIMIT 1`, entryColumns)
	e, err := scanEntry(d.db.QueryRow(query))
	if err != nil {
		return nil, err
	}
	return d.GetEntry(e.ID)
}

// Domains returns all distinct non-empty entry domains.
func (d *DB) Domains() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT domain FROM entries WHERE domain != '' ORDER BY domain")
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntryFrom(s rowScanner) (*models.Entry, error) {
	var e models.Entry
	var occurredAt, createdAt, updatedAt string
	var reflectionPrompts, abstractionPrompts string
	var noExperiment, isComplete int
	var reflectsOn sql.NullInt64

	err := s.Scan(
		&e.ID, &e.Title, &occurredAt, &createdAt, &updatedAt,
		&e.Domain, &e.Valence,
		&e.ExperienceText, &e.ReflectionText, &reflectionPrompts,
		&e.AbstractionText, &abstractionPrompts,
		&noExperiment, &isComplete, &e.CurrentStep, &reflectsOn,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	e.OccurredAt = parseTime(occurredAt)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	e.ReflectionPrompts = models.DecodePromptMap(reflectionPrompts)
	e.AbstractionPrompts = models.DecodePromptMap(abstractionPrompts)
	e.NoExperimentNeeded = noExperiment != 0
	e.IsComplete = isComplete != 0
	if reflectsOn.Valid {
		id := reflectsOn.Int64
		e.ReflectsOnExperimentID = &id
	}
	e.Tags = []string{}
	e.Experiments = []models.Experiment{}

	return &e, nil
}

func scanEntry(row *sql.Row) (*models.Entry, error) {
	return scanEntryFrom(row)
}

func scanEntryRows(rows *sql.Rows) (*models.Entry, error) {
	return scanEntryFrom(rows)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// parseTime reads stored timestamps. Rows written by SQLite defaults
// carry "2006-01-02 15:04:05" rather than RFC 3339.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
