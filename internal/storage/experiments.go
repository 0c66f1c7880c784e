// ABOUTME: Experiment CRUD operations for SQLite storage.
// ABOUTME: Experiments always belong to exactly one entry.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

// CreateExperiment stores a new experiment under an entry.
func (d *DB) CreateExperiment(exp *models.Experiment) error {
	now := time.Now()
	exp.CreatedAt = now
	exp.UpdatedAt = now
	if exp.Status == "" {
		exp.Status = models.StatusPlanned
	}

	query := `
		INSERT INTO experiments (
			entry_id, text, status, start_date, review_date,
			outcome_notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.db.Exec(query,
		exp.EntryID,
		exp.Text,
		string(exp.Status),
		exp.StartDate,
		exp.ReviewDate,
		exp.OutcomeNotes,
		formatTime(exp.CreatedAt),
		formatTime(exp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create experiment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create experiment: %w", err)
	}
	exp.ID = id
	return nil
}

// GetExperiment retrieves an experiment by ID.
func (d *DB) GetExperiment(id int64) (*models.Experiment, error) {
	query := `
		SELECT id, entry_id, text, status, start_date, review_date,
			outcome_notes, created_at, updated_at
		FROM experiments WHERE id = ?
	`
	return scanExperiment(d.db.QueryRow(query, id), false)
}

// getExperimentWithEntryTitle joins in the owning entry's title, for
// the reflects-on backward link.
func (d *DB) getExperimentWithEntryTitle(id int64) (*models.Experiment, error) {
	query := `
		SELECT e.id, e.entry_id, e.text, e.status, e.start_date, e.review_date,
			e.outcome_notes, e.created_at, e.updated_at, en.title
		FROM experiments e
		JOIN entries en ON e.entry_id = en.id
		WHERE e.id = ?
	`
	return scanExperiment(d.db.QueryRow(query, id), true)
}

// ExperimentUpdate describes a partial experiment update. Date fields
// use the Set flags so a provided nil clears the column.
type ExperimentUpdate struct {
	Text          *string
	Status        *models.ExperimentStatus
	StartDate     *string
	StartDateSet  bool
	ReviewDate    *string
	ReviewDateSet bool
	OutcomeNotes  *string
}

// UpdateExperiment applies a partial update and bumps updated_at.
func (d *DB) UpdateExperiment(id int64, u *ExperimentUpdate) error {
	var sets []string
	var args []interface{}

	if u.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *u.Text)
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.StartDateSet {
		sets = append(sets, "start_date = ?")
		args = append(args, u.StartDate)
	}
	if u.ReviewDateSet {
		sets = append(sets, "review_date = ?")
		args = append(args, u.ReviewDate)
	}
	if u.OutcomeNotes != nil {
		sets = append(sets, "outcome_notes = ?")
		args = append(args, *u.OutcomeNotes)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	query := fmt.Sprintf("UPDATE experiments SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := d.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update experiment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update experiment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExperiment removes an experiment. Entries reflecting on it get
// their link nulled by the ON DELETE SET NULL constraint.
func (d *DB) DeleteExperiment(id int64) error {
	result, err := d.db.Exec("DELETE FROM experiments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete experiment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete experiment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExperimentFilters narrows cross-entry experiment listings.
type ExperimentFilters struct {
	Status    string
	EntryID   int64
	Search    string
	ReviewDue bool
}

// ListExperiments retrieves experiments across entries, joined with
// the owning entry title and ordered by review date with NULLs last.
func (d *DB) ListExperiments(filters *ExperimentFilters, limit, offset int) ([]*models.Experiment, error) {
	if filters == nil {
		filters = &ExperimentFilters{}
	}

	query := `
		SELECT e.id, e.entry_id, e.text, e.status, e.start_date, e.review_date,
			e.outcome_notes, e.created_at, e.updated_at, en.title
		FROM experiments e
		JOIN entries en ON e.entry_id = en.id
		WHERE 1=1
	`
	var params []interface{}

	if filters.Status != "" {
		query += " AND e.status = ?"
		params = append(params, filters.Status)
	}
	if filters.EntryID != 0 {
		query += " AND e.entry_id = ?"
		params = append(params, filters.EntryID)
	}
	if filters.Search != "" {
		query += " AND (e.text LIKE ? OR e.outcome_notes LIKE ?)"
		search := "%" + filters.Search + "%"
		params = append(params, search, search)
	}
	if filters.ReviewDue {
		query += " AND e.review_date <= DATE('now') AND e.status IN ('planned', 'active')"
	}

	query += " ORDER BY e.review_date IS NULL, e.review_date ASC, e.created_at DESC"
	query += " LIMIT ? OFFSET ?"
	params = append(params, limit, offset)

	return d.queryExperiments(query, params...)
}

// ActiveExperiments returns planned and active experiments ordered by
// review date, soonest first.
func (d *DB) ActiveExperiments() ([]*models.Experiment, error) {
	query := `
		SELECT e.id, e.entry_id, e.text, e.status, e.start_date, e.review_date,
			e.outcome_notes, e.created_at, e.updated_at, en.title
		FROM experiments e
		JOIN entries en ON e.entry_id = en.id
		WHERE e.status IN ('planned', 'active')
		ORDER BY e.review_date IS NULL, e.review_date ASC, e.created_at DESC
	`
	return d.queryExperiments(query)
}

// entryExperiments returns an entry's experiments in creation order.
func (d *DB) entryExperiments(entryID int64) ([]models.Experiment, error) {
	query := `
		SELECT id, entry_id, text, status, start_date, review_date,
			outcome_notes, created_at, updated_at
		FROM experiments WHERE entry_id = ? ORDER BY created_at, id
	`
	rows, err := d.db.Query(query, entryID)
	if err != nil {
		return nil, fmt.Errorf("list entry experiments: %w", err)
	}
	defer rows.Close()

	experiments := []models.Experiment{}
	for rows.Next() {
		exp, err := scanExperimentFrom(rows, false)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, *exp)
	}
	return experiments, rows.Err()
}

func (d *DB) queryExperiments(query string, params ...interface{}) ([]*models.Experiment, error) {
	rows, err := d.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*models.Experiment
	for rows.Next() {
		exp, err := scanExperimentFrom(rows, true)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, exp)
	}
	return experiments, rows.Err()
}

func scanExperimentFrom(s rowScanner, withEntryTitle bool) (*models.Experiment, error) {
	var exp models.Experiment
	var status, createdAt, updatedAt string
	var startDate, reviewDate sql.NullString

	dest := []interface{}{
		&exp.ID, &exp.EntryID, &exp.Text, &status, &startDate, &reviewDate,
		&exp.OutcomeNotes, &createdAt, &updatedAt,
	}
	if withEntryTitle {
		dest = append(dest, &exp.EntryTitle)
	}

	if err := s.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan experiment: %w", err)
	}

	exp.Status = models.ExperimentStatus(status)
	exp.CreatedAt = parseTime(createdAt)
	exp.UpdatedAt = parseTime(updatedAt)
	if startDate.Valid {
		v := startDate.String
		exp.StartDate = &v
	}
	if reviewDate.Valid {
		v := reviewDate.String
		exp.ReviewDate = &v
	}

	return &exp, nil
}

func scanExperiment(row *sql.Row, withEntryTitle bool) (*models.Experiment, error) {
	return scanExperimentFrom(row, withEntryTitle)
}
