// ABOUTME: Daily log and performance entry operations.
// ABOUTME: One log per (goal, date); one entry per (log, metric); both upsert.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

// PerformanceInput is one metric's result within a daily-log save.
type PerformanceInput struct {
	MetricID  int64  `json:"metric_id"`
	Completed bool   `json:"completed"`
	Rating    int    `json:"rating"`
	Notes     string `json:"notes"`
}

// UpsertDailyLog creates the log row for (goal, date) or updates its
// notes in place, and returns the log ID.
func (d *DB) UpsertDailyLog(goalID int64, logDate, notes string) (int64, error) {
	var logID int64
	err := d.withTx(func(tx *sql.Tx) error {
		var err error
		logID, err = upsertDailyLogTx(tx, goalID, logDate, notes)
		return err
	})
	return logID, err
}

func upsertDailyLogTx(tx *sql.Tx, goalID int64, logDate, notes string) (int64, error) {
	now := formatTime(time.Now())

	var id int64
	err := tx.QueryRow(
		"SELECT id FROM goal_daily_logs WHERE goal_id = ? AND log_date = ?",
		goalID, logDate,
	).Scan(&id)
	if err == nil {
		_, err = tx.Exec(
			"UPDATE goal_daily_logs SET notes = ?, updated_at = ? WHERE id = ?",
			notes, now, id,
		)
		if err != nil {
			return 0, fmt.Errorf("update daily log: %w", err)
		}
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("find daily log: %w", err)
	}

	result, err := tx.Exec(
		"INSERT INTO goal_daily_logs (goal_id, log_date, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		goalID, logDate, notes, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("create daily log: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create daily log: %w", err)
	}
	return id, nil
}

// SaveDailyLog writes a day's log and all its performance entries in
// one transaction. Entries upsert on (log, metric), so re-saving a day
// never duplicates rows.
func (d *DB) SaveDailyLog(goalID int64, logDate string, entries []PerformanceInput, notes string) (int64, error) {
	var logID int64
	err := d.withTx(func(tx *sql.Tx) error {
		var err error
		logID, err = upsertDailyLogTx(tx, goalID, logDate, notes)
		if err != nil {
			return err
		}
		for _, in := range entries {
			if err := upsertPerformanceEntryTx(tx, logID, in); err != nil {
				return err
			}
		}
		return nil
	})
	return logID, err
}

// SavePerformanceEntry upserts a single metric's result for a log.
func (d *DB) SavePerformanceEntry(logID int64, in PerformanceInput) error {
	return d.withTx(func(tx *sql.Tx) error {
		return upsertPerformanceEntryTx(tx, logID, in)
	})
}

func upsertPerformanceEntryTx(tx *sql.Tx, logID int64, in PerformanceInput) error {
	var id int64
	err := tx.QueryRow(
		"SELECT id FROM goal_performance_entries WHERE daily_log_id = ? AND metric_id = ?",
		logID, in.MetricID,
	).Scan(&id)
	if err == nil {
		_, err = tx.Exec(
			"UPDATE goal_performance_entries SET completed = ?, rating = ?, notes = ? WHERE id = ?",
			boolToInt(in.Completed), in.Rating, in.Notes, id,
		)
		if err != nil {
			return fmt.Errorf("update performance entry: %w", err)
		}
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("find performance entry: %w", err)
	}

	_, err = tx.Exec(
		"INSERT INTO goal_performance_entries (daily_log_id, metric_id, completed, rating, notes) VALUES (?, ?, ?, ?, ?)",
		logID, in.MetricID, boolToInt(in.Completed), in.Rating, in.Notes,
	)
	if err != nil {
		return fmt.Errorf("create performance entry: %w", err)
	}
	return nil
}

// GetDailyLog retrieves the log for (goal, date) with its performance
// entries joined to metric names, in metric display order.
func (d *DB) GetDailyLog(goalID int64, logDate string) (*models.DailyLog, error) {
	log, err := scanDailyLog(d.db.QueryRow(`
		SELECT id, goal_id, log_date, notes, created_at, updated_at
		FROM goal_daily_logs
		WHERE goal_id = ? AND log_date = ?
	`, goalID, logDate))
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
		SELECT pe.id, pe.daily_log_id, pe.metric_id, pe.completed, pe.rating, pe.notes, pm.metric_name
		FROM goal_performance_entries pe
		JOIN goal_performance_metrics pm ON pe.metric_id = pm.id
		WHERE pe.daily_log_id = ?
		ORDER BY pm.metric_order, pm.id
	`, log.ID)
	if err != nil {
		return nil, fmt.Errorf("list performance entries: %w", err)
	}
	defer rows.Close()

	log.Entries = []models.PerformanceEntry{}
	for rows.Next() {
		var pe models.PerformanceEntry
		var completed int
		if err := rows.Scan(&pe.ID, &pe.DailyLogID, &pe.MetricID, &completed, &pe.Rating, &pe.Notes, &pe.MetricName); err != nil {
			return nil, fmt.Errorf("scan performance entry: %w", err)
		}
		pe.Completed = completed != 0
		log.Entries = append(log.Entries, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list performance entries: %w", err)
	}

	return log, nil
}

// recentDailyLogs returns a goal's most recent logs without their
// performance entries.
func (d *DB) recentDailyLogs(goalID int64, limit int) ([]models.DailyLog, error) {
	rows, err := d.db.Query(`
		SELECT id, goal_id, log_date, notes, created_at, updated_at
		FROM goal_daily_logs
		WHERE goal_id = ?
		ORDER BY log_date DESC
		LIMIT ?
	`, goalID, limit)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	defer rows.Close()

	logs := []models.DailyLog{}
	for rows.Next() {
		log, err := scanDailyLogFrom(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

func scanDailyLogFrom(s rowScanner) (*models.DailyLog, error) {
	var log models.DailyLog
	var createdAt, updatedAt string
	err := s.Scan(&log.ID, &log.GoalID, &log.LogDate, &log.Notes, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan daily log: %w", err)
	}
	log.CreatedAt = parseTime(createdAt)
	log.UpdatedAt = parseTime(updatedAt)
	return &log, nil
}

func scanDailyLog(row *sql.Row) (*models.DailyLog, error) {
	return scanDailyLogFrom(row)
}
