// ABOUTME: Goal CRUD operations and the active-goal admission gate.
// ABOUTME: At most three goals may be unarchived at any time.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

// ErrGoalLimit is returned when creating or unarchiving a goal would
// exceed the active-goal cap.
var ErrGoalLimit = fmt.Errorf("maximum %d active goals allowed", models.MaxActiveGoals)

// CanCreateGoal reports whether another active goal is allowed.
func (d *DB) CanCreateGoal() (bool, error) {
	count, err := d.ActiveGoalCount()
	if err != nil {
		return false, err
	}
	return count < models.MaxActiveGoals, nil
}

// ActiveGoalCount returns the number of non-archived goals.
func (d *DB) ActiveGoalCount() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM goals WHERE is_archived = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active goals: %w", err)
	}
	return count, nil
}

// CreateGoal stores a new goal with its initial metrics. The active
// cap is checked in the same transaction as the insert. Title is the
// one required field.
func (d *DB) CreateGoal(g *models.Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("goal title is required")
	}

	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	g.IsArchived = false

	return d.withTx(func(tx *sql.Tx) error {
		var active int
		if err := tx.QueryRow("SELECT COUNT(*) FROM goals WHERE is_archived = 0").Scan(&active); err != nil {
			return fmt.Errorf("count active goals: %w", err)
		}
		if active >= models.MaxActiveGoals {
			return ErrGoalLimit
		}

		result, err := tx.Exec(`
			INSERT INTO goals (
				title, description, outcome_target, target_date,
				target_metric, is_archived, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		`,
			g.Title, g.Description, g.OutcomeTarget, g.TargetDate,
			g.TargetMetric, formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("create goal: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		g.ID = id

		for i := range g.Metrics {
			m := &g.Metrics[i]
			m.GoalID = id
			if m.Order == 0 {
				m.Order = i
			}
			mres, err := tx.Exec(
				"INSERT INTO goal_performance_metrics (goal_id, metric_name, metric_order) VALUES (?, ?, ?)",
				id, m.Name, m.Order,
			)
			if err != nil {
				return fmt.Errorf("create goal metric: %w", err)
			}
			if m.ID, err = mres.LastInsertId(); err != nil {
				return fmt.Errorf("create goal metric: %w", err)
			}
		}
		return nil
	})
}

// GetGoal retrieves a goal with its metrics, risks, and up to 30 most
// recent daily logs.
func (d *DB) GetGoal(id int64) (*models.Goal, error) {
	g, err := scanGoal(d.db.QueryRow(`
		SELECT id, title, description, outcome_target, target_date,
			target_metric, is_archived, created_at, updated_at
		FROM goals WHERE id = ?
	`, id))
	if err != nil {
		return nil, err
	}

	if g.Metrics, err = d.GoalMetrics(id); err != nil {
		return nil, err
	}
	if g.Risks, err = d.GoalRisks(id); err != nil {
		return nil, err
	}
	if g.RecentLogs, err = d.recentDailyLogs(id, 30); err != nil {
		return nil, err
	}

	return g, nil
}

// GoalUpdate describes a partial goal update. Archiving goes through
// ArchiveGoal/UnarchiveGoal so the cap can be enforced.
type GoalUpdate struct {
	Title         *string
	Description   *string
	OutcomeTarget *string
	TargetDate    *string
	TargetDateSet bool
	TargetMetric  *string
}

// UpdateGoal applies a partial update and bumps updated_at.
func (d *DB) UpdateGoal(id int64, u *GoalUpdate) error {
	var sets []string
	var args []interface{}

	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return fmt.Errorf("goal title is required")
		}
		sets = append(sets, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.OutcomeTarget != nil {
		sets = append(sets, "outcome_target = ?")
		args = append(args, *u.OutcomeTarget)
	}
	if u.TargetDateSet {
		sets = append(sets, "target_date = ?")
		args = append(args, u.TargetDate)
	}
	if u.TargetMetric != nil {
		sets = append(sets, "target_metric = ?")
		args = append(args, *u.TargetMetric)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(time.Now()), id)

	query := fmt.Sprintf("UPDATE goals SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := d.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveGoal archives a goal. Archiving is never blocked.
func (d *DB) ArchiveGoal(id int64) error {
	return d.setArchived(id, true)
}

// UnarchiveGoal reactivates a goal, re-checking the active cap in the
// same transaction.
func (d *DB) UnarchiveGoal(id int64) error {
	return d.withTx(func(tx *sql.Tx) error {
		var active int
		if err := tx.QueryRow("SELECT COUNT(*) FROM goals WHERE is_archived = 0").Scan(&active); err != nil {
			return fmt.Errorf("count active goals: %w", err)
		}
		if active >= models.MaxActiveGoals {
			return ErrGoalLimit
		}

		result, err := tx.Exec(
			"UPDATE goals SET is_archived = 0, updated_at = ? WHERE id = ?",
			formatTime(time.Now()), id,
		)
		if err != nil {
			return fmt.Errorf("unarchive goal: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("unarchive goal: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (d *DB) setArchived(id int64, archived bool) error {
	result, err := d.db.Exec(
		"UPDATE goals SET is_archived = ?, updated_at = ? WHERE id = ?",
		boolToInt(archived), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive goal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGoal removes a goal. Metrics, risks, daily logs, and their
// performance entries cascade.
func (d *DB) DeleteGoal(id int64) error {
	result, err := d.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListGoals returns goals newest first, each with a metric count and
// last logged date for the dashboard. Archived goals are included only
// when asked for.
func (d *DB) ListGoals(includeArchived bool) ([]*models.Goal, error) {
	query := `
		SELECT id, title, description, outcome_target, target_date,
			target_metric, is_archived, created_at, updated_at
		FROM goals
	`
	if !includeArchived {
		query += " WHERE is_archived = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoalFrom(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	for _, g := range goals {
		err := d.db.QueryRow(
			"SELECT COUNT(*) FROM goal_performance_metrics WHERE goal_id = ?", g.ID,
		).Scan(&g.MetricCount)
		if err != nil {
			return nil, fmt.Errorf("count goal metrics: %w", err)
		}

		var lastLog sql.NullString
		err = d.db.QueryRow(
			"SELECT log_date FROM goal_daily_logs WHERE goal_id = ? ORDER BY log_date DESC LIMIT 1", g.ID,
		).Scan(&lastLog)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("last log date: %w", err)
		}
		if lastLog.Valid {
			v := lastLog.String
			g.LastLogDate = &v
		}
	}

	return goals, nil
}

// DashboardStats returns the aggregate numbers for the goals dashboard.
func (d *DB) DashboardStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := d.db.QueryRow("SELECT COUNT(*) FROM goals WHERE is_archived = 0").Scan(&stats.ActiveCount)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	err = d.db.QueryRow("SELECT COUNT(*) FROM goals WHERE is_archived = 1").Scan(&stats.ArchivedCount)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	weekStart := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM goal_daily_logs WHERE log_date >= ?", weekStart,
	).Scan(&stats.LogsThisWeek)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats.CanCreate = stats.ActiveCount < models.MaxActiveGoals
	return stats, nil
}

func scanGoalFrom(s rowScanner) (*models.Goal, error) {
	var g models.Goal
	var targetDate sql.NullString
	var isArchived int
	var createdAt, updatedAt string

	err := s.Scan(
		&g.ID, &g.Title, &g.Description, &g.OutcomeTarget, &targetDate,
		&g.TargetMetric, &isArchived, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan goal: %w", err)
	}

	if targetDate.Valid {
		v := targetDate.String
		g.TargetDate = &v
	}
	g.IsArchived = isArchived != 0
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}

func scanGoal(row *sql.Row) (*models.Goal, error) {
	return scanGoalFrom(row)
}
