// ABOUTME: Performance metric CRUD operations.
// ABOUTME: Metrics are the daily trackable behaviors under a goal.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

// CreateMetric adds a performance metric to a goal.
func (d *DB) CreateMetric(m *models.PerformanceMetric) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("metric name is required")
	}
	m.CreatedAt = time.Now()

	result, err := d.db.Exec(
		"INSERT INTO goal_performance_metrics (goal_id, metric_name, metric_order, created_at) VALUES (?, ?, ?, ?)",
		m.GoalID, m.Name, m.Order, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	if m.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("create metric: %w", err)
	}
	return nil
}

// AppendMetric adds a metric after the goal's current highest order.
func (d *DB) AppendMetric(goalID int64, name string) (*models.PerformanceMetric, error) {
	var maxOrder int
	err := d.db.QueryRow(
		"SELECT COALESCE(MAX(metric_order), -1) FROM goal_performance_metrics WHERE goal_id = ?",
		goalID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("max metric order: %w", err)
	}

	m := &models.PerformanceMetric{GoalID: goalID, Name: name, Order: maxOrder + 1}
	if err := d.CreateMetric(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MetricUpdate describes a partial metric update.
type MetricUpdate struct {
	Name  *string
	Order *int
}

// UpdateMetric applies a partial update to a metric.
func (d *DB) UpdateMetric(id int64, u *MetricUpdate) error {
	var sets []string
	var args []interface{}

	if u.Name != nil {
		sets = append(sets, "metric_name = ?")
		args = append(args, *u.Name)
	}
	if u.Order != nil {
		sets = append(sets, "metric_order = ?")
		args = append(args, *u.Order)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE goal_performance_metrics SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := d.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update metric: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update metric: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMetric removes a metric. Its performance entries cascade.
func (d *DB) DeleteMetric(id int64) error {
	result, err := d.db.Exec("DELETE FROM goal_performance_metrics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete metric: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GoalMetrics returns a goal's metrics in display order.
func (d *DB) GoalMetrics(goalID int64) ([]models.PerformanceMetric, error) {
	rows, err := d.db.Query(`
		SELECT id, goal_id, metric_name, metric_order, created_at
		FROM goal_performance_metrics
		WHERE goal_id = ? ORDER BY metric_order, id
	`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list goal metrics: %w", err)
	}
	defer rows.Close()

	metrics := []models.PerformanceMetric{}
	for rows.Next() {
		var m models.PerformanceMetric
		var createdAt string
		if err := rows.Scan(&m.ID, &m.GoalID, &m.Name, &m.Order, &createdAt); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		m.CreatedAt = parseTime(createdAt)
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
