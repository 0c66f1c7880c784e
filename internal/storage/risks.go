// ABOUTME: Goal risk CRUD operations.
// ABOUTME: A risk always pairs a description with a pre-committed action.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

// CreateRisk adds a risk entry to a goal. Both the description and
// the scripted action are required.
func (d *DB) CreateRisk(r *models.GoalRisk) error {
	if strings.TrimSpace(r.RiskDescription) == "" || strings.TrimSpace(r.ScriptedAction) == "" {
		return fmt.Errorf("risk description and scripted action are both required")
	}
	r.CreatedAt = time.Now()

	result, err := d.db.Exec(
		"INSERT INTO goal_risks (goal_id, risk_description, scripted_action, created_at) VALUES (?, ?, ?, ?)",
		r.GoalID, r.RiskDescription, r.ScriptedAction, formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create risk: %w", err)
	}
	if r.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("create risk: %w", err)
	}
	return nil
}

// RiskUpdate describes a partial risk update.
type RiskUpdate struct {
	RiskDescription *string
	ScriptedAction  *string
}

// UpdateRisk applies a partial update to a risk.
func (d *DB) UpdateRisk(id int64, u *RiskUpdate) error {
	var sets []string
	var args []interface{}

	if u.RiskDescription != nil {
		if strings.TrimSpace(*u.RiskDescription) == "" {
			return fmt.Errorf("risk description is required")
		}
		sets = append(sets, "risk_description = ?")
		args = append(args, *u.RiskDescription)
	}
	if u.ScriptedAction != nil {
		if strings.TrimSpace(*u.ScriptedAction) == "" {
			return fmt.Errorf("scripted action is required")
		}
		sets = append(sets, "scripted_action = ?")
		args = append(args, *u.ScriptedAction)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE goal_risks SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := d.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update risk: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update risk: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRisk removes a risk entry.
func (d *DB) DeleteRisk(id int64) error {
	result, err := d.db.Exec("DELETE FROM goal_risks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete risk: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete risk: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GoalRisks returns a goal's risks, newest first.
func (d *DB) GoalRisks(goalID int64) ([]models.GoalRisk, error) {
	rows, err := d.db.Query(`
		SELECT id, goal_id, risk_description, scripted_action, created_at
		FROM goal_risks
		WHERE goal_id = ? ORDER BY created_at DESC, id DESC
	`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list goal risks: %w", err)
	}
	defer rows.Close()

	risks := []models.GoalRisk{}
	for rows.Next() {
		var r models.GoalRisk
		var createdAt string
		if err := rows.Scan(&r.ID, &r.GoalID, &r.RiskDescription, &r.ScriptedAction, &createdAt); err != nil {
			return nil, fmt.Errorf("scan risk: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		risks = append(risks, r)
	}
	return risks, rows.Err()
}
