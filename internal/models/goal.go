// ABOUTME: Goal, PerformanceMetric, DailyLog, PerformanceEntry, and GoalRisk models.
// ABOUTME: Defines the goal-tracking entities and the active-goal cap.
package models

import "time"

// MaxActiveGoals is the cap on concurrently active (non-archived) goals.
const MaxActiveGoals = 3

// Goal is a tracked outcome with daily habit metrics, risks, and logs.
type Goal struct {
	ID            int64               `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	OutcomeTarget string              `json:"outcome_target"`
	TargetDate    *string             `json:"target_date"`
	TargetMetric  string              `json:"target_metric"`
	IsArchived    bool                `json:"is_archived"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Metrics       []PerformanceMetric `json:"metrics,omitempty"`
	Risks         []GoalRisk          `json:"risks,omitempty"`
	RecentLogs    []DailyLog          `json:"recent_logs,omitempty"`
	// List-view extras, populated by ListGoals only.
	MetricCount int     `json:"metric_count,omitempty"`
	LastLogDate *string `json:"last_log_date,omitempty"`
}

// PerformanceMetric is one trackable daily behavior under a goal.
// Order is an advisory, non-unique sort key.
type PerformanceMetric struct {
	ID        int64     `json:"id"`
	GoalID    int64     `json:"goal_id"`
	Name      string    `json:"metric_name"`
	Order     int       `json:"metric_order"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyLog is one day's record for a goal. Exactly one exists per
// (goal, date); saves for an existing date update in place.
type DailyLog struct {
	ID        int64              `json:"id"`
	GoalID    int64              `json:"goal_id"`
	LogDate   string             `json:"log_date"`
	Notes     string             `json:"notes"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Entries   []PerformanceEntry `json:"entries,omitempty"`
}

// PerformanceEntry records one metric's result for one daily log.
// Exactly one exists per (daily log, metric); saves upsert.
type PerformanceEntry struct {
	ID         int64  `json:"id"`
	DailyLogID int64  `json:"daily_log_id"`
	MetricID   int64  `json:"metric_id"`
	Completed  bool   `json:"completed"`
	Rating     int    `json:"rating"`
	Notes      string `json:"notes"`
	// MetricName is joined in when reading a log.
	MetricName string `json:"metric_name,omitempty"`
}

// GoalRisk pairs a risk description with a pre-committed mitigation
// action. Both fields are required at the validation boundary.
type GoalRisk struct {
	ID              int64     `json:"id"`
	GoalID          int64     `json:"goal_id"`
	RiskDescription string    `json:"risk_description"`
	ScriptedAction  string    `json:"scripted_action"`
	CreatedAt       time.Time `json:"created_at"`
}

// DashboardStats summarizes the goals dashboard.
type DashboardStats struct {
	ActiveCount   int  `json:"active_count"`
	ArchivedCount int  `json:"archived_count"`
	LogsThisWeek  int  `json:"logs_this_week"`
	CanCreate     bool `json:"can_create"`
}

// CalendarDay is one logged day in the calendar heat map. Completion is
// completed entries divided by the goal's current metric count.
type CalendarDay struct {
	Completion float64 `json:"completion"`
	AvgRating  float64 `json:"avg_rating"`
	Logged     bool    `json:"logged"`
}
