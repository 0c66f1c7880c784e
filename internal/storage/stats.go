// ABOUTME: Streak, completion-rate, and calendar heat map computations.
// ABOUTME: Implements the never-miss-twice streak rule over sparse daily logs.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/cycle/internal/models"
)

// maxStreakScanDays bounds the backward walk of the streak scan.
const maxStreakScanDays = 365

// Streak returns the goal's current streak under the never-miss-twice
// rule: a single missed day is tolerated, two consecutive missed days
// end the walk. Any day with a log row counts as logged, even one with
// no performance entries.
func (d *DB) Streak(goalID int64) (int, error) {
	return d.StreakAsOf(goalID, time.Now())
}

// StreakAsOf computes the streak walking backward from the given day.
func (d *DB) StreakAsOf(goalID int64, today time.Time) (int, error) {
	rows, err := d.db.Query(
		"SELECT log_date FROM goal_daily_logs WHERE goal_id = ?", goalID,
	)
	if err != nil {
		return 0, fmt.Errorf("streak: %w", err)
	}
	defer rows.Close()

	logged := map[string]bool{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return 0, fmt.Errorf("streak: %w", err)
		}
		logged[date] = true
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("streak: %w", err)
	}
	if len(logged) == 0 {
		return 0, nil
	}

	streak := 0
	misses := 0
	day := today
	for i := 0; i <= maxStreakScanDays; i++ {
		if logged[day.Format("2006-01-02")] {
			streak++
			misses = 0
		} else {
			misses++
			if misses >= 2 {
				break
			}
		}
		day = day.AddDate(0, 0, -1)
	}

	return streak, nil
}

// CompletionRate returns the percentage of performance entries marked
// completed over the trailing window, truncated to an integer. This is
// an entry-level ratio: a day with 3 of 5 metrics done contributes 3
// and 5, not one "completed day".
func (d *DB) CompletionRate(goalID int64, windowDays int) (int, error) {
	return d.CompletionRateAsOf(goalID, windowDays, time.Now())
}

// CompletionRateAsOf computes the completion rate with the window
// anchored at the given day.
func (d *DB) CompletionRateAsOf(goalID int64, windowDays int, today time.Time) (int, error) {
	var metricCount int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM goal_performance_metrics WHERE goal_id = ?", goalID,
	).Scan(&metricCount)
	if err != nil {
		return 0, fmt.Errorf("completion rate: %w", err)
	}
	if metricCount == 0 {
		return 0, nil
	}

	startDate := today.AddDate(0, 0, -windowDays).Format("2006-01-02")

	var completed, total int
	err = d.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN pe.completed = 1 THEN 1 ELSE 0 END), 0),
			COUNT(pe.id)
		FROM goal_daily_logs dl
		LEFT JOIN goal_performance_entries pe ON dl.id = pe.daily_log_id
		WHERE dl.goal_id = ? AND dl.log_date >= ?
	`, goalID, startDate).Scan(&completed, &total)
	if err != nil {
		return 0, fmt.Errorf("completion rate: %w", err)
	}
	if total == 0 {
		return 0, nil
	}

	return completed * 100 / total, nil
}

// CalendarData returns per-day heat map data over the trailing window.
// Only logged days appear; absent dates mean "not logged". The
// denominator is always the goal's current metric count, so historical
// fractions drift when metrics are added or removed later. That
// matches the shipped behavior and is kept deliberately.
func (d *DB) CalendarData(goalID int64, windowDays int) (map[string]models.CalendarDay, error) {
	return d.CalendarDataAsOf(goalID, windowDays, time.Now())
}

// CalendarDataAsOf computes calendar data with the window anchored at
// the given day.
func (d *DB) CalendarDataAsOf(goalID int64, windowDays int, today time.Time) (map[string]models.CalendarDay, error) {
	var metricCount int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM goal_performance_metrics WHERE goal_id = ?", goalID,
	).Scan(&metricCount)
	if err != nil {
		return nil, fmt.Errorf("calendar data: %w", err)
	}

	startDate := today.AddDate(0, 0, -windowDays).Format("2006-01-02")

	rows, err := d.db.Query(`
		SELECT
			dl.log_date,
			COALESCE(SUM(CASE WHEN pe.completed = 1 THEN 1 ELSE 0 END), 0),
			AVG(CASE WHEN pe.completed = 1 THEN pe.rating ELSE NULL END)
		FROM goal_daily_logs dl
		LEFT JOIN goal_performance_entries pe ON dl.id = pe.daily_log_id
		WHERE dl.goal_id = ? AND dl.log_date >= ?
		GROUP BY dl.log_date
		ORDER BY dl.log_date DESC
	`, goalID, startDate)
	if err != nil {
		return nil, fmt.Errorf("calendar data: %w", err)
	}
	defer rows.Close()

	calendar := map[string]models.CalendarDay{}
	for rows.Next() {
		var date string
		var completedCount int
		var avgRating sql.NullFloat64

		if err := rows.Scan(&date, &completedCount, &avgRating); err != nil {
			return nil, fmt.Errorf("scan calendar day: %w", err)
		}

		day := models.CalendarDay{Logged: true}
		if metricCount > 0 && completedCount > 0 {
			day.Completion = float64(completedCount) / float64(metricCount)
		}
		if avgRating.Valid {
			day.AvgRating = avgRating.Float64
		}
		calendar[date] = day
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calendar data: %w", err)
	}

	return calendar, nil
}
