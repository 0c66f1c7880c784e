// ABOUTME: Experiment model and status enum.
// ABOUTME: Includes the advisory specificity linter for experiment text.
package models

import (
	"strings"
	"time"
)

// ExperimentStatus represents the lifecycle state of an experiment.
type ExperimentStatus string

const (
	StatusPlanned   ExperimentStatus = "planned"
	StatusActive    ExperimentStatus = "active"
	StatusCompleted ExperimentStatus = "completed"
	StatusAbandoned ExperimentStatus = "abandoned"
)

// AllExperimentStatuses returns all valid experiment statuses.
var AllExperimentStatuses = []ExperimentStatus{
	StatusPlanned, StatusActive, StatusCompleted, StatusAbandoned,
}

// IsValidExperimentStatus checks if a string is a valid status.
func IsValidExperimentStatus(s string) bool {
	for _, st := range AllExperimentStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Experiment is an actionable follow-up committed from an Entry.
// It always belongs to exactly one entry.
type Experiment struct {
	ID           int64            `json:"id"`
	EntryID      int64            `json:"entry_id"`
	Text         string           `json:"text"`
	Status       ExperimentStatus `json:"status"`
	StartDate    *string          `json:"start_date"`
	ReviewDate   *string          `json:"review_date"`
	OutcomeNotes string           `json:"outcome_notes"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	// EntryTitle is populated on cross-entry listings only.
	EntryTitle string `json:"entry_title,omitempty"`
}

var vaguePhrases = []string{
	"try harder",
	"do better",
	"be more",
	"work on",
	"improve",
	"focus more",
	"remember to",
	"try to",
}

var actionVerbs = []string{
	"write", "create", "build", "schedule", "call", "email", "set",
	"measure", "track", "record", "practice", "read", "ask", "tell",
	"start", "stop", "use", "implement", "test", "review", "complete",
}

// ValidateExperimentText checks whether experiment text is specific
// enough. Empty text is the only hard failure; everything else is
// valid, optionally with a single advisory warning. Both checks use
// case-insensitive substring matching, not whole words, so "improved"
// matches "improve" and "used" matches "use".
func ValidateExperimentText(text string) (bool, string) {
	if text == "" {
		return false, "Experiment text is required"
	}

	lower := strings.ToLower(text)
	words := len(strings.Fields(text))

	for _, phrase := range vaguePhrases {
		if strings.Contains(lower, phrase) && words < 8 {
			return true, "Consider being more specific. What exactly will you do?"
		}
	}

	hasVerb := false
	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			hasVerb = true
			break
		}
	}
	if !hasVerb && words < 5 {
		return true, "Try to include a specific action verb."
	}

	return true, ""
}
