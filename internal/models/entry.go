// ABOUTME: Entry model for the four-stage learning cycle.
// ABOUTME: Defines Valence enum, prompt maps, and completion logic.
package models

import (
	"time"
)

// Valence represents the emotional charge of a recorded experience.
type Valence string

const (
	ValencePositive Valence = "positive"
	ValenceNegative Valence = "negative"
	ValenceNeutral  Valence = "neutral"
)

// AllValences returns all valid valence values.
var AllValences = []Valence{ValencePositive, ValenceNegative, ValenceNeutral}

// IsValidValence checks if a string is a valid valence.
func IsValidValence(s string) bool {
	for _, v := range AllValences {
		if string(v) == s {
			return true
		}
	}
	return false
}

// StepLabels are the four learning-cycle steps in fixed display order.
var StepLabels = []string{"Experience", "Reflection", "Abstraction", "Experimentation"}

// Entry represents one learning-cycle record. The four stages are free
// text for experience/reflection/abstraction; experimentation is
// represented by the child Experiments (or the NoExperimentNeeded flag).
type Entry struct {
	ID                     int64        `json:"id"`
	Title                  string       `json:"title"`
	OccurredAt             time.Time    `json:"occurred_at"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
	Domain                 string       `json:"domain"`
	Valence                Valence      `json:"valence"`
	ExperienceText         string       `json:"experience_text"`
	ReflectionText         string       `json:"reflection_text"`
	ReflectionPrompts      PromptMap    `json:"reflection_prompts"`
	AbstractionText        string       `json:"abstraction_text"`
	AbstractionPrompts     PromptMap    `json:"abstraction_prompts"`
	NoExperimentNeeded     bool         `json:"no_experiment_needed"`
	IsComplete             bool         `json:"is_complete"`
	CurrentStep            int          `json:"current_step"`
	ReflectsOnExperimentID *int64       `json:"reflects_on_experiment_id"`
	Tags                   []string     `json:"tags"`
	Experiments            []Experiment `json:"experiments"`
	// ReflectsOnExperiment is hydrated on single-entry reads when the
	// backward link is set.
	ReflectsOnExperiment *Experiment `json:"reflects_on_experiment,omitempty"`
	// ExperimentCount is populated on list views only.
	ExperimentCount int `json:"experiment_count,omitempty"`
}

// NewEntry creates an Entry with defaults matching a quick capture:
// neutral valence, step 1, current timestamps.
func NewEntry() *Entry {
	now := time.Now()
	return &Entry{
		OccurredAt:         now,
		CreatedAt:          now,
		UpdatedAt:          now,
		Valence:            ValenceNeutral,
		ReflectionPrompts:  PromptMap{},
		AbstractionPrompts: PromptMap{},
		CurrentStep:        1,
	}
}

// experimentationSatisfied reports whether the fourth step counts as done:
// at least one experiment exists, or the entry opted out explicitly.
func (e *Entry) experimentationSatisfied() bool {
	return len(e.Experiments) > 0 || e.NoExperimentNeeded
}

// Completion returns the completion score as one of 0, 25, 50, 75, 100.
// It is recomputed from the entry's current state on every call and is
// never persisted.
func (e *Entry) Completion() int {
	steps := 0
	if e.ExperienceText != "" {
		steps++
	}
	if e.ReflectionText != "" {
		steps++
	}
	if e.AbstractionText != "" {
		steps++
	}
	if e.experimentationSatisfied() {
		steps++
	}
	return steps * 100 / 4
}

// MissingSteps returns labels for each unsatisfied step, in the fixed
// Experience / Reflection / Abstraction / Experimentation order. Used
// for UI guidance only, never as an error.
func (e *Entry) MissingSteps() []string {
	var missing []string
	if e.ExperienceText == "" {
		missing = append(missing, "Experience")
	}
	if e.ReflectionText == "" {
		missing = append(missing, "Reflection")
	}
	if e.AbstractionText == "" {
		missing = append(missing, "Abstraction")
	}
	if !e.experimentationSatisfied() {
		missing = append(missing, "Experimentation")
	}
	return missing
}

// CanMarkComplete reports whether the entry may be marked complete,
// with a user-facing reason when it may not. The conditions are the
// same four that Completion counts, so ok is true exactly when
// Completion returns 100.
func (e *Entry) CanMarkComplete() (bool, string) {
	if e.ExperienceText == "" {
		return false, "Experience text is required"
	}
	if e.ReflectionText == "" {
		return false, "Reflection text is required"
	}
	if e.AbstractionText == "" {
		return false, "Abstraction text is required"
	}
	if !e.experimentationSatisfied() {
		return false, "At least one experiment is required (or mark 'No experiment needed')"
	}
	return true, ""
}
