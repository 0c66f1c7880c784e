// ABOUTME: Sample data seeding for demos and manual testing.
// ABOUTME: No-op when any entries already exist.
package storage

import (
	"fmt"

	"github.com/harperreed/cycle/internal/models"
)

// SeedSampleData creates a handful of example entries and experiments.
// It does nothing if the journal already has entries.
func (d *DB) SeedSampleData() error {
	count, err := d.CountEntries(nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Complete entry with two experiments.
	e1 := models.NewEntry()
	e1.Title = "Difficult team meeting"
	e1.Domain = "work"
	e1.Valence = models.ValenceNegative
	e1.ExperienceText = "Had a team meeting where my proposal was rejected. I felt frustrated when colleagues didn't seem to understand my reasoning despite preparing thoroughly."
	e1.ReflectionText = "- Felt defensive when questions were asked\n- Got impatient explaining details\n- Noticed I was speaking faster than usual"
	e1.AbstractionText = "I tend to assume others have the same context I do. When I'm tired, I skip over foundational explanations."
	e1.CurrentStep = 4
	if err := d.CreateEntry(e1); err != nil {
		return fmt.Errorf("seed entry: %w", err)
	}

	startDate := "2026-02-15"
	reviewDate := "2026-02-25"
	exp1 := &models.Experiment{
		EntryID:    e1.ID,
		Text:       `Before next presentation, write a 3-bullet "context summary" for people unfamiliar with the project`,
		Status:     models.StatusActive,
		StartDate:  &startDate,
		ReviewDate: &reviewDate,
	}
	if err := d.CreateExperiment(exp1); err != nil {
		return fmt.Errorf("seed experiment: %w", err)
	}

	reviewDate2 := "2026-03-01"
	exp2 := &models.Experiment{
		EntryID:    e1.ID,
		Text:       "Get 7+ hours sleep the night before important meetings",
		Status:     models.StatusPlanned,
		ReviewDate: &reviewDate2,
	}
	if err := d.CreateExperiment(exp2); err != nil {
		return fmt.Errorf("seed experiment: %w", err)
	}

	if err := d.SetEntryTags(e1.ID, []string{"communication", "meetings", "presentations"}); err != nil {
		return err
	}
	complete := true
	if err := d.UpdateEntry(e1.ID, &EntryUpdate{IsComplete: &complete}); err != nil {
		return err
	}

	// Draft entry.
	e2 := models.NewEntry()
	e2.Title = "Morning workout success"
	e2.Domain = "health"
	e2.Valence = models.ValencePositive
	e2.ExperienceText = "Completed my first 5am workout in months. Felt energized for the rest of the day."
	e2.CurrentStep = 2
	if err := d.CreateEntry(e2); err != nil {
		return fmt.Errorf("seed entry: %w", err)
	}
	if err := d.SetEntryTags(e2.ID, []string{"exercise", "habits"}); err != nil {
		return err
	}

	// Quick capture.
	e3 := models.NewEntry()
	e3.Title = "Debugging insight"
	e3.Domain = "study"
	e3.ExperienceText = "Spent 2 hours on a bug that was caused by a simple typo. Found it by explaining the code line-by-line to myself."
	if err := d.CreateEntry(e3); err != nil {
		return fmt.Errorf("seed entry: %w", err)
	}
	if err := d.SetEntryTags(e3.ID, []string{"debugging", "programming"}); err != nil {
		return err
	}

	return nil
}
