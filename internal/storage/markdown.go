// ABOUTME: Markdown rendering of journal entries.
// ABOUTME: Fixed template: H1 title, metadata lines, one H2 per cycle stage.
package storage

import (
	"fmt"
	"strings"

	"github.com/harperreed/cycle/internal/models"
)

// EntryMarkdown renders an entry as Markdown. Empty stages render an
// italic placeholder; experiments render as H3 blocks with
// status/date/outcome bullets.
func EntryMarkdown(e *models.Entry) string {
	var lines []string

	title := e.Title
	if title == "" {
		title = "Untitled Entry"
	}
	lines = append(lines, "# "+title, "")

	lines = append(lines, "**Date:** "+e.OccurredAt.Format("2006-01-02"))
	domain := e.Domain
	if domain == "" {
		domain = "None"
	}
	lines = append(lines, "**Domain:** "+domain)
	lines = append(lines, "**Valence:** "+string(e.Valence))
	if len(e.Tags) > 0 {
		lines = append(lines, "**Tags:** "+strings.Join(e.Tags, ", "))
	}
	lines = append(lines, "")

	lines = append(lines, "## 1. Experience")
	lines = append(lines, textOrPlaceholder(e.ExperienceText, "*No experience recorded*"), "")

	lines = append(lines, "## 2. Reflection")
	lines = append(lines, textOrPlaceholder(e.ReflectionText, "*No reflection recorded*"), "")

	lines = append(lines, "## 3. Abstraction")
	lines = append(lines, textOrPlaceholder(e.AbstractionText, "*No abstraction recorded*"), "")

	lines = append(lines, "## 4. Experimentation")
	switch {
	case e.NoExperimentNeeded:
		lines = append(lines, "*No experiment needed for this entry*")
	case len(e.Experiments) > 0:
		for _, exp := range e.Experiments {
			lines = append(lines, "### Experiment: "+exp.Text)
			lines = append(lines, fmt.Sprintf("- **Status:** %s", exp.Status))
			if exp.StartDate != nil {
				lines = append(lines, "- **Start Date:** "+*exp.StartDate)
			}
			if exp.ReviewDate != nil {
				lines = append(lines, "- **Review Date:** "+*exp.ReviewDate)
			}
			if exp.OutcomeNotes != "" {
				lines = append(lines, "- **Outcome:** "+exp.OutcomeNotes)
			}
			lines = append(lines, "")
		}
	default:
		lines = append(lines, "*No experiments recorded*")
	}

	return strings.Join(lines, "\n")
}

func textOrPlaceholder(text, placeholder string) string {
	if text == "" {
		return placeholder
	}
	return text
}
