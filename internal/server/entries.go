// ABOUTME: Entry API handlers: CRUD, filtered listing, and the complete gate.
// ABOUTME: PATCH bodies are partial; absent fields leave columns untouched.
package server

import (
	"net/http"
	"time"

	"github.com/harperreed/cycle/internal/models"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/labstack/echo/v4"
)

// entryRequest is the body for POST /api/entries. Everything is
// optional; a quick capture may carry a single field or none.
type entryRequest struct {
	Title                  string           `json:"title"`
	OccurredAt             string           `json:"occurred_at"`
	Domain                 string           `json:"domain"`
	Valence                string           `json:"valence"`
	ExperienceText         string           `json:"experience_text"`
	ReflectionText         string           `json:"reflection_text"`
	ReflectionPrompts      models.PromptMap `json:"reflection_prompts"`
	AbstractionText        string           `json:"abstraction_text"`
	AbstractionPrompts     models.PromptMap `json:"abstraction_prompts"`
	NoExperimentNeeded     bool             `json:"no_experiment_needed"`
	Tags                   []string         `json:"tags"`
	ReflectsOnExperimentID *int64           `json:"reflects_on_experiment_id"`
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	e := models.NewEntry()
	e.Title = req.Title
	e.Domain = req.Domain
	e.ExperienceText = req.ExperienceText
	e.ReflectionText = req.ReflectionText
	e.ReflectionPrompts = req.ReflectionPrompts
	e.AbstractionText = req.AbstractionText
	e.AbstractionPrompts = req.AbstractionPrompts
	e.NoExperimentNeeded = req.NoExperimentNeeded
	e.ReflectsOnExperimentID = req.ReflectsOnExperimentID

	if req.Valence != "" {
		if !models.IsValidValence(req.Valence) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid valence")
		}
		e.Valence = models.Valence(req.Valence)
	}
	if req.OccurredAt != "" {
		t, err := parseDateOrTime(req.OccurredAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid occurred_at")
		}
		e.OccurredAt = t
	}

	if err := s.db.CreateEntry(e); err != nil {
		return mapError(err)
	}
	if len(req.Tags) > 0 {
		if err := s.db.SetEntryTags(e.ID, req.Tags); err != nil {
			return mapError(err)
		}
	}

	full, err := s.db.GetEntry(e.ID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, full)
}

// entryListResponse is the body for GET /api/entries.
type entryListResponse struct {
	Entries []*models.Entry `json:"entries"`
	Total   int             `json:"total"`
}

func (s *Server) handleListEntries(c echo.Context) error {
	filters := &storage.EntryFilters{
		Search:           c.QueryParam("search"),
		Domain:           c.QueryParam("domain"),
		Valence:          c.QueryParam("valence"),
		Status:           c.QueryParam("status"),
		HasExperiments:   c.QueryParam("has_experiments") == "true",
		DateFrom:         c.QueryParam("date_from"),
		DateTo:           c.QueryParam("date_to"),
		Tag:              c.QueryParam("tag"),
		ExperimentStatus: c.QueryParam("experiment_status"),
	}

	limit := 50
	offset := 0
	if err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}

	entries, err := s.db.ListEntries(filters, c.QueryParam("sort"), limit, offset)
	if err != nil {
		return mapError(err)
	}
	total, err := s.db.CountEntries(filters)
	if err != nil {
		return mapError(err)
	}
	if entries == nil {
		entries = []*models.Entry{}
	}
	return c.JSON(http.StatusOK, entryListResponse{Entries: entries, Total: total})
}

func (s *Server) handleGetEntry(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	e, err := s.db.GetEntry(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, e)
}

// entryPatch is the body for PATCH /api/entries/:id.
type entryPatch struct {
	Title                  *string          `json:"title"`
	OccurredAt             *string          `json:"occurred_at"`
	Domain                 *string          `json:"domain"`
	Valence                *string          `json:"valence"`
	ExperienceText         *string          `json:"experience_text"`
	ReflectionText         *string          `json:"reflection_text"`
	ReflectionPrompts      models.PromptMap `json:"reflection_prompts"`
	AbstractionText        *string          `json:"abstraction_text"`
	AbstractionPrompts     models.PromptMap `json:"abstraction_prompts"`
	NoExperimentNeeded     *bool            `json:"no_experiment_needed"`
	CurrentStep            *int             `json:"current_step"`
	Tags                   []string         `json:"tags"`
	ReflectsOnExperimentID optInt64         `json:"reflects_on_experiment_id"`
}

func (s *Server) handleUpdateEntry(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req entryPatch
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u := &storage.EntryUpdate{
		Title:                  req.Title,
		Domain:                 req.Domain,
		ExperienceText:         req.ExperienceText,
		ReflectionText:         req.ReflectionText,
		ReflectionPrompts:      req.ReflectionPrompts,
		AbstractionText:        req.AbstractionText,
		AbstractionPrompts:     req.AbstractionPrompts,
		NoExperimentNeeded:     req.NoExperimentNeeded,
		CurrentStep:            req.CurrentStep,
		ReflectsOnExperimentID: req.ReflectsOnExperimentID.Value,
		ReflectsOnSet:          req.ReflectsOnExperimentID.Set,
	}
	if req.Valence != nil {
		if !models.IsValidValence(*req.Valence) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid valence")
		}
		v := models.Valence(*req.Valence)
		u.Valence = &v
	}
	if req.OccurredAt != nil {
		t, err := parseDateOrTime(*req.OccurredAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid occurred_at")
		}
		u.OccurredAt = &t
	}

	if err := s.db.UpdateEntry(id, u); err != nil {
		return mapError(err)
	}
	if req.Tags != nil {
		if err := s.db.SetEntryTags(id, req.Tags); err != nil {
			return mapError(err)
		}
	}

	e, err := s.db.GetEntry(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.DeleteEntry(id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCompleteEntry(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	e, err := s.db.GetEntry(id)
	if err != nil {
		return mapError(err)
	}
	if ok, reason := e.CanMarkComplete(); !ok {
		return echo.NewHTTPError(http.StatusBadRequest, reason)
	}

	complete := true
	if err := s.db.UpdateEntry(id, &storage.EntryUpdate{IsComplete: &complete}); err != nil {
		return mapError(err)
	}

	e, err = s.db.GetEntry(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, e)
}

// entryLinkRequest is the body for POST /api/entries/:id/links.
type entryLinkRequest struct {
	ToEntryID int64  `json:"to_entry_id"`
	LinkType  string `json:"link_type"`
}

func (s *Server) handleCreateEntryLink(c echo.Context) error {
	fromID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req entryLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// Both ends must exist before linking.
	if _, err := s.db.GetEntry(fromID); err != nil {
		return mapError(err)
	}
	if _, err := s.db.GetEntry(req.ToEntryID); err != nil {
		return mapError(err)
	}

	id, err := s.db.CreateEntryLink(fromID, req.ToEntryID, req.LinkType)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleEntryLinks(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	links, err := s.db.EntryLinks(id)
	if err != nil {
		return mapError(err)
	}
	if links == nil {
		links = []storage.EntryLink{}
	}
	return c.JSON(http.StatusOK, links)
}

// parseDateOrTime accepts RFC 3339 timestamps and bare dates.
func parseDateOrTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
