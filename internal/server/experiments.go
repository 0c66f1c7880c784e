// ABOUTME: Experiment API handlers, including the specificity linter.
// ABOUTME: Linter warnings are advisory; only empty text blocks a create.
package server

import (
	"net/http"

	"github.com/harperreed/cycle/internal/models"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/labstack/echo/v4"
)

// experimentRequest is the body for POST /api/entries/:id/experiments.
type experimentRequest struct {
	Text         string  `json:"text"`
	Status       string  `json:"status"`
	StartDate    *string `json:"start_date"`
	ReviewDate   *string `json:"review_date"`
	OutcomeNotes string  `json:"outcome_notes"`
}

// experimentResponse carries the created experiment plus any advisory
// specificity warning.
type experimentResponse struct {
	Experiment *models.Experiment `json:"experiment"`
	Warning    string             `json:"warning,omitempty"`
}

func (s *Server) handleAddExperiment(c echo.Context) error {
	entryID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	// The owning entry must exist; experiments are never orphaned.
	if _, err := s.db.GetEntry(entryID); err != nil {
		return mapError(err)
	}

	var req experimentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ok, warning := models.ValidateExperimentText(req.Text)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, warning)
	}
	if req.Status != "" && !models.IsValidExperimentStatus(req.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	exp := &models.Experiment{
		EntryID:      entryID,
		Text:         req.Text,
		Status:       models.ExperimentStatus(req.Status),
		StartDate:    req.StartDate,
		ReviewDate:   req.ReviewDate,
		OutcomeNotes: req.OutcomeNotes,
	}
	if err := s.db.CreateExperiment(exp); err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusCreated, experimentResponse{Experiment: exp, Warning: warning})
}

// experimentPatch is the body for PATCH /api/experiments/:id.
type experimentPatch struct {
	Text         *string `json:"text"`
	Status       *string `json:"status"`
	StartDate    optStr  `json:"start_date"`
	ReviewDate   optStr  `json:"review_date"`
	OutcomeNotes *string `json:"outcome_notes"`
}

func (s *Server) handleUpdateExperiment(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req experimentPatch
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u := &storage.ExperimentUpdate{
		Text:          req.Text,
		StartDate:     req.StartDate.Value,
		StartDateSet:  req.StartDate.Set,
		ReviewDate:    req.ReviewDate.Value,
		ReviewDateSet: req.ReviewDate.Set,
		OutcomeNotes:  req.OutcomeNotes,
	}

	var warning string
	if req.Text != nil {
		ok, w := models.ValidateExperimentText(*req.Text)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, w)
		}
		warning = w
	}
	if req.Status != nil {
		if !models.IsValidExperimentStatus(*req.Status) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		st := models.ExperimentStatus(*req.Status)
		u.Status = &st
	}

	if err := s.db.UpdateExperiment(id, u); err != nil {
		return mapError(err)
	}
	exp, err := s.db.GetExperiment(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, experimentResponse{Experiment: exp, Warning: warning})
}

func (s *Server) handleDeleteExperiment(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.DeleteExperiment(id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleActiveExperiments(c echo.Context) error {
	experiments, err := s.db.ActiveExperiments()
	if err != nil {
		return mapError(err)
	}
	if experiments == nil {
		experiments = []*models.Experiment{}
	}
	return c.JSON(http.StatusOK, experiments)
}
