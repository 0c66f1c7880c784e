// ABOUTME: Goal API handlers: dashboard, CRUD, cap enforcement,
// ABOUTME: metrics, risks, daily logs, and the calendar heat map.
package server

import (
	"net/http"

	"github.com/harperreed/cycle/internal/models"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/labstack/echo/v4"
)

// goalListResponse is the body for GET /api/goals.
type goalListResponse struct {
	Goals []*models.Goal         `json:"goals"`
	Stats *models.DashboardStats `json:"stats"`
}

func (s *Server) handleListGoals(c echo.Context) error {
	includeArchived := c.QueryParam("include_archived") == "true"

	goals, err := s.db.ListGoals(includeArchived)
	if err != nil {
		return mapError(err)
	}
	stats, err := s.db.DashboardStats()
	if err != nil {
		return mapError(err)
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	return c.JSON(http.StatusOK, goalListResponse{Goals: goals, Stats: stats})
}

// goalRequest is the body for POST /api/goals.
type goalRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	OutcomeTarget string   `json:"outcome_target"`
	TargetDate    *string  `json:"target_date"`
	TargetMetric  string   `json:"target_metric"`
	Metrics       []string `json:"metrics"`
}

func (s *Server) handleCreateGoal(c echo.Context) error {
	var req goalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Goal title is required")
	}

	g := &models.Goal{
		Title:         req.Title,
		Description:   req.Description,
		OutcomeTarget: req.OutcomeTarget,
		TargetDate:    req.TargetDate,
		TargetMetric:  req.TargetMetric,
	}
	for i, name := range req.Metrics {
		g.Metrics = append(g.Metrics, models.PerformanceMetric{Name: name, Order: i})
	}

	if err := s.db.CreateGoal(g); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) handleGetGoal(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	g, err := s.db.GetGoal(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, g)
}

// goalPatch is the body for PATCH /api/goals/:id.
type goalPatch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	OutcomeTarget *string `json:"outcome_target"`
	TargetDate    optStr  `json:"target_date"`
	TargetMetric  *string `json:"target_metric"`
}

func (s *Server) handleUpdateGoal(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req goalPatch
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Title != nil && *req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Goal title is required")
	}

	u := &storage.GoalUpdate{
		Title:         req.Title,
		Description:   req.Description,
		OutcomeTarget: req.OutcomeTarget,
		TargetDate:    req.TargetDate.Value,
		TargetDateSet: req.TargetDate.Set,
		TargetMetric:  req.TargetMetric,
	}
	if err := s.db.UpdateGoal(id, u); err != nil {
		return mapError(err)
	}

	g, err := s.db.GetGoal(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.DeleteGoal(id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleArchiveGoal(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.ArchiveGoal(id); err != nil {
		return mapError(err)
	}
	g, err := s.db.GetGoal(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleUnarchiveGoal(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.UnarchiveGoal(id); err != nil {
		return mapError(err)
	}
	g, err := s.db.GetGoal(id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, g)
}

// metricRequest is the body for POST /api/goals/:id/metrics.
type metricRequest struct {
	Name string `json:"metric_name"`
}

func (s *Server) handleAddMetric(c echo.Context) error {
	goalID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.db.GetGoal(goalID); err != nil {
		return mapError(err)
	}

	var req metricRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Metric name is required")
	}

	m, err := s.db.AppendMetric(goalID, req.Name)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (s *Server) handleDeleteMetric(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.DeleteMetric(id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// riskRequest is the body for POST /api/goals/:id/risks.
type riskRequest struct {
	RiskDescription string `json:"risk_description"`
	ScriptedAction  string `json:"scripted_action"`
}

func (s *Server) handleAddRisk(c echo.Context) error {
	goalID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.db.GetGoal(goalID); err != nil {
		return mapError(err)
	}

	var req riskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RiskDescription == "" || req.ScriptedAction == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Risk description and scripted action are required")
	}

	r := &models.GoalRisk{
		GoalID:          goalID,
		RiskDescription: req.RiskDescription,
		ScriptedAction:  req.ScriptedAction,
	}
	if err := s.db.CreateRisk(r); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) handleDeleteRisk(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.db.DeleteRisk(id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// dailyLogRequest is the body for POST /api/goals/:id/log.
type dailyLogRequest struct {
	LogDate string                     `json:"log_date"`
	Notes   string                     `json:"notes"`
	Entries []storage.PerformanceInput `json:"entries"`
}

// dailyLogResponse returns the saved day plus the recomputed streak and
// 30-day completion rate, so the UI can refresh both in one round trip.
type dailyLogResponse struct {
	Log            *models.DailyLog `json:"log"`
	Streak         int              `json:"streak"`
	CompletionRate int              `json:"completion_rate"`
}

func (s *Server) handleSaveDailyLog(c echo.Context) error {
	goalID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.db.GetGoal(goalID); err != nil {
		return mapError(err)
	}

	var req dailyLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.LogDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "log_date is required")
	}
	if _, err := parseDateOrTime(req.LogDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid log_date")
	}

	if _, err := s.db.SaveDailyLog(goalID, req.LogDate, req.Entries, req.Notes); err != nil {
		return mapError(err)
	}

	log, err := s.db.GetDailyLog(goalID, req.LogDate)
	if err != nil {
		return mapError(err)
	}
	streak, err := s.db.Streak(goalID)
	if err != nil {
		return mapError(err)
	}
	rate, err := s.db.CompletionRate(goalID, 30)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, dailyLogResponse{
		Log:            log,
		Streak:         streak,
		CompletionRate: rate,
	})
}

func (s *Server) handleGetDailyLog(c echo.Context) error {
	goalID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	log, err := s.db.GetDailyLog(goalID, c.Param("date"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, log)
}

func (s *Server) handleGoalCalendar(c echo.Context) error {
	goalID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := s.db.GetGoal(goalID); err != nil {
		return mapError(err)
	}

	days := 90
	if err := echo.QueryParamsBinder(c).Int("days", &days).BindError(); err != nil || days < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
	}

	calendar, err := s.db.CalendarData(goalID, days)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, calendar)
}
