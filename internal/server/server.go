// ABOUTME: HTTP API server for the cycle journal.
// ABOUTME: echo with recover/request-id middleware and zap request logging.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/harperreed/cycle/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server provides the JSON API over the storage layer.
type Server struct {
	echo   *echo.Echo
	db     *storage.DB
	logger *zap.Logger
	addr   string
}

// New creates the HTTP server and registers all routes.
func New(db *storage.DB, logger *zap.Logger, addr string) (*Server, error) {
	if db == nil {
		return nil, errors.New("storage is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:   e,
		db:     db,
		logger: logger,
		addr:   addr,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")

	api.POST("/entries", s.handleCreateEntry)
	api.GET("/entries", s.handleListEntries)
	api.GET("/entries/:id", s.handleGetEntry)
	api.PATCH("/entries/:id", s.handleUpdateEntry)
	api.DELETE("/entries/:id", s.handleDeleteEntry)
	api.POST("/entries/:id/complete", s.handleCompleteEntry)
	api.POST("/entries/:id/experiments", s.handleAddExperiment)
	api.GET("/entries/:id/links", s.handleEntryLinks)
	api.POST("/entries/:id/links", s.handleCreateEntryLink)

	api.PATCH("/experiments/:id", s.handleUpdateExperiment)
	api.DELETE("/experiments/:id", s.handleDeleteExperiment)
	api.GET("/experiments/active", s.handleActiveExperiments)

	api.POST("/tags", s.handleCreateTag)
	api.GET("/tags", s.handleListTags)
	api.GET("/domains", s.handleListDomains)

	api.GET("/goals", s.handleListGoals)
	api.POST("/goals", s.handleCreateGoal)
	api.GET("/goals/:id", s.handleGetGoal)
	api.PATCH("/goals/:id", s.handleUpdateGoal)
	api.DELETE("/goals/:id", s.handleDeleteGoal)
	api.POST("/goals/:id/archive", s.handleArchiveGoal)
	api.POST("/goals/:id/unarchive", s.handleUnarchiveGoal)

	api.POST("/goals/:id/metrics", s.handleAddMetric)
	api.DELETE("/metrics/:id", s.handleDeleteMetric)
	api.POST("/goals/:id/risks", s.handleAddRisk)
	api.DELETE("/risks/:id", s.handleDeleteRisk)

	api.POST("/goals/:id/log", s.handleSaveDailyLog)
	api.GET("/goals/:id/log/:date", s.handleGetDailyLog)
	api.GET("/goals/:id/calendar", s.handleGoalCalendar)

	api.GET("/export/entries/:id/markdown", s.handleExportEntryMarkdown)
	api.GET("/export/json", s.handleExportJSON)
	api.GET("/export/yaml", s.handleExportYAML)
	api.GET("/export/zip", s.handleExportZip)

	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handlePutSettings)
	api.POST("/backup", s.handleBackup)
	api.POST("/seed", s.handleSeed)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Handler exposes the echo instance for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// mapError translates storage errors onto HTTP status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, storage.ErrGoalLimit):
		return echo.NewHTTPError(http.StatusBadRequest, "Maximum 3 active goals allowed")
	default:
		return err
	}
}

// idParam parses the named path parameter as an int64 ID.
func idParam(c echo.Context, name string) (int64, error) {
	var id int64
	if err := echo.PathParamsBinder(c).Int64(name, &id).BindError(); err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
