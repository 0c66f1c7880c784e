// ABOUTME: Tag and domain API handlers.
// ABOUTME: Tag creation is idempotent; names normalize to lowercase.
package server

import (
	"net/http"
	"strings"

	"github.com/harperreed/cycle/internal/storage"
	"github.com/labstack/echo/v4"
)

// tagRequest is the body for POST /api/tags.
type tagRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateTag(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	id, err := s.db.GetOrCreateTag(req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tag name is required")
	}
	name := strings.ToLower(strings.TrimSpace(req.Name))
	return c.JSON(http.StatusCreated, storage.Tag{ID: id, Name: name})
}

func (s *Server) handleListTags(c echo.Context) error {
	tags, err := s.db.ListTags()
	if err != nil {
		return mapError(err)
	}
	if tags == nil {
		tags = []storage.Tag{}
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) handleListDomains(c echo.Context) error {
	domains, err := s.db.Domains()
	if err != nil {
		return mapError(err)
	}
	if domains == nil {
		domains = []string{}
	}
	return c.JSON(http.StatusOK, domains)
}
