// ABOUTME: Export, settings, backup, and seed API handlers.
// ABOUTME: Export endpoints stream downloads; the rest are plain JSON.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/harperreed/cycle/internal/storage"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleExportEntryMarkdown(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	e, err := s.db.GetEntry(id)
	if err != nil {
		return mapError(err)
	}

	name := storage.EntryExportName(e)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(storage.EntryMarkdown(e)))
}

func (s *Server) handleExportJSON(c echo.Context) error {
	data, err := s.db.ExportJSON()
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		exportDisposition("json"))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) handleExportYAML(c echo.Context) error {
	data, err := s.db.ExportYAML()
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		exportDisposition("yaml"))
	return c.Blob(http.StatusOK, "application/x-yaml", data)
}

func (s *Server) handleExportZip(c echo.Context) error {
	data, err := s.db.ExportZip()
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		exportDisposition("zip"))
	return c.Blob(http.StatusOK, "application/zip", data)
}

func exportDisposition(ext string) string {
	stamp := time.Now().Format("20060102")
	return fmt.Sprintf(`attachment; filename="cycle-export-%s.%s"`, stamp, ext)
}

func (s *Server) handleGetSettings(c echo.Context) error {
	settings, err := s.db.AllSettings()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (s *Server) handlePutSettings(c echo.Context) error {
	var req map[string]string
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	for key, value := range req {
		if err := s.db.SetSetting(key, value); err != nil {
			return mapError(err)
		}
	}

	settings, err := s.db.AllSettings()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, settings)
}

// backupResponse is the body for POST /api/backup.
type backupResponse struct {
	Path string `json:"path"`
}

func (s *Server) handleBackup(c echo.Context) error {
	path, err := s.db.Backup()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, backupResponse{Path: path})
}

func (s *Server) handleSeed(c echo.Context) error {
	if err := s.db.SeedSampleData(); err != nil {
		return mapError(err)
	}
	count, err := s.db.CountEntries(nil)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"entry_count": count})
}
