// ABOUTME: HTTP handler tests over a real temp-file SQLite database.
// ABOUTME: Covers error mapping, the goal cap, and the complete gate.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/cycle/internal/models"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := New(db, zap.NewNop(), "127.0.0.1:0")
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoHeaderContentType, "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCreateEntry(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries",
		`{"title":"First","experience_text":"it happened","valence":"negative","tags":["Work","work"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.NotZero(t, e.ID)
	assert.Equal(t, "First", e.Title)
	assert.Equal(t, models.ValenceNegative, e.Valence)
	// Tags normalize and dedupe.
	assert.Equal(t, []string{"work"}, e.Tags)
	assert.False(t, e.IsComplete)
}

func TestCreateEntryQuickCapture(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateEntryBadValence(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{"valence":"ambivalent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEntryNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/entries/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEntryPartial(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{"title":"Before","domain":"work"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = doJSON(t, s, http.MethodPatch, fmt.Sprintf("/api/entries/%d", e.ID),
		`{"title":"After"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "After", updated.Title)
	// Untouched fields survive.
	assert.Equal(t, "work", updated.Domain)
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{"title":"Doomed"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/entries/%d", e.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/entries/%d", e.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteGate(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries",
		`{"reflection_text":"r","abstraction_text":"a","no_experiment_needed":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	// Experience missing: gate refuses with the specific reason.
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/entries/%d/complete", e.ID), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Experience text is required")

	rec = doJSON(t, s, http.MethodPatch, fmt.Sprintf("/api/entries/%d", e.ID),
		`{"experience_text":"now present"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/entries/%d/complete", e.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var done models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done))
	assert.True(t, done.IsComplete)
}

func TestCompleteGateNeedsExperiment(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries",
		`{"experience_text":"e","reflection_text":"r","abstraction_text":"a"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/entries/%d/complete", e.ID), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "At least one experiment is required")
}

func TestAddExperimentWarning(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{"title":"host"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	// Vague short text creates the experiment but carries a warning.
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/entries/%d/experiments", e.ID),
		`{"text":"try to do better"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp experimentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Experiment.ID)
	assert.Contains(t, resp.Warning, "more specific")

	// Empty text refuses outright.
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/entries/%d/experiments", e.ID),
		`{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Experiment text is required")
}

func TestGoalCap(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		rec := doJSON(t, s, http.MethodPost, "/api/goals",
			fmt.Sprintf(`{"title":"Goal %d"}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/goals", `{"title":"One too many"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maximum 3 active goals allowed")
}

func TestGoalArchiveFreesSlot(t *testing.T) {
	s := newTestServer(t)
	var first models.Goal
	for i := 0; i < 3; i++ {
		rec := doJSON(t, s, http.MethodPost, "/api/goals",
			fmt.Sprintf(`{"title":"Goal %d"}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
		if i == 0 {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
		}
	}

	rec := doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/goals/%d/archive", first.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/goals", `{"title":"Fits now"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// The slot is taken again; unarchive is refused.
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/goals/%d/unarchive", first.ID), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maximum 3 active goals allowed")
}

func TestGoalDashboard(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/goals",
		`{"title":"Run","metrics":["run 5k","stretch"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/goals", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp goalListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Goals, 1)
	assert.Equal(t, 2, resp.Goals[0].MetricCount)
	assert.Equal(t, 1, resp.Stats.ActiveCount)
	assert.True(t, resp.Stats.CanCreate)
}

func TestSaveDailyLogResponse(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/goals",
		`{"title":"Run","metrics":["run 5k"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var g models.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	require.Len(t, g.Metrics, 1)

	body := fmt.Sprintf(
		`{"log_date":"2026-08-30","notes":"good day","entries":[{"metric_id":%d,"completed":true,"rating":4}]}`,
		g.Metrics[0].ID)
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/goals/%d/log", g.ID), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dailyLogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Log)
	assert.Equal(t, "2026-08-30", resp.Log.LogDate)
	require.Len(t, resp.Log.Entries, 1)
	assert.Equal(t, "run 5k", resp.Log.Entries[0].MetricName)
	assert.Equal(t, 100, resp.CompletionRate)

	// Re-saving the same day updates in place; fetching returns one log.
	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/goals/%d/log", g.ID), body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet,
		fmt.Sprintf("/api/goals/%d/log/2026-08-30", g.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var log models.DailyLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &log))
	assert.Len(t, log.Entries, 1)
}

func TestGetDailyLogNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/goals", `{"title":"Run"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var g models.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))

	rec = doJSON(t, s, http.MethodGet,
		fmt.Sprintf("/api/goals/%d/log/2026-01-01", g.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRiskRequiresBothFields(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/goals", `{"title":"Run"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var g models.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/goals/%d/risks", g.ID),
		`{"risk_description":"rainy days"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/goals/%d/risks", g.ID),
		`{"risk_description":"rainy days","scripted_action":"treadmill instead"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestTagsEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/tags", `{"name":"  Work  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"work"`)

	rec = doJSON(t, s, http.MethodPost, "/api/tags", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"preferred_mode":"wizard"`)

	rec = doJSON(t, s, http.MethodPut, "/api/settings", `{"font_size":"large"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"font_size":"large"`)
	// Untouched keys still resolve to defaults.
	assert.Contains(t, rec.Body.String(), `"autosave_enabled":"true"`)
}

func TestExportEntryMarkdown(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{"title":"Exported"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var e models.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))

	rec = doJSON(t, s, http.MethodGet,
		fmt.Sprintf("/api/export/entries/%d/markdown", e.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Exported")
}

func TestExportZipEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/entries", `{"title":"Zipped"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/export/zip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestSeedIdempotent(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var first map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Positive(t, first["entry_count"])

	rec = doJSON(t, s, http.MethodPost, "/api/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var second map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first["entry_count"], second["entry_count"])
}
