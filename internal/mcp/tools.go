// ABOUTME: MCP tool implementations for journal entries and goals.
// ABOUTME: Exposes create/read operations plus daily logging and stats.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/cycle/internal/models"
	"github.com/harperreed/cycle/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// create_entry
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_entry",
		Description: "Create a journal entry; all fields optional for quick capture",
	}, s.handleCreateEntry)

	// get_entry
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_entry",
		Description: "Get a journal entry with tags and experiments",
	}, s.handleGetEntry)

	// list_entries
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_entries",
		Description: "List recent journal entries, optionally filtered",
	}, s.handleListEntries)

	// add_experiment
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_experiment",
		Description: "Add an experiment to an entry; vague text gets an advisory warning",
	}, s.handleAddExperiment)

	// mark_entry_complete
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_entry_complete",
		Description: "Mark an entry complete if all four cycle steps are filled",
	}, s.handleMarkComplete)

	// create_goal
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_goal",
		Description: "Create a goal with daily metrics (at most 3 active goals)",
	}, s.handleCreateGoal)

	// log_goal_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_goal_day",
		Description: "Record a day's metric results for a goal",
	}, s.handleLogGoalDay)

	// get_goal_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_goal_stats",
		Description: "Get a goal's streak and 30-day completion rate",
	}, s.handleGoalStats)
}

// Tool input/output types

type createEntryInput struct {
	Title           string   `json:"title,omitempty" jsonschema:"Entry title"`
	Domain          string   `json:"domain,omitempty" jsonschema:"Life domain (work, health, ...)"`
	Valence         string   `json:"valence,omitempty" jsonschema:"positive, negative, or neutral"`
	ExperienceText  string   `json:"experience_text,omitempty" jsonschema:"What happened"`
	ReflectionText  string   `json:"reflection_text,omitempty" jsonschema:"Why it went that way"`
	AbstractionText string   `json:"abstraction_text,omitempty" jsonschema:"The general lesson"`
	Tags            []string `json:"tags,omitempty" jsonschema:"Tag names"`
}

type entryOutput struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Completion int    `json:"completion"`
	Message    string `json:"message"`
}

type getEntryInput struct {
	ID int64 `json:"id" jsonschema:"Entry ID"`
}

type listEntriesInput struct {
	Search string `json:"search,omitempty" jsonschema:"Search text"`
	Domain string `json:"domain,omitempty" jsonschema:"Filter by domain"`
	Status string `json:"status,omitempty" jsonschema:"draft or complete"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type addExperimentInput struct {
	EntryID    int64  `json:"entry_id" jsonschema:"Entry ID"`
	Text       string `json:"text" jsonschema:"Concrete next action to try"`
	ReviewDate string `json:"review_date,omitempty" jsonschema:"Review date (YYYY-MM-DD)"`
}

type experimentOutput struct {
	ID      int64  `json:"id"`
	Warning string `json:"warning,omitempty"`
	Message string `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type createGoalInput struct {
	Title         string   `json:"title" jsonschema:"Goal title"`
	Description   string   `json:"description,omitempty" jsonschema:"Why this goal matters"`
	OutcomeTarget string   `json:"outcome_target,omitempty" jsonschema:"Measurable outcome"`
	TargetDate    string   `json:"target_date,omitempty" jsonschema:"Target date (YYYY-MM-DD)"`
	Metrics       []string `json:"metrics,omitempty" jsonschema:"Daily metric names"`
}

type goalOutput struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type logGoalDayInput struct {
	GoalID  int64             `json:"goal_id" jsonschema:"Goal ID"`
	LogDate string            `json:"log_date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Notes   string            `json:"notes,omitempty" jsonschema:"Day notes"`
	Results []metricResultArg `json:"results,omitempty" jsonschema:"Per-metric results"`
}

type metricResultArg struct {
	MetricID  int64 `json:"metric_id" jsonschema:"Metric ID"`
	Completed bool  `json:"completed" jsonschema:"Whether the metric was done"`
	Rating    int   `json:"rating,omitempty" jsonschema:"Rating 1-5"`
}

type goalStatsInput struct {
	GoalID int64 `json:"goal_id" jsonschema:"Goal ID"`
}

type goalStatsOutput struct {
	Streak         int    `json:"streak"`
	CompletionRate int    `json:"completion_rate"`
	Message        string `json:"message"`
}

// Tool handlers

func (s *Server) handleCreateEntry(ctx context.Context, req *mcp.CallToolRequest, input createEntryInput) (*mcp.CallToolResult, entryOutput, error) {
	e := models.NewEntry()
	e.Title = input.Title
	e.Domain = input.Domain
	e.ExperienceText = input.ExperienceText
	e.ReflectionText = input.ReflectionText
	e.AbstractionText = input.AbstractionText

	if input.Valence != "" {
		if !models.IsValidValence(input.Valence) {
			return nil, entryOutput{}, fmt.Errorf("unknown valence: %s", input.Valence)
		}
		e.Valence = models.Valence(input.Valence)
	}

	if err := s.db.CreateEntry(e); err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to create entry: %w", err)
	}
	if len(input.Tags) > 0 {
		if err := s.db.SetEntryTags(e.ID, input.Tags); err != nil {
			return nil, entryOutput{}, fmt.Errorf("failed to set tags: %w", err)
		}
	}

	title := e.Title
	if title == "" {
		title = "Untitled Entry"
	}
	return nil, entryOutput{
		ID:         e.ID,
		Title:      title,
		Completion: e.Completion(),
		Message:    fmt.Sprintf("Created entry %d: %s (%d%% complete)", e.ID, title, e.Completion()),
	}, nil
}

func (s *Server) handleGetEntry(ctx context.Context, req *mcp.CallToolRequest, input getEntryInput) (*mcp.CallToolResult, any, error) {
	e, err := s.db.GetEntry(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("entry not found: %d", input.ID)
	}
	return nil, e, nil
}

func (s *Server) handleListEntries(ctx context.Context, req *mcp.CallToolRequest, input listEntriesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filters := &storage.EntryFilters{
		Search: input.Search,
		Domain: input.Domain,
		Status: input.Status,
	}
	entries, err := s.db.ListEntries(filters, "newest", input.Limit, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		return nil, map[string]interface{}{"message": "No entries found."}, nil
	}
	return nil, entries, nil
}

func (s *Server) handleAddExperiment(ctx context.Context, req *mcp.CallToolRequest, input addExperimentInput) (*mcp.CallToolResult, experimentOutput, error) {
	if _, err := s.db.GetEntry(input.EntryID); err != nil {
		return nil, experimentOutput{}, fmt.Errorf("entry not found: %d", input.EntryID)
	}

	ok, warning := models.ValidateExperimentText(input.Text)
	if !ok {
		return nil, experimentOutput{}, fmt.Errorf("%s", warning)
	}

	exp := &models.Experiment{
		EntryID: input.EntryID,
		Text:    input.Text,
	}
	if input.ReviewDate != "" {
		exp.ReviewDate = &input.ReviewDate
	}
	if err := s.db.CreateExperiment(exp); err != nil {
		return nil, experimentOutput{}, fmt.Errorf("failed to create experiment: %w", err)
	}

	msg := fmt.Sprintf("Added experiment %d to entry %d", exp.ID, input.EntryID)
	if warning != "" {
		msg += " (warning: " + warning + ")"
	}
	return nil, experimentOutput{ID: exp.ID, Warning: warning, Message: msg}, nil
}

func (s *Server) handleMarkComplete(ctx context.Context, req *mcp.CallToolRequest, input getEntryInput) (*mcp.CallToolResult, simpleOutput, error) {
	e, err := s.db.GetEntry(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("entry not found: %d", input.ID)
	}
	if ok, reason := e.CanMarkComplete(); !ok {
		return nil, simpleOutput{}, fmt.Errorf("cannot complete entry: %s", reason)
	}

	complete := true
	if err := s.db.UpdateEntry(input.ID, &storage.EntryUpdate{IsComplete: &complete}); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update entry: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Marked entry %d complete", input.ID),
	}, nil
}

func (s *Server) handleCreateGoal(ctx context.Context, req *mcp.CallToolRequest, input createGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	g := &models.Goal{
		Title:         input.Title,
		Description:   input.Description,
		OutcomeTarget: input.OutcomeTarget,
	}
	if input.TargetDate != "" {
		g.TargetDate = &input.TargetDate
	}
	for i, name := range input.Metrics {
		g.Metrics = append(g.Metrics, models.PerformanceMetric{Name: name, Order: i})
	}

	if err := s.db.CreateGoal(g); err != nil {
		return nil, goalOutput{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return nil, goalOutput{
		ID:      g.ID,
		Title:   g.Title,
		Message: fmt.Sprintf("Created goal %d: %s with %d metrics", g.ID, g.Title, len(g.Metrics)),
	}, nil
}

func (s *Server) handleLogGoalDay(ctx context.Context, req *mcp.CallToolRequest, input logGoalDayInput) (*mcp.CallToolResult, goalStatsOutput, error) {
	if _, err := s.db.GetGoal(input.GoalID); err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("goal not found: %d", input.GoalID)
	}

	logDate := input.LogDate
	if logDate == "" {
		logDate = time.Now().Format("2006-01-02")
	}

	var entries []storage.PerformanceInput
	for _, r := range input.Results {
		entries = append(entries, storage.PerformanceInput{
			MetricID:  r.MetricID,
			Completed: r.Completed,
			Rating:    r.Rating,
		})
	}
	if _, err := s.db.SaveDailyLog(input.GoalID, logDate, entries, input.Notes); err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("failed to save daily log: %w", err)
	}

	streak, err := s.db.Streak(input.GoalID)
	if err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("failed to compute streak: %w", err)
	}
	rate, err := s.db.CompletionRate(input.GoalID, 30)
	if err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("failed to compute completion rate: %w", err)
	}

	return nil, goalStatsOutput{
		Streak:         streak,
		CompletionRate: rate,
		Message:        fmt.Sprintf("Logged %s: streak %d, 30-day rate %d%%", logDate, streak, rate),
	}, nil
}

func (s *Server) handleGoalStats(ctx context.Context, req *mcp.CallToolRequest, input goalStatsInput) (*mcp.CallToolResult, goalStatsOutput, error) {
	if _, err := s.db.GetGoal(input.GoalID); err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("goal not found: %d", input.GoalID)
	}

	streak, err := s.db.Streak(input.GoalID)
	if err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("failed to compute streak: %w", err)
	}
	rate, err := s.db.CompletionRate(input.GoalID, 30)
	if err != nil {
		return nil, goalStatsOutput{}, fmt.Errorf("failed to compute completion rate: %w", err)
	}

	return nil, goalStatsOutput{
		Streak:         streak,
		CompletionRate: rate,
		Message:        fmt.Sprintf("Streak %d days, 30-day completion %d%%", streak, rate),
	}, nil
}
