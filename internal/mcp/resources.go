// ABOUTME: MCP resource implementations for the cycle journal.
// ABOUTME: Provides cycle://recent and cycle://goals resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// cycle://recent - latest entries plus active experiments
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "cycle://recent",
		Name:        "Recent Journal Entries",
		Description: "Last 10 entries and all planned or active experiments",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	// cycle://goals - the goals dashboard
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "cycle://goals",
		Name:        "Goals Dashboard",
		Description: "Active goals with streaks, completion rates, and dashboard stats",
		MIMEType:    "application/json",
	}, s.handleGoalsResource)
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.db.ListEntries(nil, "newest", 10, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	experiments, err := s.db.ActiveExperiments()
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	result := map[string]interface{}{
		"entries":            entries,
		"active_experiments": experiments,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "cycle://recent",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleGoalsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	goals, err := s.db.ListGoals(false)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	stats, err := s.db.DashboardStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	type goalSummary struct {
		ID             int64  `json:"id"`
		Title          string `json:"title"`
		Streak         int    `json:"streak"`
		CompletionRate int    `json:"completion_rate"`
		MetricCount    int    `json:"metric_count"`
	}

	summaries := []goalSummary{}
	for _, g := range goals {
		streak, err := s.db.Streak(g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute streak: %w", err)
		}
		rate, err := s.db.CompletionRate(g.ID, 30)
		if err != nil {
			return nil, fmt.Errorf("failed to compute completion rate: %w", err)
		}
		summaries = append(summaries, goalSummary{
			ID:             g.ID,
			Title:          g.Title,
			Streak:         streak,
			CompletionRate: rate,
			MetricCount:    g.MetricCount,
		})
	}

	result := map[string]interface{}{
		"goals": summaries,
		"stats": stats,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "cycle://goals",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
