package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) splitTable(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plans := []program.SplitPlan{}
	for _, days := range program.TableDays() {
		for _, d := range models.SessionDurations {
			plan, err := h.ds.Plan(ctx, days, d)
			if err != nil {
				return nil, err
			}
			plans = append(plans, plan)
		}
	}
	return jsonContents(req.Params.URI, plans)
}

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.QueryExercises(ctx, models.Filter{
		MaxComplexity: models.ComplexityMax,
		OnlyIncluded:  true,
	})
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, exercises)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
