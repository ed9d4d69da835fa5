package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// splitList parses a comma separated tool argument.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --- Tool definitions ---

var toolGenerateProgram = mcp.NewTool("generate_program",
	mcp.WithDescription("Generate an 8-week resistance-training program from a training profile. Returns the days with prescribed exercises (sets, rep range, rest) plus warnings for muscles that could not be fully covered."),
	mcp.WithString("experience_level", mcp.Required(), mcp.Description("Training experience"), mcp.Enum("none", "beginner", "intermediate", "advanced")),
	mcp.WithNumber("training_days_per_week", mcp.Required(), mcp.Description("Training days per week (1-7)"), mcp.Min(1), mcp.Max(7)),
	mcp.WithString("session_duration", mcp.Required(), mcp.Description("Session length: short (30-45 min), medium (45-60 min) or long (60-90 min)"), mcp.Enum("short", "medium", "long")),
	mcp.WithString("equipment", mcp.Description("Comma separated equipment (bodyweight, barbells, dumbbells, cable_machines, pin_loaded, plate_loaded, kettlebells). Defaults to everything.")),
	mcp.WithString("target_muscles", mcp.Description("Comma separated priority muscles, at most 3 (e.g. 'chest,glutes')")),
	mcp.WithString("excluded_muscles", mcp.Description("Comma separated muscles to avoid entirely (e.g. an injured 'shoulders')")),
	mcp.WithString("equipment_detail", mcp.Description("Comma separated specific items (e.g. 'adjustable bench'). Exercises needing an unlisted item are skipped once any is given.")),
	mcp.WithString("attachments", mcp.Description("Comma separated cable attachments (e.g. 'rope,straight bar'). Required for cable exercises that use one when equipment is listed.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("Query the exercise catalog. Returns exercises ordered by id."),
	mcp.WithString("muscle", mcp.Description("Primary muscle (chest, back, shoulders, biceps, triceps, quads, hamstrings, glutes, calves, core)")),
	mcp.WithString("equipment", mcp.Description("Comma separated equipment categories")),
	mcp.WithNumber("max_complexity", mcp.Description("Highest complexity tier to include (1-4). Defaults to 4."), mcp.Min(1), mcp.Max(4)),
	mcp.WithBoolean("include_all", mcp.Description("Also return exercises not eligible for program generation")),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Load a previously stored program by id, with the profile that generated it."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Program UUID")),
)

var toolGetSplit = mcp.NewTool("get_split",
	mcp.WithDescription("Show the split archetype and day templates (muscle slots per day) used for a training frequency and session duration."),
	mcp.WithNumber("days", mcp.Required(), mcp.Description("Training days per week"), mcp.Min(1), mcp.Max(7)),
	mcp.WithString("session_duration", mcp.Description("Defaults to medium."), mcp.Enum("short", "medium", "long")),
)

// --- Tool handlers ---

func (h *handlers) generateProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, err := req.RequireString("experience_level")
	if err != nil {
		return mcp.NewToolResultError("experience_level parameter is required"), nil
	}
	days, err := req.RequireInt("training_days_per_week")
	if err != nil {
		return mcp.NewToolResultError("training_days_per_week parameter is required"), nil
	}
	duration, err := req.RequireString("session_duration")
	if err != nil {
		return mcp.NewToolResultError("session_duration parameter is required"), nil
	}

	in := models.ProfileInput{
		ExperienceLevel:      level,
		TrainingDaysPerWeek:  days,
		SessionDuration:      duration,
		EquipmentAvailable:   splitList(req.GetString("equipment", "")),
		TargetMuscleGroups:   splitList(req.GetString("target_muscles", "")),
		ExcludedMuscleGroups: splitList(req.GetString("excluded_muscles", "")),
		EquipmentDetail:      splitList(req.GetString("equipment_detail", "")),
		Attachments:          splitList(req.GetString("attachments", "")),
	}

	prog, err := h.ds.GenerateProgram(ctx, in)
	if errors.Is(err, models.ErrInvalidProfile) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		h.log.Error("mcp generate_program", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prog)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := models.Filter{
		MaxComplexity: req.GetInt("max_complexity", models.ComplexityMax),
		OnlyIncluded:  !req.GetBool("include_all", false),
	}
	if m := req.GetString("muscle", ""); m != "" {
		muscle, err := models.ParseMuscle(m)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		f.PrimaryMuscle = muscle
	}
	for _, tok := range splitList(req.GetString("equipment", "")) {
		e, err := models.ParseEquipment(tok)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		f.EquipmentCategories = append(f.EquipmentCategories, e)
	}

	exercises, err := h.ds.QueryExercises(ctx, f)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid program id: " + err.Error()), nil
	}

	stored, err := h.ds.GetProgram(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("program not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stored)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSplit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := req.RequireInt("days")
	if err != nil {
		return mcp.NewToolResultError("days parameter is required"), nil
	}
	duration := models.DurationMedium
	if v := req.GetString("session_duration", ""); v != "" {
		if duration, err = models.ParseSessionDuration(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	plan, err := h.ds.Plan(ctx, days, duration)
	if err != nil {
		h.log.Error("mcp get_split", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
