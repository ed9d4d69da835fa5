package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeProfile reads a ProfileInput body and validates it.
func decodeProfile(r *http.Request) (models.Profile, error) {
	var in models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return models.Profile{}, fmt.Errorf("%w: invalid JSON: %v", models.ErrInvalidProfile, err)
	}
	return models.NewProfile(in)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) (models.Profile, *models.Program, bool) {
	profile, err := decodeProfile(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return profile, nil, false
	}

	prog, err := s.generator.Generate(r.Context(), profile)
	if err != nil {
		s.log.Error("generate error", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, program.ErrCatalogUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return profile, nil, false
	}
	return profile, prog, true
}

func (s *Server) handlePreviewProgram(w http.ResponseWriter, r *http.Request) {
	_, prog, ok := s.generate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	if s.programs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "program storage not configured"})
		return
	}
	profile, prog, ok := s.generate(w, r)
	if !ok {
		return
	}

	stored, err := s.programs.SaveProgram(r.Context(), profile, prog)
	if err != nil {
		s.log.Error("save program error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Location", "/api/v1/programs/"+stored.ID)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	if s.programs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "program storage not configured"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.programs.ListPrograms(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	if s.programs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "program storage not configured"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	stored, err := s.programs.GetProgram(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// handleQueryExercises serves the catalog query contract over HTTP:
// ?muscle=chest&equipment=dumbbells,bodyweight&max_complexity=2&exclude=shoulders&all=true
func (s *Server) handleQueryExercises(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	exercises, err := s.catalog.Query(r.Context(), f)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	duration := models.DurationMedium
	if v := q.Get("duration"); v != "" {
		d, err := models.ParseSessionDuration(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		duration = d
	}

	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be an integer"})
			return
		}
		writeJSON(w, http.StatusOK, s.generator.Plan(days, duration))
		return
	}

	plans := []program.SplitPlan{}
	for _, days := range program.TableDays() {
		plans = append(plans, s.generator.Plan(days, duration))
	}
	writeJSON(w, http.StatusOK, plans)
}

// parseFilter reads catalog filter query parameters. Without all=true only
// exercises flagged for program generation are returned.
func parseFilter(r *http.Request) (models.Filter, error) {
	q := r.URL.Query()
	f := models.Filter{MaxComplexity: models.ComplexityMax, OnlyIncluded: q.Get("all") != "true"}

	if v := q.Get("muscle"); v != "" {
		m, err := models.ParseMuscle(v)
		if err != nil {
			return f, err
		}
		f.PrimaryMuscle = m
	}
	for _, tok := range splitList(q.Get("equipment")) {
		e, err := models.ParseEquipment(tok)
		if err != nil {
			return f, err
		}
		f.EquipmentCategories = append(f.EquipmentCategories, e)
	}
	for _, tok := range splitList(q.Get("exclude")) {
		m, err := models.ParseMuscle(tok)
		if err != nil {
			return f, err
		}
		f.ExcludePrimaryMuscles = append(f.ExcludePrimaryMuscles, m)
	}
	if v := q.Get("max_complexity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < models.ComplexityAny || n > models.ComplexityMax {
			return f, fmt.Errorf("max_complexity must be 0-%d", models.ComplexityMax)
		}
		f.MaxComplexity = n
	}
	return f, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
