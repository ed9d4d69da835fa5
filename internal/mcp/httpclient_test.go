package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "k" {
			t.Errorf("X-API-Key = %q, want k", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestGenerateProgram verifies the profile is posted as JSON to the preview
// endpoint and the program decoded.
func TestGenerateProgram(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/programs/preview": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			var in models.ProfileInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Fatal(err)
			}
			if in.TrainingDaysPerWeek != 3 || in.ExperienceLevel != "beginner" {
				t.Errorf("profile = %+v", in)
			}
			writeTestJSON(t, w, models.Program{Archetype: models.ArchetypePushPullLegs, TrainingDaysPerWeek: 3, TotalWeeks: 8})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL+"/", "k")
	prog, err := client.GenerateProgram(context.Background(), models.ProfileInput{
		ExperienceLevel: "beginner", TrainingDaysPerWeek: 3, SessionDuration: "medium",
	})
	if err != nil {
		t.Fatal(err)
	}
	if prog.Archetype != models.ArchetypePushPullLegs || prog.TotalWeeks != 8 {
		t.Errorf("program = %+v", prog)
	}
}

// TestGenerateProgramErrors verifies API status codes map back to the
// package sentinels.
func TestGenerateProgramErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, models.ErrInvalidProfile},
		{http.StatusServiceUnavailable, program.ErrCatalogUnavailable},
	}
	for _, tt := range tests {
		ts := newTestServer(t, map[string]http.HandlerFunc{
			"/api/v1/programs/preview": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				writeTestJSON(t, w, map[string]string{"error": "nope"})
			},
		})
		_, err := NewHTTPClient(ts.URL, "k").GenerateProgram(context.Background(), models.ProfileInput{})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
		ts.Close()
	}
}

// TestQueryExercises verifies filters are encoded as query parameters.
func TestQueryExercises(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if got := q.Get("muscle"); got != "back" {
				t.Errorf("muscle=%q, want back", got)
			}
			if got := q.Get("equipment"); got != "dumbbells,cable_machines" {
				t.Errorf("equipment=%q", got)
			}
			if got := q.Get("max_complexity"); got != "2" {
				t.Errorf("max_complexity=%q, want 2", got)
			}
			if got := q.Get("all"); got != "" {
				t.Errorf("all=%q, want empty", got)
			}
			writeTestJSON(t, w, []models.Exercise{{ID: "one_arm_dumbbell_row", PrimaryMuscle: models.MuscleBack}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "k")
	exercises, err := client.QueryExercises(context.Background(), models.Filter{
		PrimaryMuscle:       models.MuscleBack,
		EquipmentCategories: []models.Equipment{models.EquipmentDumbbells, models.EquipmentCableMachines},
		MaxComplexity:       2,
		OnlyIncluded:        true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 1 || exercises[0].ID != "one_arm_dumbbell_row" {
		t.Errorf("exercises = %+v", exercises)
	}
}

// TestGetProgramNotFound verifies a 404 maps to storage.ErrNotFound.
func TestGetProgramNotFound(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/programs/" + id.String(): func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "k").GetProgram(context.Background(), id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestPlan verifies days and duration reach the splits endpoint.
func TestPlan(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/splits": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("days"); got != "5" {
				t.Errorf("days=%q, want 5", got)
			}
			if got := r.URL.Query().Get("duration"); got != "short" {
				t.Errorf("duration=%q, want short", got)
			}
			writeTestJSON(t, w, program.TablePlanner{}.Plan(5, models.DurationShort))
		},
	})
	defer ts.Close()

	plan, err := NewHTTPClient(ts.URL, "k").Plan(context.Background(), 5, models.DurationShort)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Templates) != 5 {
		t.Errorf("templates = %d, want 5", len(plan.Templates))
	}
}
