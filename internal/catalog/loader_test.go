package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/trainplan/internal/models"
	"github.com/google/go-cmp/cmp"
)

// TestDefaultSeed verifies the bundled catalog parses cleanly and carries
// the records the engine relies on.
func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seed) != 75 {
		t.Errorf("got %d exercises, want 75", len(seed))
	}

	muscles := map[models.Muscle]int{}
	for _, e := range seed {
		if err := e.Validate(); err != nil {
			t.Errorf("invalid seed record: %v", err)
		}
		if e.Include {
			muscles[e.PrimaryMuscle]++
		}
		if e.ID == "smith_machine_squat" && e.Include {
			t.Error("smith_machine_squat should be excluded from generation")
		}
	}
	for _, m := range models.AllMuscles {
		if muscles[m] == 0 {
			t.Errorf("no generation-eligible exercise for %s", m)
		}
	}
}

// TestParseYAML verifies tokens are normalized on load.
func TestParseYAML(t *testing.T) {
	doc := `exercises:
  - id: goblet_squat
    display_name: Goblet Squat
    equipment: Dumbbell
    complexity: 1
    primary_muscle: Quadriceps
    movement: squat
    include_in_program_generation: true
    canonical_rating: 70
`
	got, err := ParseYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Exercise{{
		ID:              "goblet_squat",
		CanonicalName:   "Goblet Squat",
		DisplayName:     "Goblet Squat",
		Equipment:       models.EquipmentDumbbells,
		Complexity:      1,
		PrimaryMuscle:   models.MuscleQuads,
		Movement:        models.MovementSquat,
		Include:         true,
		CanonicalRating: 70,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// TestParseJSON verifies both the wrapped and the bare-array layouts.
func TestParseJSON(t *testing.T) {
	rec := `{"id":"push_up","displayName":"Push-Up","equipment":"bodyweight","complexity":0,
		"primaryMuscle":"chest","movement":"push","includeInProgramGeneration":true,"canonicalRating":80}`

	for name, doc := range map[string]string{
		"wrapped": `{"exercises":[` + rec + `]}`,
		"bare":    " \n[" + rec + "]",
	} {
		got, err := ParseJSON(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if len(got) != 1 || got[0].ID != "push_up" || got[0].PrimaryMuscle != models.MuscleChest {
			t.Errorf("%s: got %+v", name, got)
		}
	}

	if _, err := ParseJSON(strings.NewReader(`{"exercises": [`)); err == nil {
		t.Error("expected error for truncated json")
	}
}

// TestParseCSV verifies header-driven columns, tier aliases and defaults.
func TestParseCSV(t *testing.T) {
	doc := `display_name,id,primary_muscle,equipment,complexity,movement,notes
Plank,plank,abs,bodyweight,all,core,ignored
Cable Fly,cable_fly,chest,cable,2,isolation,
`
	got, err := ParseCSV(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].PrimaryMuscle != models.MuscleCore || got[0].Complexity != models.ComplexityAny || !got[0].Include {
		t.Errorf("plank = %+v", got[0])
	}
	if got[1].Equipment != models.EquipmentCableMachines || got[1].Complexity != 2 {
		t.Errorf("cable fly = %+v", got[1])
	}
}

// TestParseCSVErrors verifies malformed input is rejected with the line.
func TestParseCSVErrors(t *testing.T) {
	tests := map[string]string{
		"missing column": "id,display_name,equipment\nx,X,bodyweight\n",
		"bad tier":       "id,display_name,equipment,primary_muscle,complexity\nx,X,bodyweight,chest,hard\n",
		"bad include":    "id,display_name,equipment,primary_muscle,include_in_program_generation\nx,X,bodyweight,chest,maybe\n",
		"duplicate id":   "id,display_name,equipment,primary_muscle\nx,X,bodyweight,chest\nx,Y,bodyweight,back\n",
		"tier too high":  "id,display_name,equipment,primary_muscle,complexity\nx,X,bodyweight,chest,7\n",
	}
	for name, doc := range tests {
		if _, err := ParseCSV(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// TestWriteCSVRoundTrip verifies the seed survives a CSV export.
func TestWriteCSVRoundTrip(t *testing.T) {
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, seed); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := ParseCSV(&buf)
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if diff := cmp.Diff(seed, got); diff != "" {
		t.Errorf("round trip mismatch (-seed +got):\n%s", diff)
	}
}

// TestLoadFile verifies the format is chosen by extension.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.YML")
	if err := os.WriteFile(path, []byte("exercises:\n  - id: crunch\n    display_name: Crunch\n    equipment: bodyweight\n    primary_muscle: core\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Movement != models.MovementIsolation {
		t.Errorf("got %+v", got)
	}

	txt := filepath.Join(dir, "catalog.txt")
	if err := os.WriteFile(txt, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(txt); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
