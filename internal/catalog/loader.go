package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/claude/trainplan/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed/exercises.yaml
var seedYAML []byte

// seedFile is the on-disk layout of YAML and JSON catalog files.
type seedFile struct {
	Exercises []models.Exercise `yaml:"exercises" json:"exercises"`
}

// DefaultSeed returns the catalog bundled with the binary.
func DefaultSeed() ([]models.Exercise, error) {
	exercises, err := ParseYAML(bytes.NewReader(seedYAML))
	if err != nil {
		return nil, fmt.Errorf("parsing bundled seed: %w", err)
	}
	return exercises, nil
}

// LoadFile reads a catalog file, choosing the format by extension
// (.yaml, .yml, .json or .csv). Records are normalized and validated.
func LoadFile(path string) ([]models.Exercise, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	case ".json":
		return ParseJSON(f)
	case ".csv":
		return ParseCSV(f)
	}
	return nil, fmt.Errorf("unsupported catalog file type %q", filepath.Ext(path))
}

// ParseYAML decodes a YAML document with a top-level exercises list.
func ParseYAML(r io.Reader) ([]models.Exercise, error) {
	var doc seedFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return normalizeAll(doc.Exercises)
}

// ParseJSON accepts either {"exercises": [...]} or a bare array.
func ParseJSON(r io.Reader) ([]models.Exercise, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}
	var exercises []models.Exercise
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &exercises); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	} else {
		var doc seedFile
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
		exercises = doc.Exercises
	}
	return normalizeAll(exercises)
}

var csvColumns = []string{
	"id", "canonical_name", "display_name", "equipment", "equipment_detail", "attachment",
	"complexity", "primary_muscle", "secondary_muscle", "movement",
	"include_in_program_generation", "canonical_rating",
}

// ParseCSV reads a comma-separated file with a header row naming the
// columns in csvColumns. Column order is free; unknown columns are ignored.
// Complexity accepts "all" or "any" for tier 0.
func ParseCSV(r io.Reader) ([]models.Exercise, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "display_name", "equipment", "primary_muscle"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", required)
		}
	}

	var exercises []models.Exercise
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		get := func(name string) string {
			if i, ok := col[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}

		e := models.Exercise{
			ID:              get("id"),
			CanonicalName:   get("canonical_name"),
			DisplayName:     get("display_name"),
			Equipment:       models.Equipment(get("equipment")),
			EquipmentDetail: get("equipment_detail"),
			Attachment:      get("attachment"),
			PrimaryMuscle:   models.Muscle(get("primary_muscle")),
			SecondaryMuscle: models.Muscle(get("secondary_muscle")),
			Movement:        models.Movement(get("movement")),
			Include:         true,
		}
		if e.Complexity, err = parseComplexity(get("complexity")); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if v := get("include_in_program_generation"); v != "" {
			if e.Include, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("csv line %d: include_in_program_generation: %w", line, err)
			}
		}
		if v := get("canonical_rating"); v != "" {
			if e.CanonicalRating, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("csv line %d: canonical_rating: %w", line, err)
			}
		}
		exercises = append(exercises, e)
	}
	return normalizeAll(exercises)
}

// WriteCSV writes exercises in the layout ParseCSV reads.
func WriteCSV(w io.Writer, exercises []models.Exercise) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, e := range exercises {
		rec := []string{
			e.ID, e.CanonicalName, e.DisplayName, string(e.Equipment), e.EquipmentDetail, e.Attachment,
			strconv.Itoa(e.Complexity), string(e.PrimaryMuscle), string(e.SecondaryMuscle), string(e.Movement),
			strconv.FormatBool(e.Include), strconv.Itoa(e.CanonicalRating),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseComplexity(s string) (int, error) {
	switch strings.ToLower(s) {
	case "", "all", "any":
		return models.ComplexityAny, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("complexity %q: %w", s, err)
	}
	return n, nil
}

func normalizeAll(in []models.Exercise) ([]models.Exercise, error) {
	out := make([]models.Exercise, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, e := range in {
		n, err := e.Normalize()
		if err != nil {
			return nil, err
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("duplicate exercise id %q", n.ID)
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, nil
}
