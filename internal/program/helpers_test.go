package program

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
)

// sliceCatalog is a minimal Catalog over a fixed slice. It returns matches
// in reverse order so tests catch any reliance on store ordering.
type sliceCatalog []models.Exercise

func (c sliceCatalog) Query(_ context.Context, f models.Filter) ([]models.Exercise, error) {
	var out []models.Exercise
	for i := len(c) - 1; i >= 0; i-- {
		if f.Matches(c[i]) {
			out = append(out, c[i])
		}
	}
	return out, nil
}

// errCatalog fails every query.
type errCatalog struct{ err error }

func (c errCatalog) Query(context.Context, models.Filter) ([]models.Exercise, error) {
	return nil, c.err
}

// countingCatalog fails after n successful queries.
type countingCatalog struct {
	Catalog
	left int
	err  error
}

func (c *countingCatalog) Query(ctx context.Context, f models.Filter) ([]models.Exercise, error) {
	if c.left <= 0 {
		return nil, c.err
	}
	c.left--
	return c.Catalog.Query(ctx, f)
}

// fixedPlanner always returns the same templates.
type fixedPlanner struct {
	archetype models.Archetype
	templates []DayTemplate
}

func (p fixedPlanner) Plan(days int, duration models.SessionDuration) SplitPlan {
	return SplitPlan{Archetype: p.archetype, Days: len(p.templates), Duration: duration, Templates: cloneTemplates(p.templates)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ex(id string, m models.Muscle, eq models.Equipment, complexity, rating int) models.Exercise {
	return models.Exercise{
		ID:              id,
		CanonicalName:   id,
		DisplayName:     id,
		Equipment:       eq,
		Complexity:      complexity,
		PrimaryMuscle:   m,
		Movement:        models.MovementIsolation,
		Include:         true,
		CanonicalRating: rating,
	}
}

func seedCatalog(t *testing.T) Catalog {
	t.Helper()
	seed, err := catalog.DefaultSeed()
	if err != nil {
		t.Fatalf("loading seed: %v", err)
	}
	return catalog.NewMemoryStore(seed)
}

func mustProfile(t *testing.T, in models.ProfileInput) models.Profile {
	t.Helper()
	p, err := models.NewProfile(in)
	if err != nil {
		t.Fatalf("NewProfile(%+v): %v", in, err)
	}
	return p
}
