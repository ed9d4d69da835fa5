package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/trainplan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

var importFixture = map[string]string{
	"a_core.yaml": `exercises:
  - id: plank
    display_name: Plank
    equipment: bodyweight
    primary_muscle: core
    movement: core
    include_in_program_generation: true
    canonical_rating: 60
`,
	"b_chest.json": `[{"id":"push_up","displayName":"Push-Up","equipment":"bodyweight","primaryMuscle":"chest",
		"movement":"push","includeInProgramGeneration":true,"canonicalRating":70}]`,
	"c_broken.yaml": "exercises: [ {id: x",
	"d_override.csv": "id,display_name,equipment,primary_muscle,movement,canonical_rating\n" +
		"plank,Front Plank,bodyweight,core,core,65\n",
	"notes.txt": "not a catalog",
}

// TestImportDirectory verifies parse failures are counted, unknown files are
// skipped and a later file overrides an earlier one.
func TestImportDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeFiles(t, importFixture)
	store := NewMemoryStore(nil)

	stats, err := NewImporter(store, discardLogger(), false).Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FilesProcessed)
	assert.Equal(t, 1, stats.FilesErrored)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 3, stats.ExercisesParsed)
	assert.Equal(t, 1, stats.ExercisesDuplicated)
	assert.EqualValues(t, 2, stats.ExercisesWritten)
	require.Len(t, stats.Errors, 1)

	got, err := store.Query(context.Background(), models.Filter{MaxComplexity: 4, PrimaryMuscle: models.MuscleCore})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Front Plank", got[0].DisplayName)
	assert.Equal(t, 65, got[0].CanonicalRating)
}

// TestImportDryRun verifies nothing is written in dry-run mode.
func TestImportDryRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := writeFiles(t, importFixture)
	store := NewMemoryStore(nil)

	stats, err := NewImporter(store, discardLogger(), true).Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ExercisesParsed)
	assert.Zero(t, stats.ExercisesWritten)
	assert.Zero(t, store.Len())
}

// TestImportSingleFile verifies a file path is imported directly.
func TestImportSingleFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"chest.json": importFixture["b_chest.json"]})
	store := NewMemoryStore(nil)

	stats, err := NewImporter(store, discardLogger(), false).Import(context.Background(), filepath.Join(dir, "chest.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesProcessed)
	assert.Equal(t, 1, store.Len())

	_, err = NewImporter(store, discardLogger(), false).Import(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
