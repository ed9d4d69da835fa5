package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/trainplan/internal/models"
	"golang.org/x/sync/errgroup"
)

// ImportStats tracks import progress.
type ImportStats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	ExercisesParsed     int
	ExercisesDuplicated int
	ExercisesWritten    int64

	Errors []string
}

// Importer loads catalog files into a writable store.
type Importer struct {
	store  Writer
	log    *slog.Logger
	dryRun bool
	stats  ImportStats
}

// NewImporter creates an Importer. In dry-run mode nothing is written.
func NewImporter(store Writer, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, log: log, dryRun: dryRun}
}

var importExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true, ".csv": true}

// Import reads path (a catalog file or a directory of them) and upserts
// every parsed exercise. Files are parsed concurrently; a file that fails
// to parse is counted and skipped. When two files define the same id, the
// file that sorts last wins.
func (imp *Importer) Import(ctx context.Context, path string) (*ImportStats, error) {
	files, err := imp.collectFiles(path)
	if err != nil {
		return &imp.stats, err
	}

	parsed := make([][]models.Exercise, len(files))
	errs := make([]error, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, f := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			parsed[i], errs[i] = LoadFile(f)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return &imp.stats, fmt.Errorf("parsing catalog files: %w", err)
	}

	byID := map[string]int{}
	var all []models.Exercise
	for i, f := range files {
		if errs[i] != nil {
			imp.stats.FilesErrored++
			imp.stats.Errors = append(imp.stats.Errors, errs[i].Error())
			imp.log.Warn("skipping catalog file", "file", f, "error", errs[i])
			continue
		}
		imp.stats.FilesProcessed++
		imp.stats.ExercisesParsed += len(parsed[i])
		for _, e := range parsed[i] {
			if j, ok := byID[e.ID]; ok {
				imp.stats.ExercisesDuplicated++
				all[j] = e
				continue
			}
			byID[e.ID] = len(all)
			all = append(all, e)
		}
		imp.log.Info("parsed catalog file", "file", f, "exercises", len(parsed[i]))
	}

	if imp.dryRun || len(all) == 0 {
		return &imp.stats, nil
	}

	n, err := imp.store.UpsertExercises(ctx, all)
	imp.stats.ExercisesWritten = n
	if err != nil {
		return &imp.stats, fmt.Errorf("writing exercises: %w", err)
	}
	return &imp.stats, nil
}

func (imp *Importer) collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !importExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			imp.stats.FilesSkipped++
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
