// Package catalog provides exercise catalog stores: an in-memory store
// loaded from seed files, an embedded SQLite store, and the loaders and
// importer that populate them.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/trainplan/internal/config"
	"github.com/claude/trainplan/internal/models"
)

// ErrUnknownDriver is returned by Open for an unsupported catalog driver.
var ErrUnknownDriver = errors.New("unknown catalog driver")

// Store answers filtered exercise queries.
type Store interface {
	Query(ctx context.Context, f models.Filter) ([]models.Exercise, error)
}

// Writer persists exercises, replacing records with the same id.
type Writer interface {
	UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error)
}

// Open returns the store selected by cfg. The postgres driver reuses pg,
// which the caller opens with the rest of the database. The returned close
// function is never nil.
func Open(cfg config.CatalogConfig, pg Store) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case config.CatalogFile:
		var (
			exercises []models.Exercise
			err       error
		)
		if cfg.Path == "" {
			exercises, err = DefaultSeed()
		} else {
			exercises, err = LoadFile(cfg.Path)
		}
		if err != nil {
			return nil, noop, fmt.Errorf("loading catalog: %w", err)
		}
		return NewMemoryStore(exercises), noop, nil
	case config.CatalogSQLite:
		st, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case config.CatalogPostgres:
		if pg == nil {
			return nil, noop, fmt.Errorf("postgres catalog requested without a database connection")
		}
		return pg, noop, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
