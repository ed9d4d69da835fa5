package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/trainplan/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS exercises (
	id                 TEXT PRIMARY KEY,
	canonical_name     TEXT NOT NULL DEFAULT '',
	display_name       TEXT NOT NULL,
	equipment          TEXT NOT NULL,
	equipment_detail   TEXT NOT NULL DEFAULT '',
	attachment         TEXT NOT NULL DEFAULT '',
	complexity         INTEGER NOT NULL DEFAULT 0,
	primary_muscle     TEXT NOT NULL,
	secondary_muscle   TEXT NOT NULL DEFAULT '',
	movement           TEXT NOT NULL DEFAULT 'isolation',
	include_in_program BOOLEAN NOT NULL DEFAULT 1,
	canonical_rating   INTEGER NOT NULL DEFAULT 0,
	updated_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore is a catalog kept in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the catalog database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating exercises table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an existing handle whose schema is already in place.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Query returns the exercises matching f, ordered by id.
func (s *SQLiteStore) Query(ctx context.Context, f models.Filter) ([]models.Exercise, error) {
	query, args := BuildQuery(f, SQLite)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		e, err := ScanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpsertExercises inserts or replaces exercises in one transaction.
func (s *SQLiteStore) UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO exercises (`+ExerciseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, e := range exercises {
		res, err := stmt.ExecContext(ctx, e.ID, e.CanonicalName, e.DisplayName, string(e.Equipment),
			e.EquipmentDetail, e.Attachment, e.Complexity, string(e.PrimaryMuscle),
			string(e.SecondaryMuscle), string(e.Movement), e.Include, e.CanonicalRating)
		if err != nil {
			return n, fmt.Errorf("upserting exercise %s: %w", e.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return n, fmt.Errorf("upserting exercise %s: %w", e.ID, err)
		}
		n += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing upsert: %w", err)
	}
	return n, nil
}

// Count returns the number of stored exercises.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
