package storage

import (
	"context"
	"fmt"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
)

// Compile-time check: *DB serves as a writable catalog.
var (
	_ catalog.Store  = (*DB)(nil)
	_ catalog.Writer = (*DB)(nil)
)

// Query returns the catalog exercises matching f, ordered by id.
func (db *DB) Query(ctx context.Context, f models.Filter) ([]models.Exercise, error) {
	query, args := catalog.BuildQuery(f, catalog.Postgres)
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		e, err := catalog.ScanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpsertExercises inserts exercises, updating rows that share an id.
// Returns the number of rows written.
func (db *DB) UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var n int64
	for _, e := range exercises {
		tag, err := tx.Exec(ctx,
			`INSERT INTO exercises (`+catalog.ExerciseColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			 ON CONFLICT (id) DO UPDATE SET
			   canonical_name = EXCLUDED.canonical_name, display_name = EXCLUDED.display_name,
			   equipment = EXCLUDED.equipment, equipment_detail = EXCLUDED.equipment_detail,
			   attachment = EXCLUDED.attachment, complexity = EXCLUDED.complexity,
			   primary_muscle = EXCLUDED.primary_muscle, secondary_muscle = EXCLUDED.secondary_muscle,
			   movement = EXCLUDED.movement, include_in_program = EXCLUDED.include_in_program,
			   canonical_rating = EXCLUDED.canonical_rating, updated_at = NOW()`,
			e.ID, e.CanonicalName, e.DisplayName, string(e.Equipment), e.EquipmentDetail, e.Attachment,
			e.Complexity, string(e.PrimaryMuscle), string(e.SecondaryMuscle), string(e.Movement),
			e.Include, e.CanonicalRating)
		if err != nil {
			return 0, fmt.Errorf("upserting exercise %s: %w", e.ID, err)
		}
		n += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing exercises: %w", err)
	}
	return n, nil
}
