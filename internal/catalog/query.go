package catalog

import (
	"fmt"
	"strings"

	"github.com/claude/trainplan/internal/models"
)

// Dialect selects the placeholder syntax for BuildQuery.
type Dialect int

const (
	// SQLite uses "?" placeholders.
	SQLite Dialect = iota
	// Postgres uses "$n" placeholders.
	Postgres
)

// ExerciseColumns is the column list every catalog SELECT returns, in the
// order Scan helpers expect.
const ExerciseColumns = `id, canonical_name, display_name, equipment, equipment_detail, attachment,
	complexity, primary_muscle, secondary_muscle, movement, include_in_program, canonical_rating`

// BuildQuery translates f into a SELECT over the exercises table. Rows are
// ordered by id so results are stable across drivers.
func BuildQuery(f models.Filter, d Dialect) (string, []any) {
	var (
		where []string
		args  []any
	)
	ph := func() string {
		if d == Postgres {
			return fmt.Sprintf("$%d", len(args))
		}
		return "?"
	}
	args = append(args, f.MaxComplexity)
	where = append(where, "complexity <= "+ph())

	if f.OnlyIncluded {
		where = append(where, "include_in_program")
	}
	if f.PrimaryMuscle != "" {
		args = append(args, string(f.PrimaryMuscle))
		where = append(where, "primary_muscle = "+ph())
	}
	if len(f.EquipmentCategories) > 0 {
		phs := make([]string, 0, len(f.EquipmentCategories))
		for _, e := range f.EquipmentCategories {
			args = append(args, string(e))
			phs = append(phs, ph())
		}
		where = append(where, "equipment IN ("+strings.Join(phs, ",")+")")
	}
	if len(f.ExcludePrimaryMuscles) > 0 {
		phs := make([]string, 0, len(f.ExcludePrimaryMuscles))
		for _, m := range f.ExcludePrimaryMuscles {
			args = append(args, string(m))
			phs = append(phs, ph())
		}
		where = append(where, "primary_muscle NOT IN ("+strings.Join(phs, ",")+")")
	}
	if len(f.ExcludeIDs) > 0 {
		phs := make([]string, 0, len(f.ExcludeIDs))
		for _, id := range f.ExcludeIDs {
			args = append(args, id)
			phs = append(phs, ph())
		}
		where = append(where, "id NOT IN ("+strings.Join(phs, ",")+")")
	}

	if f.EquipmentDetails != nil {
		where = append(where, itemClause("equipment_detail", f.EquipmentDetails, &args, ph))
	}
	if f.Attachments != nil {
		where = append(where, itemClause("attachment", f.Attachments, &args, ph))
	}

	query := "SELECT " + ExerciseColumns + " FROM exercises WHERE " +
		strings.Join(where, " AND ") + " ORDER BY id"
	return query, args
}

// itemClause admits rows that need no item in column, or one of allowed.
func itemClause(column string, allowed []string, args *[]any, ph func() string) string {
	if len(allowed) == 0 {
		return column + " = ''"
	}
	phs := make([]string, 0, len(allowed))
	for _, item := range allowed {
		*args = append(*args, item)
		phs = append(phs, ph())
	}
	return "(" + column + " = '' OR " + column + " IN (" + strings.Join(phs, ",") + "))"
}

// Scanner is satisfied by *sql.Rows and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanExercise reads one row selected with ExerciseColumns.
func ScanExercise(row Scanner) (models.Exercise, error) {
	var (
		e                                   models.Exercise
		equipment, primary, secondary, move string
	)
	if err := row.Scan(&e.ID, &e.CanonicalName, &e.DisplayName, &equipment, &e.EquipmentDetail,
		&e.Attachment, &e.Complexity, &primary, &secondary, &move, &e.Include, &e.CanonicalRating); err != nil {
		return e, fmt.Errorf("scanning exercise: %w", err)
	}
	e.Equipment = models.Equipment(equipment)
	e.PrimaryMuscle = models.Muscle(primary)
	e.SecondaryMuscle = models.Muscle(secondary)
	e.Movement = models.Movement(move)
	return e, nil
}
