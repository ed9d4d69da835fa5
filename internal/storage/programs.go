package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/trainplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveProgram stores a generated program with the profile that produced it
// and returns the stored record.
func (db *DB) SaveProgram(ctx context.Context, profile models.Profile, prog *models.Program) (*models.StoredProgram, error) {
	profileJSON, programJSON, err := encodeProgram(profile, prog)
	if err != nil {
		return nil, err
	}

	stored := &models.StoredProgram{
		ID:      uuid.NewString(),
		Profile: profile,
		Program: *prog,
	}
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO programs (id, archetype, days_per_week, session_duration, profile, program, warning_count, low_fill)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		stored.ID, string(prog.Archetype), prog.TrainingDaysPerWeek, string(prog.SessionDuration),
		profileJSON, programJSON, len(prog.Warnings), prog.LowFill,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting program: %w", err)
	}
	return stored, nil
}

// GetProgram loads a stored program by id.
func (db *DB) GetProgram(ctx context.Context, id uuid.UUID) (*models.StoredProgram, error) {
	var (
		stored                   models.StoredProgram
		profileJSON, programJSON []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id::text, profile, program, created_at FROM programs WHERE id = $1`, id,
	).Scan(&stored.ID, &profileJSON, &programJSON, &stored.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying program %s: %w", id, err)
	}
	if err := decodeProgram(&stored, profileJSON, programJSON); err != nil {
		return nil, err
	}
	return &stored, nil
}

// encodeProgram produces the JSONB column values for the programs table.
func encodeProgram(profile models.Profile, prog *models.Program) (profileJSON, programJSON []byte, err error) {
	if prog == nil {
		return nil, nil, errors.New("encoding program: nil program")
	}
	if profileJSON, err = json.Marshal(profile); err != nil {
		return nil, nil, fmt.Errorf("encoding profile: %w", err)
	}
	if programJSON, err = json.Marshal(prog); err != nil {
		return nil, nil, fmt.Errorf("encoding program: %w", err)
	}
	return profileJSON, programJSON, nil
}

// decodeProgram fills the profile and program of stored from their JSONB
// column values.
func decodeProgram(stored *models.StoredProgram, profileJSON, programJSON []byte) error {
	if err := json.Unmarshal(profileJSON, &stored.Profile); err != nil {
		return fmt.Errorf("decoding profile of program %s: %w", stored.ID, err)
	}
	if err := json.Unmarshal(programJSON, &stored.Program); err != nil {
		return fmt.Errorf("decoding program %s: %w", stored.ID, err)
	}
	return nil
}

// clampLimit returns def when limit is not in 1..maxLimit.
func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 || limit > maxLimit {
		return def
	}
	return limit
}

// ProgramSummary is a list row for stored programs.
type ProgramSummary struct {
	ID              string `json:"id"`
	Archetype       string `json:"archetype"`
	DaysPerWeek     int    `json:"daysPerWeek"`
	SessionDuration string `json:"sessionDuration"`
	WarningCount    int    `json:"warningCount"`
	LowFill         bool   `json:"lowFill"`
	CreatedAt       string `json:"createdAt"`
}

// ListPrograms returns the most recent programs, newest first.
func (db *DB) ListPrograms(ctx context.Context, limit int) ([]ProgramSummary, error) {
	limit = clampLimit(limit, 50, 500)
	rows, err := db.Pool.Query(ctx,
		`SELECT id::text, archetype, days_per_week, session_duration, warning_count, low_fill,
		 to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		 FROM programs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	result := []ProgramSummary{}
	for rows.Next() {
		var p ProgramSummary
		if err := rows.Scan(&p.ID, &p.Archetype, &p.DaysPerWeek, &p.SessionDuration,
			&p.WarningCount, &p.LowFill, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
