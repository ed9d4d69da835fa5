package storage

import (
	"context"
	"fmt"
	"time"
)

// ImportLog records one catalog import run.
type ImportLog struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	FilesProcessed   int       `json:"files_processed"`
	FilesErrored     int       `json:"files_errored"`
	ExercisesParsed  int       `json:"exercises_parsed"`
	ExercisesWritten int64     `json:"exercises_written"`
	DurationMs       *int      `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (source, status, files_processed, files_errored,
		 exercises_parsed, exercises_written, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		log.Source, log.Status, log.FilesProcessed, log.FilesErrored,
		log.ExercisesParsed, log.ExercisesWritten, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, files_processed = $3, files_errored = $4,
		 exercises_parsed = $5, exercises_written = $6, duration_ms = $7, error_message = $8
		 WHERE id = $1`,
		id, log.Status, log.FilesProcessed, log.FilesErrored,
		log.ExercisesParsed, log.ExercisesWritten, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// ListImportLogs returns the most recent import runs, newest first.
func (db *DB) ListImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	limit = clampLimit(limit, 20, 200)
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, status, files_processed, files_errored,
		 exercises_parsed, exercises_written, duration_ms, error_message
		 FROM import_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	result := []ImportLog{}
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Source, &l.Status, &l.FilesProcessed,
			&l.FilesErrored, &l.ExercisesParsed, &l.ExercisesWritten, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
