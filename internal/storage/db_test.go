package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// testDB connects to TRAINPLAN_TEST_DSN with migrations applied, or skips.
func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TRAINPLAN_TEST_DSN")
	if dsn == "" {
		t.Skip("TRAINPLAN_TEST_DSN not set")
	}
	if err := RunMigrations(dsn, filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	db, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// TestProgramsPostgres saves, loads and lists a program.
func TestProgramsPostgres(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	profile, prog := storedFixture()

	saved, err := db.SaveProgram(ctx, profile, prog)
	if err != nil {
		t.Fatalf("SaveProgram: %v", err)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("created_at not returned")
	}

	loaded, err := db.GetProgram(ctx, uuid.MustParse(saved.ID))
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if diff := cmp.Diff(saved.Program, loaded.Program); diff != "" {
		t.Errorf("program mismatch (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(profile, loaded.Profile); diff != "" {
		t.Errorf("profile mismatch (-saved +loaded):\n%s", diff)
	}

	if _, err := db.GetProgram(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}

	list, err := db.ListPrograms(ctx, 10)
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	found := false
	for _, p := range list {
		if p.ID == saved.ID {
			found = true
			if p.WarningCount != len(prog.Warnings) || p.Archetype != string(prog.Archetype) {
				t.Errorf("summary = %+v", p)
			}
		}
	}
	if !found {
		t.Errorf("saved program %s missing from list", saved.ID)
	}
}

// TestImportLogsPostgres records a run and reads it back.
func TestImportLogsPostgres(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.InsertImportLog(ctx, ImportLog{Source: "seed.yaml", Status: "running"})
	if err != nil {
		t.Fatalf("InsertImportLog: %v", err)
	}
	ms, msg := 42, "c_broken.yaml: bad complexity"
	err = db.UpdateImportLog(ctx, id, ImportLog{Status: "error", FilesProcessed: 3, FilesErrored: 1,
		ExercisesParsed: 12, ExercisesWritten: 10, DurationMs: &ms, ErrorMessage: &msg})
	if err != nil {
		t.Fatalf("UpdateImportLog: %v", err)
	}

	logs, err := db.ListImportLogs(ctx, 200)
	if err != nil {
		t.Fatalf("ListImportLogs: %v", err)
	}
	for _, l := range logs {
		if l.ID != id {
			continue
		}
		if l.Status != "error" || l.Source != "seed.yaml" || l.ExercisesWritten != 10 {
			t.Errorf("log = %+v", l)
		}
		if l.DurationMs == nil || *l.DurationMs != 42 || l.ErrorMessage == nil || *l.ErrorMessage != msg {
			t.Errorf("optional fields = %v, %v", l.DurationMs, l.ErrorMessage)
		}
		return
	}
	t.Errorf("import log %d not listed", id)
}
