package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/google/uuid"
)

// ErrNoProgramStore is returned by GetProgram when the data source has no
// program storage behind it.
var ErrNoProgramStore = errors.New("program storage not configured")

// DataSource abstracts the generator for MCP tools. Both Local (in-process)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GenerateProgram(ctx context.Context, in models.ProfileInput) (*models.Program, error)
	QueryExercises(ctx context.Context, f models.Filter) ([]models.Exercise, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*models.StoredProgram, error)
	Plan(ctx context.Context, days int, duration models.SessionDuration) (program.SplitPlan, error)
}

// ProgramReader loads stored programs. *storage.DB satisfies it.
type ProgramReader interface {
	GetProgram(ctx context.Context, id uuid.UUID) (*models.StoredProgram, error)
}

// Local serves tools from an in-process generator and catalog.
type Local struct {
	gen      *program.Generator
	catalog  catalog.Store
	programs ProgramReader
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal returns a DataSource backed by gen and store. programs may be
// nil when no database is configured.
func NewLocal(gen *program.Generator, store catalog.Store, programs ProgramReader) *Local {
	return &Local{gen: gen, catalog: store, programs: programs}
}

func (l *Local) GenerateProgram(ctx context.Context, in models.ProfileInput) (*models.Program, error) {
	profile, err := models.NewProfile(in)
	if err != nil {
		return nil, err
	}
	return l.gen.Generate(ctx, profile)
}

func (l *Local) QueryExercises(ctx context.Context, f models.Filter) ([]models.Exercise, error) {
	return l.catalog.Query(ctx, f)
}

func (l *Local) GetProgram(ctx context.Context, id uuid.UUID) (*models.StoredProgram, error) {
	if l.programs == nil {
		return nil, fmt.Errorf("loading program %s: %w", id, ErrNoProgramStore)
	}
	return l.programs.GetProgram(ctx, id)
}

func (l *Local) Plan(_ context.Context, days int, duration models.SessionDuration) (program.SplitPlan, error) {
	return l.gen.Plan(days, duration), nil
}
