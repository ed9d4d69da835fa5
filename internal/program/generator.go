package program

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/claude/trainplan/internal/models"
)

// ErrCatalogUnavailable is returned when the catalog cannot be read or has
// no eligible exercises. Generation never returns an empty program instead.
var ErrCatalogUnavailable = errors.New("exercise catalog unavailable")

// LowFillThreshold is the per-day fill rate below which a program is
// flagged as low fill.
const LowFillThreshold = 0.75

// PriorityBonus is the extra exercise count for a target muscle slot.
// Full-body days have the fewest slots per muscle so they get the most.
func PriorityBonus(a models.Archetype) int {
	switch a {
	case models.ArchetypeFullBody:
		return 2
	case models.ArchetypePushPullLegs, models.ArchetypeUpperLower:
		return 1
	default:
		return 0
	}
}

// Generator assembles programs. It holds no per-call state and is safe for
// concurrent use.
type Generator struct {
	catalog  Catalog
	selector *Selector
	planner  Planner
	policy   Policy
	log      *slog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithPlanner replaces the built-in split table.
func WithPlanner(p Planner) Option {
	return func(g *Generator) { g.planner = p }
}

// WithPolicy replaces the default complexity policy.
func WithPolicy(p Policy) Option {
	return func(g *Generator) { g.policy = p }
}

// NewGenerator creates a Generator reading from catalog.
func NewGenerator(catalog Catalog, log *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		catalog: catalog,
		planner: TablePlanner{},
		policy:  LimitsFor,
		log:     log,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.selector = NewSelector(catalog, log)
	return g
}

// Generate builds a program for profile.
func (g *Generator) Generate(ctx context.Context, profile models.Profile) (*models.Program, error) {
	if err := g.probe(ctx); err != nil {
		return nil, err
	}

	plan := g.planner.Plan(profile.TrainingDaysPerWeek, profile.SessionDuration)
	limits := g.policy(profile.ExperienceLevel)
	bonus := PriorityBonus(plan.Archetype)

	used := UsedSet{}
	diag := NewDiagnostics()
	if profile.MissingCableAttachments() {
		diag.Add(models.Warning{
			Kind:      models.WarningAttachmentMissing,
			DayIndex:  -1,
			Equipment: []models.Equipment{models.EquipmentCableMachines},
			Message:   "cable machines are available but no attachments were listed; cable exercises that need one are skipped",
		})
	}
	prog := &models.Program{
		Archetype:           plan.Archetype,
		TrainingDaysPerWeek: len(plan.Templates),
		SessionDuration:     plan.Duration,
		Days:                make([]models.ProgramDay, 0, len(plan.Templates)),
		TotalWeeks:          models.ProgramWeeks,
	}

	for i, tmpl := range plan.Templates {
		day, err := g.buildDay(ctx, i, tmpl, profile, limits, bonus, used, diag)
		if err != nil {
			return nil, err
		}
		if day.FillRate < LowFillThreshold {
			prog.LowFill = true
		}
		prog.Days = append(prog.Days, day)
	}
	prog.Warnings = diag.Warnings()

	g.log.Info("program generated",
		"archetype", prog.Archetype,
		"days", len(prog.Days),
		"exercises", len(used),
		"warnings", len(prog.Warnings),
		"low_fill", prog.LowFill,
	)
	return prog, nil
}

// probe fails fast when the catalog is unreachable or empty.
func (g *Generator) probe(ctx context.Context) error {
	all, err := g.catalog.Query(ctx, models.Filter{OnlyIncluded: true, MaxComplexity: models.ComplexityMax})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if len(all) == 0 {
		return fmt.Errorf("%w: no exercises eligible for program generation", ErrCatalogUnavailable)
	}
	return nil
}

func (g *Generator) buildDay(ctx context.Context, index int, tmpl DayTemplate, profile models.Profile,
	limits Limits, bonus int, used UsedSet, diag *Diagnostics) (models.ProgramDay, error) {

	day := models.ProgramDay{Name: tmpl.Name, Exercises: []models.ProgramExercise{}}
	canonical := map[string]struct{}{}
	tier4 := 0
	requested := 0

	for slotIndex, slot := range tmpl.Slots {
		count := slot.Count
		if profile.IsTarget(slot.Muscle) {
			count += bonus
		}
		requested += count

		allowance := 0
		if !limits.Tier4MustLead || slotIndex == 0 {
			allowance = max(limits.MaxTier4PerSession-tier4, 0)
		}

		sel, err := g.selector.Select(ctx, Request{
			Muscle:           slot.Muscle,
			Count:            count,
			Equipment:        profile.EquipmentAvailable,
			EquipmentDetails: profile.EquipmentDetail,
			Attachments:      profile.Attachments,
			MaxComplexity:    limits.MaxComplexity,
			Tier4Allowance:   allowance,
			Excluded:         profile.ExcludedMuscleGroups,
			Used:             used,
			SessionCanonical: canonical,
		})
		if err != nil {
			return day, fmt.Errorf("%w: day %d (%s): %w", ErrCatalogUnavailable, index+1, tmpl.Name, err)
		}
		g.log.Debug("slot filled", "day", tmpl.Name, "muscle", slot.Muscle,
			"requested", count, "found", len(sel.Exercises))

		for _, ex := range sel.Exercises {
			used.Add(ex.ID)
			if ex.CanonicalName != "" {
				canonical[ex.CanonicalName] = struct{}{}
			}
			if ex.Complexity == models.ComplexityMax {
				tier4++
			}
			day.Exercises = append(day.Exercises, toProgramExercise(ex, profile.ExperienceLevel))
		}
		for _, w := range sel.Warnings {
			w.Day = tmpl.Name
			w.DayIndex = index
			g.log.Warn("selection warning", "kind", w.Kind, "day", tmpl.Name, "muscle", w.Muscle,
				"requested", w.Requested, "found", w.Found)
			diag.Add(w)
		}
	}

	// Hardest exercises lead the session; ties keep template order.
	slices.SortStableFunc(day.Exercises, func(a, b models.ProgramExercise) int {
		return cmp.Compare(b.Complexity, a.Complexity)
	})

	day.FillRate = 1
	if requested > 0 {
		day.FillRate = float64(len(day.Exercises)) / float64(requested)
	}
	return day, nil
}

func toProgramExercise(ex models.Exercise, level models.ExperienceLevel) models.ProgramExercise {
	rx := Prescribe(ex, level)
	return models.ProgramExercise{
		ExerciseID:    ex.ID,
		ExerciseName:  ex.DisplayName,
		Sets:          rx.Sets,
		RepRangeLow:   rx.RepLow,
		RepRangeHigh:  rx.RepHigh,
		RestSeconds:   rx.RestSeconds,
		PrimaryMuscle: ex.PrimaryMuscle,
		Equipment:     ex.Equipment,
		Complexity:    ex.Complexity,
		Movement:      ex.Movement,
	}
}

// Plan exposes the generator's split planner.
func (g *Generator) Plan(days int, duration models.SessionDuration) SplitPlan {
	return g.planner.Plan(days, duration)
}
