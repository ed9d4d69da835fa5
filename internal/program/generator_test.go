package program

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allProfiles enumerates every level, every table day count plus one day
// above the table, and every duration.
func allProfiles(t *testing.T) []models.Profile {
	t.Helper()
	var out []models.Profile
	for _, level := range models.ExperienceLevels {
		for days := 1; days <= 7; days++ {
			for _, d := range models.SessionDurations {
				out = append(out, mustProfile(t, models.ProfileInput{
					ExperienceLevel:     string(level),
					TrainingDaysPerWeek: days,
					SessionDuration:     string(d),
				}))
			}
		}
	}
	return out
}

func countMuscle(prog *models.Program, m models.Muscle) int {
	n := 0
	for _, day := range prog.Days {
		for _, e := range day.Exercises {
			if e.PrimaryMuscle == m {
				n++
			}
		}
	}
	return n
}

// TestGenerateBeginnerHomeGym covers the beginner scenario: three medium
// days with only bodyweight and dumbbells.
func TestGenerateBeginnerHomeGym(t *testing.T) {
	gen := NewGenerator(seedCatalog(t), discardLogger())
	profile := mustProfile(t, models.ProfileInput{
		ExperienceLevel:     "beginner",
		TrainingDaysPerWeek: 3,
		SessionDuration:     "medium",
		EquipmentAvailable:  []string{"bodyweight", "dumbbells"},
	})

	prog, err := gen.Generate(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, models.ArchetypePushPullLegs, prog.Archetype)
	assert.Equal(t, 3, prog.TrainingDaysPerWeek)
	assert.Equal(t, models.ProgramWeeks, prog.TotalWeeks)
	require.Len(t, prog.Days, 3)
	assert.Equal(t, []string{"Push", "Pull", "Legs"}, []string{prog.Days[0].Name, prog.Days[1].Name, prog.Days[2].Name})

	ceiling := LimitsFor(models.ExperienceBeginner).MaxComplexity
	for _, day := range prog.Days {
		assert.NotEmpty(t, day.Exercises)
		assert.Equal(t, 1.0, day.FillRate, day.Name)
		for _, e := range day.Exercises {
			assert.LessOrEqual(t, e.Complexity, ceiling, e.ExerciseID)
			assert.Contains(t, profile.EquipmentAvailable, e.Equipment, e.ExerciseID)
		}
	}
	assert.Empty(t, prog.Warnings)
	assert.False(t, prog.LowFill)
}

// TestGenerateAdvancedChestPriority covers the priority scenario: every
// Upper day carries more chest work than the base template.
func TestGenerateAdvancedChestPriority(t *testing.T) {
	gen := NewGenerator(seedCatalog(t), discardLogger())
	profile := mustProfile(t, models.ProfileInput{
		ExperienceLevel:     "advanced",
		TrainingDaysPerWeek: 4,
		SessionDuration:     "long",
		TargetMuscleGroups:  []string{"chest"},
	})

	prog, err := gen.Generate(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, models.ArchetypeUpperLower, prog.Archetype)
	require.Len(t, prog.Days, 4)

	plan := gen.Plan(4, models.DurationLong)
	for i, day := range prog.Days {
		base := 0
		for _, s := range plan.Templates[i].Slots {
			if s.Muscle == models.MuscleChest {
				base += s.Count
			}
		}
		if day.Name != "Upper" {
			continue
		}
		assert.Greater(t, day.CountMuscle(models.MuscleChest), base, "day %d", i+1)
	}
}

// TestGeneratePriorityBonus verifies a target muscle gets strictly more
// exercises than the same profile without the target.
func TestGeneratePriorityBonus(t *testing.T) {
	gen := NewGenerator(seedCatalog(t), discardLogger())
	tests := []struct {
		level  string
		days   int
		dur    string
		target models.Muscle
	}{
		{"beginner", 2, "medium", models.MuscleGlutes},
		{"advanced", 4, "long", models.MuscleChest},
		{"beginner", 3, "medium", models.MuscleBack},
		{"advanced", 1, "short", models.MuscleCore},
		{"intermediate", 5, "medium", models.MuscleHamstrings},
	}
	for _, tt := range tests {
		profile := mustProfile(t, models.ProfileInput{
			ExperienceLevel:     tt.level,
			TrainingDaysPerWeek: tt.days,
			SessionDuration:     tt.dur,
			TargetMuscleGroups:  []string{string(tt.target)},
		})
		with, err := gen.Generate(context.Background(), profile)
		require.NoError(t, err)
		without, err := gen.Generate(context.Background(), profile.WithoutTarget(tt.target))
		require.NoError(t, err)

		assert.Greater(t, countMuscle(with, tt.target), countMuscle(without, tt.target),
			"%s %d %s %s", tt.level, tt.days, tt.dur, tt.target)
	}
}

// TestGenerateCalvesShortfall covers the shortfall scenario: one calves
// exercise in the catalog against a request for three.
func TestGenerateCalvesShortfall(t *testing.T) {
	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	seed = slices.DeleteFunc(seed, func(e models.Exercise) bool {
		return e.PrimaryMuscle == models.MuscleCalves && e.ID != "standing_calf_raise"
	})

	gen := NewGenerator(catalog.NewMemoryStore(seed), discardLogger())
	profile := mustProfile(t, models.ProfileInput{
		ExperienceLevel:     "intermediate",
		TrainingDaysPerWeek: 1,
		SessionDuration:     "long",
		TargetMuscleGroups:  []string{"calves"},
	})

	prog, err := gen.Generate(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, 1, countMuscle(prog, models.MuscleCalves))

	var calves []models.Warning
	for _, w := range prog.Warnings {
		if w.Muscle == models.MuscleCalves {
			calves = append(calves, w)
		}
	}
	require.Len(t, calves, 1)
	assert.Equal(t, models.WarningShortfall, calves[0].Kind)
	assert.Equal(t, 3, calves[0].Requested)
	assert.Equal(t, 1, calves[0].Found)
	assert.Contains(t, calves[0].Message, "calves")
}

// TestGenerateExcludedShoulders covers the exclusion scenario: no shoulder
// exercise anywhere and one warning per template entry for shoulders.
func TestGenerateExcludedShoulders(t *testing.T) {
	gen := NewGenerator(seedCatalog(t), discardLogger())
	for _, days := range []int{2, 3, 4, 6} {
		profile := mustProfile(t, models.ProfileInput{
			ExperienceLevel:      "intermediate",
			TrainingDaysPerWeek:  days,
			SessionDuration:      "medium",
			ExcludedMuscleGroups: []string{"shoulders"},
		})
		prog, err := gen.Generate(context.Background(), profile)
		require.NoError(t, err)
		assert.Zero(t, countMuscle(prog, models.MuscleShoulders), "days=%d", days)

		var wantDays, gotDays []int
		for i, tmpl := range gen.Plan(days, models.DurationMedium).Templates {
			for _, s := range tmpl.Slots {
				if s.Muscle == models.MuscleShoulders {
					wantDays = append(wantDays, i)
				}
			}
		}
		for _, w := range prog.Warnings {
			if w.Kind == models.WarningExcludedMuscle {
				assert.Equal(t, models.MuscleShoulders, w.Muscle)
				gotDays = append(gotDays, w.DayIndex)
			}
		}
		assert.Equal(t, wantDays, gotDays, "days=%d", days)
	}
}

// TestGenerateInvariants checks determinism, no repetition, the complexity
// ceiling, day counts and prescription fidelity for every profile shape.
func TestGenerateInvariants(t *testing.T) {
	gen := NewGenerator(seedCatalog(t), discardLogger())
	for _, profile := range allProfiles(t) {
		first, err := gen.Generate(context.Background(), profile)
		require.NoError(t, err)
		second, err := gen.Generate(context.Background(), profile)
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%+v: non-deterministic (-first +second):\n%s", profile, diff)
		}
		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		require.Equal(t, string(a), string(b))

		wantDays := min(profile.TrainingDaysPerWeek, 6)
		assert.Len(t, first.Days, wantDays)
		assert.Equal(t, wantDays, first.TrainingDaysPerWeek)

		ids := first.ExerciseIDs()
		assert.Len(t, ids, len(slices.Compact(slices.Sorted(slices.Values(ids)))), "%+v: repeated exercise", profile)

		limits := LimitsFor(profile.ExperienceLevel)
		for _, day := range first.Days {
			for i, e := range day.Exercises {
				assert.LessOrEqual(t, e.Complexity, limits.MaxComplexity, e.ExerciseID)
				rx := Prescribe(models.Exercise{Movement: e.Movement}, profile.ExperienceLevel)
				assert.Equal(t, rx, Prescription{e.Sets, e.RepRangeLow, e.RepRangeHigh, e.RestSeconds}, e.ExerciseID)
				if i > 0 {
					assert.LessOrEqual(t, e.Complexity, day.Exercises[i-1].Complexity, "%s not ordered by complexity", day.Name)
				}
			}
		}
	}
}

// TestGenerateExclusionInvariant verifies excluded muscles never appear for
// any profile shape.
func TestGenerateExclusionInvariant(t *testing.T) {
	gen := NewGenerator(seedCatalog(t), discardLogger())
	excluded := []string{"core", "hamstrings"}
	for _, days := range TableDays() {
		for _, d := range models.SessionDurations {
			profile := mustProfile(t, models.ProfileInput{
				ExperienceLevel:      "advanced",
				TrainingDaysPerWeek:  days,
				SessionDuration:      string(d),
				ExcludedMuscleGroups: excluded,
			})
			prog, err := gen.Generate(context.Background(), profile)
			require.NoError(t, err)
			assert.Zero(t, countMuscle(prog, models.MuscleCore))
			assert.Zero(t, countMuscle(prog, models.MuscleHamstrings))
		}
	}
}

// TestGenerateCatalogUnavailable verifies empty and failing catalogs fail
// the call instead of producing an empty program.
func TestGenerateCatalogUnavailable(t *testing.T) {
	profile := mustProfile(t, models.ProfileInput{ExperienceLevel: "beginner", TrainingDaysPerWeek: 3, SessionDuration: "short"})
	boom := errors.New("connection refused")

	hidden := ex("hidden", models.MuscleChest, models.EquipmentDumbbells, 0, 50)
	hidden.Include = false

	tests := map[string]Catalog{
		"empty":          sliceCatalog{},
		"none included":  sliceCatalog{hidden},
		"query error":    errCatalog{boom},
		"fails mid-call": &countingCatalog{Catalog: seedCatalog(t), left: 1, err: boom},
	}
	for name, cat := range tests {
		t.Run(name, func(t *testing.T) {
			prog, err := NewGenerator(cat, discardLogger()).Generate(context.Background(), profile)
			assert.Nil(t, prog)
			require.ErrorIs(t, err, ErrCatalogUnavailable)
		})
	}

	_, err := NewGenerator(errCatalog{boom}, discardLogger()).Generate(context.Background(), profile)
	assert.ErrorIs(t, err, boom)
}

// TestGenerateLowFill verifies a sparse catalog flags the program.
func TestGenerateLowFill(t *testing.T) {
	cat := sliceCatalog{ex("push_up", models.MuscleChest, models.EquipmentBodyweight, 0, 50)}
	profile := mustProfile(t, models.ProfileInput{ExperienceLevel: "beginner", TrainingDaysPerWeek: 3, SessionDuration: "medium"})

	prog, err := NewGenerator(cat, discardLogger()).Generate(context.Background(), profile)
	require.NoError(t, err)
	assert.True(t, prog.LowFill)
	assert.Equal(t, 1, len(prog.ExerciseIDs()))
	assert.InDelta(t, 0.2, prog.Days[0].FillRate, 1e-9)
	assert.Zero(t, prog.Days[1].FillRate)
	assert.NotNil(t, prog.Days[1].Exercises)
}

// TestGenerateTier4Policy verifies an injected policy lets tier 4 lead a
// session, once, and only from the first slot.
func TestGenerateTier4Policy(t *testing.T) {
	cat := sliceCatalog{
		ex("snatch_grip_deadlift", models.MuscleBack, models.EquipmentBarbells, 4, 99),
		ex("row", models.MuscleBack, models.EquipmentBarbells, 1, 50),
		ex("pulldown", models.MuscleBack, models.EquipmentBarbells, 0, 40),
		ex("deficit_deadlift", models.MuscleHamstrings, models.EquipmentBarbells, 4, 99),
		ex("rdl", models.MuscleHamstrings, models.EquipmentBarbells, 1, 50),
	}
	planner := fixedPlanner{
		archetype: models.ArchetypeFullBody,
		templates: []DayTemplate{day("Pull", s(models.MuscleBack, 2), s(models.MuscleHamstrings, 1))},
	}
	policy := func(models.ExperienceLevel) Limits {
		return Limits{MaxComplexity: 2, MaxTier4PerSession: 1, Tier4MustLead: true}
	}
	profile := mustProfile(t, models.ProfileInput{ExperienceLevel: "advanced", TrainingDaysPerWeek: 1, SessionDuration: "short"})

	prog, err := NewGenerator(cat, discardLogger(), WithPlanner(planner), WithPolicy(policy)).Generate(context.Background(), profile)
	require.NoError(t, err)
	require.Len(t, prog.Days, 1)

	var ids []string
	for _, e := range prog.Days[0].Exercises {
		ids = append(ids, e.ExerciseID)
	}
	assert.Equal(t, []string{"snatch_grip_deadlift", "row", "rdl"}, ids)

	// The default policy reserves tier 4 entirely.
	prog, err = NewGenerator(cat, discardLogger(), WithPlanner(planner)).Generate(context.Background(), profile)
	require.NoError(t, err)
	assert.NotContains(t, prog.ExerciseIDs(), "snatch_grip_deadlift")
	assert.NotContains(t, prog.ExerciseIDs(), "deficit_deadlift")
}

// TestGenerateCableAttachments verifies a rope exercise is only placed when
// the rope is listed, and that cables without attachments are flagged once.
func TestGenerateCableAttachments(t *testing.T) {
	seed, err := catalog.DefaultSeed()
	require.NoError(t, err)
	rope := ex("rope_pushdown_extra", models.MuscleTriceps, models.EquipmentCableMachines, 0, 100)
	rope.Attachment = "rope"
	gen := NewGenerator(catalog.NewMemoryStore(append(seed, rope)), discardLogger())

	in := models.ProfileInput{
		ExperienceLevel:     "intermediate",
		TrainingDaysPerWeek: 3,
		SessionDuration:     "medium",
		EquipmentAvailable:  []string{"cable_machines", "dumbbells", "bodyweight"},
	}
	placed := func(prog *models.Program) bool {
		for _, day := range prog.Days {
			for _, e := range day.Exercises {
				if e.ExerciseID == rope.ID {
					return true
				}
			}
		}
		return false
	}

	prog, err := gen.Generate(context.Background(), mustProfile(t, in))
	require.NoError(t, err)
	assert.False(t, placed(prog))
	require.NotEmpty(t, prog.Warnings)
	first := prog.Warnings[0]
	assert.Equal(t, models.WarningAttachmentMissing, first.Kind)
	assert.Equal(t, -1, first.DayIndex)
	assert.Equal(t, []models.Equipment{models.EquipmentCableMachines}, first.Equipment)
	for _, w := range prog.Warnings[1:] {
		assert.NotEqual(t, models.WarningAttachmentMissing, w.Kind)
	}

	in.Attachments = []string{"Rope"}
	prog, err = gen.Generate(context.Background(), mustProfile(t, in))
	require.NoError(t, err)
	assert.True(t, placed(prog))
	for _, w := range prog.Warnings {
		assert.NotEqual(t, models.WarningAttachmentMissing, w.Kind)
	}

	// Defaulted equipment leaves attachments unrestricted.
	in.EquipmentAvailable, in.Attachments = nil, nil
	prog, err = gen.Generate(context.Background(), mustProfile(t, in))
	require.NoError(t, err)
	assert.True(t, placed(prog))
}
