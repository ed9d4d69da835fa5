package program

import (
	"github.com/claude/trainplan/internal/models"
)

// Slot is one (muscle, count) entry of a day template.
type Slot struct {
	Muscle models.Muscle `json:"muscle"`
	Count  int           `json:"count"`
}

// DayTemplate names a training day and the slots it must fill.
type DayTemplate struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// Requested is the sum of slot counts.
func (t DayTemplate) Requested() int {
	n := 0
	for _, s := range t.Slots {
		n += s.Count
	}
	return n
}

// SplitPlan is the planner's answer for one (days, duration) pair.
type SplitPlan struct {
	Archetype models.Archetype       `json:"archetype"`
	Days      int                    `json:"days"`
	Duration  models.SessionDuration `json:"duration"`
	Templates []DayTemplate          `json:"templates"`
}

// Planner maps weekly frequency and session length to day templates.
type Planner interface {
	Plan(days int, duration models.SessionDuration) SplitPlan
}

type split struct {
	archetype models.Archetype
	templates map[models.SessionDuration][]DayTemplate
}

func s(m models.Muscle, n int) Slot { return Slot{Muscle: m, Count: n} }

func day(name string, slots ...Slot) DayTemplate {
	return DayTemplate{Name: name, Slots: slots}
}

// Day templates by duration. Isolation groups (biceps, triceps, calves)
// only appear once sessions are long enough to fit them.
var (
	fullBodyShort = day("Full Body",
		s(models.MuscleChest, 1), s(models.MuscleBack, 1), s(models.MuscleShoulders, 1),
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleCore, 1))
	fullBodyMedium = day("Full Body",
		s(models.MuscleChest, 1), s(models.MuscleShoulders, 1), s(models.MuscleBack, 1),
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleGlutes, 1),
		s(models.MuscleCore, 1))
	fullBodyLong = day("Full Body",
		s(models.MuscleChest, 1), s(models.MuscleShoulders, 1), s(models.MuscleBack, 1),
		s(models.MuscleBiceps, 1), s(models.MuscleTriceps, 1),
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleGlutes, 1),
		s(models.MuscleCalves, 1), s(models.MuscleCore, 1))

	oneDayMedium = day("Full Body",
		s(models.MuscleChest, 1), s(models.MuscleBack, 2), s(models.MuscleShoulders, 1),
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleGlutes, 1),
		s(models.MuscleCore, 1))
	oneDayLong = day("Full Body",
		s(models.MuscleChest, 2), s(models.MuscleBack, 2), s(models.MuscleShoulders, 1),
		s(models.MuscleBiceps, 1), s(models.MuscleTriceps, 1),
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleGlutes, 1),
		s(models.MuscleCalves, 1), s(models.MuscleCore, 1))

	pushShort = day("Push",
		s(models.MuscleChest, 1), s(models.MuscleShoulders, 2), s(models.MuscleTriceps, 1))
	pullShort = day("Pull",
		s(models.MuscleBack, 2), s(models.MuscleBiceps, 2))
	legsShort = day("Legs",
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleGlutes, 1),
		s(models.MuscleCore, 1))

	pushMedium = day("Push",
		s(models.MuscleChest, 2), s(models.MuscleShoulders, 2), s(models.MuscleTriceps, 1))
	pullMedium = day("Pull",
		s(models.MuscleBack, 3), s(models.MuscleBiceps, 2))
	legsMedium = day("Legs",
		s(models.MuscleQuads, 2), s(models.MuscleHamstrings, 2), s(models.MuscleGlutes, 1),
		s(models.MuscleCore, 1))

	pushLong = day("Push",
		s(models.MuscleChest, 3), s(models.MuscleShoulders, 3), s(models.MuscleTriceps, 2))
	pullLong = day("Pull",
		s(models.MuscleBack, 3), s(models.MuscleBiceps, 3))
	legsLong = day("Legs",
		s(models.MuscleQuads, 2), s(models.MuscleHamstrings, 2), s(models.MuscleGlutes, 1),
		s(models.MuscleCalves, 1), s(models.MuscleCore, 1))

	upperShort = day("Upper",
		s(models.MuscleChest, 1), s(models.MuscleShoulders, 1), s(models.MuscleBack, 1))
	lowerShort = day("Lower",
		s(models.MuscleQuads, 1), s(models.MuscleHamstrings, 1), s(models.MuscleGlutes, 1),
		s(models.MuscleCore, 1))

	upperMedium = day("Upper",
		s(models.MuscleChest, 2), s(models.MuscleShoulders, 2), s(models.MuscleBack, 2))
	lowerMedium = day("Lower",
		s(models.MuscleQuads, 2), s(models.MuscleHamstrings, 2), s(models.MuscleGlutes, 1),
		s(models.MuscleCore, 1))

	upperLong = day("Upper",
		s(models.MuscleChest, 2), s(models.MuscleShoulders, 2), s(models.MuscleBack, 2),
		s(models.MuscleTriceps, 1), s(models.MuscleBiceps, 1))
	lowerLong = day("Lower",
		s(models.MuscleQuads, 2), s(models.MuscleHamstrings, 2), s(models.MuscleGlutes, 1),
		s(models.MuscleCalves, 1), s(models.MuscleCore, 1))
)

// splitTable is keyed by days per week. Every key has all three durations.
var splitTable = map[int]split{
	1: {models.ArchetypeFullBody, map[models.SessionDuration][]DayTemplate{
		models.DurationShort:  {fullBodyShort},
		models.DurationMedium: {oneDayMedium},
		models.DurationLong:   {oneDayLong},
	}},
	2: {models.ArchetypeFullBody, map[models.SessionDuration][]DayTemplate{
		models.DurationShort:  {fullBodyShort, fullBodyShort},
		models.DurationMedium: {fullBodyMedium, fullBodyMedium},
		models.DurationLong:   {fullBodyLong, fullBodyLong},
	}},
	3: {models.ArchetypePushPullLegs, map[models.SessionDuration][]DayTemplate{
		models.DurationShort:  {pushShort, pullShort, legsShort},
		models.DurationMedium: {pushMedium, pullMedium, legsMedium},
		models.DurationLong:   {pushLong, pullLong, legsLong},
	}},
	4: {models.ArchetypeUpperLower, map[models.SessionDuration][]DayTemplate{
		models.DurationShort:  {upperShort, lowerShort, upperShort, lowerShort},
		models.DurationMedium: {upperMedium, lowerMedium, upperMedium, lowerMedium},
		models.DurationLong:   {upperLong, lowerLong, upperLong, lowerLong},
	}},
	5: {models.ArchetypePushPullLegs, map[models.SessionDuration][]DayTemplate{
		models.DurationShort:  {pushShort, pullShort, legsShort, upperShort, lowerShort},
		models.DurationMedium: {pushMedium, pullMedium, legsMedium, upperMedium, lowerMedium},
		models.DurationLong:   {pushLong, pullLong, legsLong, upperLong, lowerLong},
	}},
	6: {models.ArchetypePushPullLegs, map[models.SessionDuration][]DayTemplate{
		models.DurationShort:  {pushShort, pullShort, legsShort, pushShort, pullShort, legsShort},
		models.DurationMedium: {pushMedium, pullMedium, legsMedium, pushMedium, pullMedium, legsMedium},
		models.DurationLong:   {pushLong, pullLong, legsLong, pushLong, pullLong, legsLong},
	}},
}

const (
	minTableDays = 1
	maxTableDays = 6
)

// TablePlanner is the built-in split table.
type TablePlanner struct{}

// Plan returns the templates for days and duration. Days outside the table
// resolve to the nearest lower entry (below the table: the lowest entry),
// and an unknown duration resolves to medium. It never fails.
func (TablePlanner) Plan(days int, duration models.SessionDuration) SplitPlan {
	key := resolveDays(days)
	entry := splitTable[key]
	templates, ok := entry.templates[duration]
	if !ok {
		duration = models.DurationMedium
		templates = entry.templates[duration]
	}
	return SplitPlan{
		Archetype: entry.archetype,
		Days:      key,
		Duration:  duration,
		Templates: cloneTemplates(templates),
	}
}

func resolveDays(days int) int {
	if days < minTableDays {
		return minTableDays
	}
	for d := days; d >= minTableDays; d-- {
		if _, ok := splitTable[d]; ok {
			return d
		}
	}
	return maxTableDays
}

// cloneTemplates copies the shared table entries so callers may modify
// their plan without corrupting the table.
func cloneTemplates(in []DayTemplate) []DayTemplate {
	out := make([]DayTemplate, len(in))
	for i, t := range in {
		out[i] = DayTemplate{Name: t.Name, Slots: append([]Slot(nil), t.Slots...)}
	}
	return out
}

// TableDays lists the day counts present in the split table, ascending.
func TableDays() []int {
	out := make([]int, 0, maxTableDays)
	for d := minTableDays; d <= maxTableDays; d++ {
		if _, ok := splitTable[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
