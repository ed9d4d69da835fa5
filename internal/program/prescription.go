package program

import "github.com/claude/trainplan/internal/models"

// SetsPerExercise is constant across experience levels.
const SetsPerExercise = 3

// Prescription is the sets/reps/rest assigned to one exercise.
type Prescription struct {
	Sets        int
	RepLow      int
	RepHigh     int
	RestSeconds int
}

type repRest struct {
	low, high, rest int
}

var prescriptionTable = map[models.ExperienceLevel]struct{ compound, isolation repRest }{
	models.ExperienceBeginner:     {compound: repRest{8, 12, 120}, isolation: repRest{10, 15, 60}},
	models.ExperienceIntermediate: {compound: repRest{6, 10, 150}, isolation: repRest{8, 12, 90}},
	models.ExperienceAdvanced:     {compound: repRest{5, 8, 180}, isolation: repRest{8, 12, 90}},
}

// Prescribe returns the prescription for ex at the given level. Users with no
// experience get the beginner row.
func Prescribe(ex models.Exercise, level models.ExperienceLevel) Prescription {
	row, ok := prescriptionTable[level]
	if !ok {
		row = prescriptionTable[models.ExperienceBeginner]
	}
	rr := row.isolation
	if ex.Movement.IsCompound() {
		rr = row.compound
	}
	return Prescription{Sets: SetsPerExercise, RepLow: rr.low, RepHigh: rr.high, RestSeconds: rr.rest}
}
