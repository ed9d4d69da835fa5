package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ProgramWeeks is the fixed length of every generated program.
const ProgramWeeks = 8

// ProgramExercise is one prescribed exercise within a day.
type ProgramExercise struct {
	ExerciseID    string    `json:"exerciseId"`
	ExerciseName  string    `json:"exerciseName"`
	Sets          int       `json:"sets"`
	RepRangeLow   int       `json:"repRangeLow"`
	RepRangeHigh  int       `json:"repRangeHigh"`
	RestSeconds   int       `json:"restSeconds"`
	PrimaryMuscle Muscle    `json:"primaryMuscle"`
	Equipment     Equipment `json:"equipment"`
	Complexity    int       `json:"complexity"`
	Movement      Movement  `json:"movement"`
}

// RepRange formats the rep range as "low-high".
func (e ProgramExercise) RepRange() string {
	return fmt.Sprintf("%d-%d", e.RepRangeLow, e.RepRangeHigh)
}

// ProgramDay is one training day.
type ProgramDay struct {
	Name      string            `json:"name"`
	Exercises []ProgramExercise `json:"exercises"`
	// FillRate is placed/requested for the day's template, 0-1.
	FillRate float64 `json:"fillRate"`
}

// Program is the generated result. Callers own it once returned.
type Program struct {
	Archetype           Archetype       `json:"archetype"`
	TrainingDaysPerWeek int             `json:"trainingDaysPerWeek"`
	SessionDuration     SessionDuration `json:"sessionDuration"`
	Days                []ProgramDay    `json:"days"`
	TotalWeeks          int             `json:"totalWeeks"`
	Warnings            []Warning       `json:"warnings"`
	LowFill             bool            `json:"lowFill"`
}

// ExerciseIDs returns every exercise id in day and slot order.
func (p *Program) ExerciseIDs() []string {
	var ids []string
	for _, d := range p.Days {
		for _, e := range d.Exercises {
			ids = append(ids, e.ExerciseID)
		}
	}
	return ids
}

// CountMuscle returns how many exercises in the program target m.
func (p *Program) CountMuscle(m Muscle) int {
	n := 0
	for _, d := range p.Days {
		n += d.CountMuscle(m)
	}
	return n
}

// CountMuscle returns how many exercises on the day target m.
func (d ProgramDay) CountMuscle(m Muscle) int {
	n := 0
	for _, e := range d.Exercises {
		if e.PrimaryMuscle == m {
			n++
		}
	}
	return n
}

// StoredProgram is a persisted program with its generating profile.
type StoredProgram struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	Program   Program   `json:"program"`
	CreatedAt time.Time `json:"createdAt"`
}

// WarningKind classifies a diagnostic.
type WarningKind string

const (
	// WarningShortfall: fewer exercises than requested for a slot.
	WarningShortfall WarningKind = "shortfall"
	// WarningExcludedMuscle: the template targeted an excluded muscle.
	WarningExcludedMuscle WarningKind = "excluded_muscle"
	// WarningEquipmentRelaxed: exercises outside the user's equipment were used.
	WarningEquipmentRelaxed WarningKind = "equipment_relaxed"
	// WarningAttachmentMissing: cable machines are available but no
	// attachments were listed, so exercises needing one are skipped.
	WarningAttachmentMissing WarningKind = "attachment_missing"
)

// Warning is a non-fatal diagnostic attached to a program. DayIndex is -1
// for warnings about the whole program.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	Muscle    Muscle      `json:"muscle"`
	Day       string      `json:"day"`
	DayIndex  int         `json:"dayIndex"`
	Requested int         `json:"requested"`
	Found     int         `json:"found"`
	Equipment []Equipment `json:"equipment"`
	Message   string      `json:"message"`
	// Occurrences counts how many slots collapsed into this warning.
	Occurrences int `json:"occurrences"`
}

// Signature identifies duplicate warnings. Shortfall and relaxation
// warnings collapse per muscle and equipment set; exclusion warnings stay
// one per template entry.
func (w Warning) Signature() string {
	eq := make([]string, len(w.Equipment))
	for i, e := range w.Equipment {
		eq[i] = string(e)
	}
	slices.Sort(eq)
	sig := string(w.Kind) + "|" + string(w.Muscle) + "|" + strings.Join(eq, ",")
	if w.Kind == WarningExcludedMuscle {
		sig += fmt.Sprintf("|day%d", w.DayIndex)
	}
	return sig
}
