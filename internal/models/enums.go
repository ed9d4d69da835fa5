package models

import (
	"fmt"
	"strings"
)

// ExperienceLevel is the user's self-reported training experience.
type ExperienceLevel string

const (
	ExperienceNone         ExperienceLevel = "none"
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// ExperienceLevels lists every level in ascending order.
var ExperienceLevels = []ExperienceLevel{
	ExperienceNone, ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced,
}

// ParseExperienceLevel accepts the enum value or a questionnaire answer
// such as "0_6_months" or "2_plus_years".
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0_months", "no_experience":
		return ExperienceNone, nil
	case "beginner", "0_6_months":
		return ExperienceBeginner, nil
	case "intermediate", "6_months_2_years":
		return ExperienceIntermediate, nil
	case "advanced", "2_plus_years":
		return ExperienceAdvanced, nil
	}
	return "", fmt.Errorf("%w: unknown experience level %q", ErrInvalidProfile, s)
}

// SessionDuration is the coarse session length bucket.
type SessionDuration string

const (
	DurationShort  SessionDuration = "short"
	DurationMedium SessionDuration = "medium"
	DurationLong   SessionDuration = "long"
)

// SessionDurations lists every duration bucket, shortest first.
var SessionDurations = []SessionDuration{DurationShort, DurationMedium, DurationLong}

// ParseSessionDuration accepts the enum value or the minute ranges shown
// in the questionnaire ("30-45 min", "45-60 min", "60-90 min").
func ParseSessionDuration(s string) (SessionDuration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "30-45 min", "30-45":
		return DurationShort, nil
	case "medium", "45-60 min", "45-60":
		return DurationMedium, nil
	case "long", "60-90 min", "60-90":
		return DurationLong, nil
	}
	return "", fmt.Errorf("%w: unknown session duration %q", ErrInvalidProfile, s)
}

// Equipment is a coarse equipment category.
type Equipment string

const (
	EquipmentBodyweight    Equipment = "bodyweight"
	EquipmentBarbells      Equipment = "barbells"
	EquipmentDumbbells     Equipment = "dumbbells"
	EquipmentCableMachines Equipment = "cable_machines"
	EquipmentPinLoaded     Equipment = "pin_loaded"
	EquipmentPlateLoaded   Equipment = "plate_loaded"
	EquipmentKettlebells   Equipment = "kettlebells"
)

// AllEquipment is used when a profile lists no equipment.
var AllEquipment = []Equipment{
	EquipmentBodyweight, EquipmentBarbells, EquipmentDumbbells, EquipmentCableMachines,
	EquipmentPinLoaded, EquipmentPlateLoaded, EquipmentKettlebells,
}

var equipmentAliases = map[string]Equipment{
	"bodyweight":     EquipmentBodyweight,
	"body_weight":    EquipmentBodyweight,
	"barbell":        EquipmentBarbells,
	"barbells":       EquipmentBarbells,
	"dumbbell":       EquipmentDumbbells,
	"dumbbells":      EquipmentDumbbells,
	"cable":          EquipmentCableMachines,
	"cables":         EquipmentCableMachines,
	"cable_machines": EquipmentCableMachines,
	"pin_loaded":     EquipmentPinLoaded,
	"machine":        EquipmentPinLoaded,
	"machines":       EquipmentPinLoaded,
	"plate_loaded":   EquipmentPlateLoaded,
	"kettlebell":     EquipmentKettlebells,
	"kettlebells":    EquipmentKettlebells,
}

// ParseEquipment normalizes an equipment token. Spaces and dashes are
// treated as underscores.
func ParseEquipment(s string) (Equipment, error) {
	if e, ok := equipmentAliases[normalizeToken(s)]; ok {
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown equipment %q", ErrInvalidProfile, s)
}

// Muscle is a primary muscle group token.
type Muscle string

const (
	MuscleChest      Muscle = "chest"
	MuscleBack       Muscle = "back"
	MuscleShoulders  Muscle = "shoulders"
	MuscleBiceps     Muscle = "biceps"
	MuscleTriceps    Muscle = "triceps"
	MuscleQuads      Muscle = "quads"
	MuscleHamstrings Muscle = "hamstrings"
	MuscleGlutes     Muscle = "glutes"
	MuscleCalves     Muscle = "calves"
	MuscleCore       Muscle = "core"
)

// AllMuscles lists every muscle group the catalog may reference.
var AllMuscles = []Muscle{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleCore,
}

var muscleAliases = map[string]Muscle{
	"quadriceps": MuscleQuads,
	"abs":        MuscleCore,
	"abdominals": MuscleCore,
	"delts":      MuscleShoulders,
	"lats":       MuscleBack,
}

// ParseMuscle normalizes a muscle token, accepting a few common aliases.
func ParseMuscle(s string) (Muscle, error) {
	tok := normalizeToken(s)
	for _, m := range AllMuscles {
		if string(m) == tok {
			return m, nil
		}
	}
	if m, ok := muscleAliases[tok]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown muscle group %q", ErrInvalidProfile, s)
}

// Movement is the movement pattern of an exercise.
type Movement string

const (
	MovementSquat     Movement = "squat"
	MovementHinge     Movement = "hinge"
	MovementPush      Movement = "push"
	MovementPull      Movement = "pull"
	MovementLunge     Movement = "lunge"
	MovementCarry     Movement = "carry"
	MovementCore      Movement = "core"
	MovementIsolation Movement = "isolation"
)

// IsCompound reports whether the pattern is one of squat, hinge, push or pull.
func (m Movement) IsCompound() bool {
	switch m {
	case MovementSquat, MovementHinge, MovementPush, MovementPull:
		return true
	}
	return false
}

// ParseMovement normalizes a movement token. Empty input maps to isolation.
func ParseMovement(s string) (Movement, error) {
	tok := normalizeToken(s)
	if tok == "" {
		return MovementIsolation, nil
	}
	for _, m := range []Movement{
		MovementSquat, MovementHinge, MovementPush, MovementPull,
		MovementLunge, MovementCarry, MovementCore, MovementIsolation,
	} {
		if string(m) == tok {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown movement pattern %q", s)
}

// Archetype is a weekly split pattern.
type Archetype string

const (
	ArchetypeFullBody     Archetype = "full_body"
	ArchetypeUpperLower   Archetype = "upper_lower"
	ArchetypePushPullLegs Archetype = "push_pull_legs"
)

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
