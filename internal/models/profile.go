package models

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidProfile is wrapped by every profile validation error.
var ErrInvalidProfile = errors.New("invalid profile")

// MaxTargetMuscles bounds the priority list a user may submit.
const MaxTargetMuscles = 3

// Profile is the validated input to one generation call. Build it with
// NewProfile; the zero value is not a usable profile.
type Profile struct {
	ExperienceLevel      ExperienceLevel `json:"experienceLevel"`
	TrainingDaysPerWeek  int             `json:"trainingDaysPerWeek"`
	SessionDuration      SessionDuration `json:"sessionDuration"`
	EquipmentAvailable   []Equipment     `json:"equipmentAvailable"`
	TargetMuscleGroups   []Muscle        `json:"targetMuscleGroups"`
	ExcludedMuscleGroups []Muscle        `json:"excludedMuscleGroups"`
	// EquipmentDetail lists specific items such as "adjustable bench". Nil
	// means no refinement beyond the categories.
	EquipmentDetail []string `json:"equipmentDetail,omitempty"`
	// Attachments lists the cable attachments on hand. It is nil, meaning
	// unrestricted, only when the equipment list was left to default.
	Attachments []string `json:"attachments"`
}

// ProfileInput is the raw, string-typed form collected from a questionnaire,
// request body or CLI flags.
type ProfileInput struct {
	ExperienceLevel      string   `json:"experienceLevel" yaml:"experience_level"`
	TrainingDaysPerWeek  int      `json:"trainingDaysPerWeek" yaml:"training_days_per_week"`
	SessionDuration      string   `json:"sessionDuration" yaml:"session_duration"`
	EquipmentAvailable   []string `json:"equipmentAvailable" yaml:"equipment_available"`
	TargetMuscleGroups   []string `json:"targetMuscleGroups" yaml:"target_muscle_groups"`
	ExcludedMuscleGroups []string `json:"excludedMuscleGroups" yaml:"excluded_muscle_groups"`
	EquipmentDetail      []string `json:"equipmentDetail" yaml:"equipment_detail"`
	Attachments          []string `json:"attachments" yaml:"attachments"`
}

// NewProfile validates raw input and returns a Profile. Equipment is
// deduplicated and sorted; an empty list means every category and every
// attachment. Once equipment is listed, only the listed attachments count.
func NewProfile(in ProfileInput) (Profile, error) {
	var p Profile
	var err error

	if p.ExperienceLevel, err = ParseExperienceLevel(in.ExperienceLevel); err != nil {
		return Profile{}, err
	}
	if p.SessionDuration, err = ParseSessionDuration(in.SessionDuration); err != nil {
		return Profile{}, err
	}
	if in.TrainingDaysPerWeek < 1 || in.TrainingDaysPerWeek > 7 {
		return Profile{}, fmt.Errorf("%w: training days per week must be 1-7, got %d",
			ErrInvalidProfile, in.TrainingDaysPerWeek)
	}
	p.TrainingDaysPerWeek = in.TrainingDaysPerWeek

	for _, tok := range in.EquipmentAvailable {
		e, err := ParseEquipment(tok)
		if err != nil {
			return Profile{}, err
		}
		if !slices.Contains(p.EquipmentAvailable, e) {
			p.EquipmentAvailable = append(p.EquipmentAvailable, e)
		}
	}
	p.EquipmentDetail = parseItems(in.EquipmentDetail)
	p.Attachments = parseItems(in.Attachments)
	if len(p.EquipmentAvailable) == 0 {
		p.EquipmentAvailable = slices.Clone(AllEquipment)
	} else if p.Attachments == nil {
		p.Attachments = []string{}
	}
	slices.Sort(p.EquipmentAvailable)

	if p.TargetMuscleGroups, err = parseMuscles(in.TargetMuscleGroups); err != nil {
		return Profile{}, err
	}
	if len(p.TargetMuscleGroups) > MaxTargetMuscles {
		return Profile{}, fmt.Errorf("%w: at most %d target muscle groups, got %d",
			ErrInvalidProfile, MaxTargetMuscles, len(p.TargetMuscleGroups))
	}
	if p.ExcludedMuscleGroups, err = parseMuscles(in.ExcludedMuscleGroups); err != nil {
		return Profile{}, err
	}
	slices.Sort(p.ExcludedMuscleGroups)

	return p, nil
}

// parseMuscles keeps input order and drops duplicates.
func parseMuscles(tokens []string) ([]Muscle, error) {
	out := make([]Muscle, 0, len(tokens))
	for _, tok := range tokens {
		m, err := ParseMuscle(tok)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// parseItems normalizes free-form item names, dropping blanks and
// duplicates. The result is sorted, or nil when nothing remains.
func parseItems(names []string) []string {
	var out []string
	for _, name := range names {
		if item := NormalizeItem(name); item != "" && !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	slices.Sort(out)
	return out
}

// MissingCableAttachments reports whether cable machines are available but
// no attachment was listed for them.
func (p Profile) MissingCableAttachments() bool {
	return p.Attachments != nil && len(p.Attachments) == 0 &&
		slices.Contains(p.EquipmentAvailable, EquipmentCableMachines)
}

// IsTarget reports whether m is a priority muscle.
func (p Profile) IsTarget(m Muscle) bool {
	return slices.Contains(p.TargetMuscleGroups, m)
}

// IsExcluded reports whether m is excluded by injury.
func (p Profile) IsExcluded(m Muscle) bool {
	return slices.Contains(p.ExcludedMuscleGroups, m)
}

// WithoutTarget returns a copy of p with m removed from the priority list.
func (p Profile) WithoutTarget(m Muscle) Profile {
	out := p
	out.TargetMuscleGroups = slices.DeleteFunc(slices.Clone(p.TargetMuscleGroups),
		func(t Muscle) bool { return t == m })
	return out
}
