package models

import (
	"fmt"
	"slices"
	"strings"
)

// Complexity tiers. ComplexityAny marks exercises suitable for every level.
const (
	ComplexityAny = 0
	ComplexityMax = 4
)

// Exercise is a catalog record. The engine never mutates it.
type Exercise struct {
	ID              string    `json:"id" yaml:"id"`
	CanonicalName   string    `json:"canonicalName" yaml:"canonical_name"`
	DisplayName     string    `json:"displayName" yaml:"display_name"`
	Equipment       Equipment `json:"equipment" yaml:"equipment"`
	EquipmentDetail string    `json:"equipmentDetail,omitempty" yaml:"equipment_detail,omitempty"`
	Attachment      string    `json:"attachment,omitempty" yaml:"attachment,omitempty"`
	Complexity      int       `json:"complexity" yaml:"complexity"`
	PrimaryMuscle   Muscle    `json:"primaryMuscle" yaml:"primary_muscle"`
	SecondaryMuscle Muscle    `json:"secondaryMuscle,omitempty" yaml:"secondary_muscle,omitempty"`
	Movement        Movement  `json:"movement" yaml:"movement"`
	Include         bool      `json:"includeInProgramGeneration" yaml:"include_in_program_generation"`
	CanonicalRating int       `json:"canonicalRating" yaml:"canonical_rating"`
}

// Validate checks the record invariants: one primary muscle, one equipment
// category and a complexity tier in the closed set.
func (e Exercise) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("exercise id is required")
	}
	if _, err := ParseMuscle(string(e.PrimaryMuscle)); err != nil {
		return fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if e.SecondaryMuscle != "" {
		if _, err := ParseMuscle(string(e.SecondaryMuscle)); err != nil {
			return fmt.Errorf("exercise %s: secondary: %w", e.ID, err)
		}
	}
	if _, err := ParseEquipment(string(e.Equipment)); err != nil {
		return fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if e.Complexity < ComplexityAny || e.Complexity > ComplexityMax {
		return fmt.Errorf("exercise %s: complexity %d out of range 0-%d", e.ID, e.Complexity, ComplexityMax)
	}
	if e.CanonicalRating < 0 || e.CanonicalRating > 100 {
		return fmt.Errorf("exercise %s: canonical rating %d out of range 0-100", e.ID, e.CanonicalRating)
	}
	return nil
}

// Normalize rewrites token fields to their canonical enum spelling.
func (e Exercise) Normalize() (Exercise, error) {
	var err error
	if e.PrimaryMuscle, err = ParseMuscle(string(e.PrimaryMuscle)); err != nil {
		return e, fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if e.SecondaryMuscle != "" {
		if e.SecondaryMuscle, err = ParseMuscle(string(e.SecondaryMuscle)); err != nil {
			return e, fmt.Errorf("exercise %s: secondary: %w", e.ID, err)
		}
	}
	if e.Equipment, err = ParseEquipment(string(e.Equipment)); err != nil {
		return e, fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if e.Movement, err = ParseMovement(string(e.Movement)); err != nil {
		return e, fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	if e.CanonicalName == "" {
		e.CanonicalName = e.DisplayName
	}
	e.EquipmentDetail = NormalizeItem(e.EquipmentDetail)
	e.Attachment = NormalizeItem(e.Attachment)
	return e, e.Validate()
}

// NormalizeItem folds a specific equipment or attachment name to the form
// stored in the catalog: lower case, words separated by single spaces.
// "Cable_Rope" and "cable  rope" both become "cable rope".
func NormalizeItem(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// Filter is the query contract between the engine and a catalog store.
// Empty slices mean "no restriction"; stores give no ordering guarantee.
//
// EquipmentDetails and Attachments are the exception: nil means no
// restriction, while a non-nil slice admits exercises that need no such
// item or need one of the listed items. A non-nil empty slice therefore
// admits only exercises without one.
type Filter struct {
	PrimaryMuscle         Muscle      `json:"primaryMuscle,omitempty"`
	EquipmentCategories   []Equipment `json:"equipmentCategories,omitempty"`
	EquipmentDetails      []string    `json:"equipmentDetails,omitempty"`
	Attachments           []string    `json:"attachments,omitempty"`
	MaxComplexity         int         `json:"maxComplexity"`
	ExcludePrimaryMuscles []Muscle    `json:"excludePrimaryMuscles,omitempty"`
	ExcludeIDs            []string    `json:"excludeIds,omitempty"`
	OnlyIncluded          bool        `json:"onlyIncluded"`
}

// Matches reports whether e satisfies every clause of f. In-memory stores
// use it directly; SQL stores translate the same clauses into WHERE terms.
func (f Filter) Matches(e Exercise) bool {
	if f.OnlyIncluded && !e.Include {
		return false
	}
	if f.PrimaryMuscle != "" && e.PrimaryMuscle != f.PrimaryMuscle {
		return false
	}
	if e.Complexity > f.MaxComplexity {
		return false
	}
	if len(f.EquipmentCategories) > 0 && !containsEquipment(f.EquipmentCategories, e.Equipment) {
		return false
	}
	if !itemAllowed(f.EquipmentDetails, e.EquipmentDetail) || !itemAllowed(f.Attachments, e.Attachment) {
		return false
	}
	for _, m := range f.ExcludePrimaryMuscles {
		if e.PrimaryMuscle == m {
			return false
		}
	}
	for _, id := range f.ExcludeIDs {
		if e.ID == id {
			return false
		}
	}
	return true
}

func containsEquipment(set []Equipment, e Equipment) bool {
	for _, s := range set {
		if s == e {
			return true
		}
	}
	return false
}

func itemAllowed(allowed []string, item string) bool {
	if allowed == nil || item == "" {
		return true
	}
	return slices.Contains(allowed, item)
}
