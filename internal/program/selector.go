package program

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/claude/trainplan/internal/models"
)

// Catalog answers filtered exercise queries. Implementations give no
// ordering guarantee and must be safe for concurrent reads.
type Catalog interface {
	Query(ctx context.Context, f models.Filter) ([]models.Exercise, error)
}

// UsedSet holds the exercise ids already placed in one program.
type UsedSet map[string]struct{}

// Add marks ids as used.
func (u UsedSet) Add(ids ...string) {
	for _, id := range ids {
		u[id] = struct{}{}
	}
}

// Has reports whether id is used.
func (u UsedSet) Has(id string) bool {
	_, ok := u[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (u UsedSet) Sorted() []string {
	ids := make([]string, 0, len(u))
	for id := range u {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Request describes one template slot to fill.
type Request struct {
	Muscle    models.Muscle
	Count     int
	Equipment []models.Equipment
	// EquipmentDetails and Attachments follow the models.Filter rule: nil
	// means unrestricted.
	EquipmentDetails []string
	Attachments      []string
	MaxComplexity    int
	// Tier4Allowance is how many tier-4 exercises this slot may take.
	Tier4Allowance int
	Excluded       []models.Muscle
	Used           UsedSet
	// SessionCanonical holds canonical names already placed on the same day.
	SessionCanonical map[string]struct{}
}

// Selection is the selector's answer. Warnings carry no day information;
// the caller fills it in.
type Selection struct {
	Exercises []models.Exercise
	Warnings  []models.Warning
}

// relaxation transforms a filter into a looser one. Steps run in order
// until the slot is full; none of them changes the target muscle.
type relaxation struct {
	name  string
	apply func(models.Filter) models.Filter
}

var relaxations = []relaxation{
	{name: "equipment", apply: func(f models.Filter) models.Filter {
		f.EquipmentCategories = nil
		return f
	}},
}

// Selector picks exercises for template slots.
type Selector struct {
	catalog Catalog
	log     *slog.Logger
}

// NewSelector creates a Selector over catalog.
func NewSelector(catalog Catalog, log *slog.Logger) *Selector {
	return &Selector{catalog: catalog, log: log}
}

// Select fills one slot. Query errors are returned as-is; shortfalls are
// reported as warnings.
func (s *Selector) Select(ctx context.Context, req Request) (Selection, error) {
	var sel Selection
	if req.Count <= 0 {
		return sel, nil
	}

	if slices.Contains(req.Excluded, req.Muscle) {
		sel.Warnings = append(sel.Warnings, models.Warning{
			Kind:      models.WarningExcludedMuscle,
			Muscle:    req.Muscle,
			Requested: req.Count,
			Equipment: req.Equipment,
			Message: fmt.Sprintf("%s is excluded by injury but the template requested %d exercise(s) for it",
				req.Muscle, req.Count),
		})
		return sel, nil
	}

	ceiling := req.MaxComplexity
	if req.Tier4Allowance > 0 {
		ceiling = models.ComplexityMax
	}
	filter := models.Filter{
		PrimaryMuscle:         req.Muscle,
		EquipmentCategories:   req.Equipment,
		EquipmentDetails:      req.EquipmentDetails,
		Attachments:           req.Attachments,
		MaxComplexity:         ceiling,
		ExcludePrimaryMuscles: req.Excluded,
		ExcludeIDs:            req.Used.Sorted(),
		OnlyIncluded:          true,
	}

	picker := newPicker(req)
	candidates, err := s.catalog.Query(ctx, filter)
	if err != nil {
		return sel, fmt.Errorf("querying %s exercises: %w", req.Muscle, err)
	}
	picker.take(candidates)
	strict := len(picker.picked)

	for _, step := range relaxations {
		if picker.full() {
			break
		}
		filter = step.apply(filter)
		filter.ExcludeIDs = append(filter.ExcludeIDs, picker.ids()...)
		candidates, err := s.catalog.Query(ctx, filter)
		if err != nil {
			return sel, fmt.Errorf("querying %s exercises (relaxed %s): %w", req.Muscle, step.name, err)
		}
		before := len(picker.picked)
		picker.take(candidates)
		s.log.Debug("relaxed selection", "muscle", req.Muscle, "step", step.name,
			"added", len(picker.picked)-before)
	}

	sel.Exercises = picker.picked
	if relaxed := len(sel.Exercises) - strict; relaxed > 0 {
		sel.Warnings = append(sel.Warnings, models.Warning{
			Kind:      models.WarningEquipmentRelaxed,
			Muscle:    req.Muscle,
			Requested: req.Count,
			Found:     len(sel.Exercises),
			Equipment: req.Equipment,
			Message: fmt.Sprintf("%d of %d %s exercise(s) use equipment outside the available set",
				relaxed, len(sel.Exercises), req.Muscle),
		})
	}
	if len(sel.Exercises) < req.Count {
		sel.Warnings = append(sel.Warnings, models.Warning{
			Kind:      models.WarningShortfall,
			Muscle:    req.Muscle,
			Requested: req.Count,
			Found:     len(sel.Exercises),
			Equipment: req.Equipment,
			Message: fmt.Sprintf("only %d of %d requested %s exercise(s) could be found",
				len(sel.Exercises), req.Count, req.Muscle),
		})
	}
	return sel, nil
}

// picker accumulates ranked candidates for one slot.
type picker struct {
	req       Request
	picked    []models.Exercise
	canonical map[string]struct{}
	tier4     int
}

func newPicker(req Request) *picker {
	canonical := make(map[string]struct{}, len(req.SessionCanonical))
	for name := range req.SessionCanonical {
		canonical[name] = struct{}{}
	}
	return &picker{req: req, canonical: canonical}
}

func (p *picker) full() bool { return len(p.picked) >= p.req.Count }

func (p *picker) ids() []string {
	ids := make([]string, len(p.picked))
	for i, e := range p.picked {
		ids[i] = e.ID
	}
	return ids
}

// take ranks candidates by rating (desc) then id and appends eligible ones
// until the slot is full.
func (p *picker) take(candidates []models.Exercise) {
	ranked := slices.Clone(candidates)
	slices.SortFunc(ranked, func(a, b models.Exercise) int {
		if c := cmp.Compare(b.CanonicalRating, a.CanonicalRating); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for _, e := range ranked {
		if p.full() {
			return
		}
		if !p.eligible(e) {
			continue
		}
		p.picked = append(p.picked, e)
		if e.CanonicalName != "" {
			p.canonical[e.CanonicalName] = struct{}{}
		}
		if e.Complexity == models.ComplexityMax {
			p.tier4++
		}
	}
}

// eligible re-checks the invariants the engine relies on, so a store with
// a loose filter implementation cannot break them.
func (p *picker) eligible(e models.Exercise) bool {
	if !e.Include || e.PrimaryMuscle != p.req.Muscle || p.req.Used.Has(e.ID) {
		return false
	}
	if slices.Contains(p.req.Excluded, e.PrimaryMuscle) {
		return false
	}
	accessories := models.Filter{EquipmentDetails: p.req.EquipmentDetails, Attachments: p.req.Attachments,
		MaxComplexity: models.ComplexityMax}
	if !accessories.Matches(e) {
		return false
	}
	if slices.ContainsFunc(p.picked, func(x models.Exercise) bool { return x.ID == e.ID }) {
		return false
	}
	if e.Complexity > p.req.MaxComplexity {
		if e.Complexity != models.ComplexityMax || p.tier4 >= p.req.Tier4Allowance {
			return false
		}
	}
	if e.CanonicalName != "" {
		if _, dup := p.canonical[e.CanonicalName]; dup {
			return false
		}
	}
	return true
}
