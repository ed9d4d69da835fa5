package program

import (
	"slices"
	"strings"

	"github.com/claude/trainplan/internal/models"
)

// Diagnostics collects warnings for one generation call, merging
// duplicates by signature in first-seen order.
type Diagnostics struct {
	bySig    map[string]int
	warnings []models.Warning
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{bySig: map[string]int{}}
}

// Add records w, or bumps the occurrence count of an earlier warning with
// the same signature.
func (d *Diagnostics) Add(w models.Warning) {
	sig := w.Signature()
	if i, ok := d.bySig[sig]; ok {
		d.warnings[i].Occurrences++
		return
	}
	w.Equipment = slices.Clone(w.Equipment)
	w.Occurrences = 1
	d.bySig[sig] = len(d.warnings)
	d.warnings = append(d.warnings, w)
}

// Warnings returns the collected warnings. The result is never nil.
func (d *Diagnostics) Warnings() []models.Warning {
	out := make([]models.Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Unique collapses warnings that differ only by day, for display. Occurrence
// counts are summed and the first day is kept.
func Unique(ws []models.Warning) []models.Warning {
	type key struct {
		kind   models.WarningKind
		muscle models.Muscle
		eq     string
	}
	idx := map[key]int{}
	var out []models.Warning
	for _, w := range ws {
		eq := make([]string, len(w.Equipment))
		for i, e := range w.Equipment {
			eq[i] = string(e)
		}
		slices.Sort(eq)
		k := key{w.Kind, w.Muscle, strings.Join(eq, ",")}
		if i, ok := idx[k]; ok {
			out[i].Occurrences += max(w.Occurrences, 1)
			continue
		}
		if w.Occurrences == 0 {
			w.Occurrences = 1
		}
		idx[k] = len(out)
		out = append(out, w)
	}
	return out
}
