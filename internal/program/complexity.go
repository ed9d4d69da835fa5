package program

import "github.com/claude/trainplan/internal/models"

// Limits bounds exercise complexity for one experience level.
type Limits struct {
	MaxComplexity      int  `json:"maxComplexity"`
	MaxTier4PerSession int  `json:"maxTier4PerSession"`
	Tier4MustLead      bool `json:"tier4MustLead"`
}

// Policy maps an experience level to complexity limits.
type Policy func(models.ExperienceLevel) Limits

// LimitsFor is the default policy. Tier 4 is reserved: the per-session cap
// is 0 for every level.
func LimitsFor(level models.ExperienceLevel) Limits {
	switch level {
	case models.ExperienceIntermediate, models.ExperienceAdvanced:
		return Limits{MaxComplexity: 2}
	default:
		return Limits{MaxComplexity: 1}
	}
}
