package journal

import "github.com/lore-dev/lore/internal/loretypes"

// SpecQuality computes the write-time completeness score for a decision
// per the formula in spec.md §3:
//
//	0.2·(decision present) + 0.3·(rationale > 20 chars) +
//	0.2·(≥1 alternative) + 0.15·(≥1 entity) + 0.15·(≥1 tag)
func SpecQuality(d *loretypes.Decision) float64 {
	var score float64
	if d.Decision != "" {
		score += 0.2
	}
	if len(d.Rationale) > 20 {
		score += 0.3
	}
	if len(d.Alternatives) >= 1 {
		score += 0.2
	}
	if len(d.Entities) >= 1 {
		score += 0.15
	}
	if len(d.Tags) >= 1 {
		score += 0.15
	}
	return score
}
