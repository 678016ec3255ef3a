package journal

import (
	"strings"

	"github.com/lore-dev/lore/internal/loretypes"
)

// typeKeywords maps a keyword to the decision type it implies. Checked in
// order; the first match wins, matching spec.md §4.2's "first match wins"
// rule. Order matters: more specific keywords are listed before generic
// ones that would otherwise shadow them.
var typeKeywords = []struct {
	keyword string
	typ     loretypes.DecisionType
}{
	{"architecture", loretypes.TypeArchitecture},
	{"design pattern", loretypes.TypeArchitecture},
	{"rename", loretypes.TypeNaming},
	{"naming", loretypes.TypeNaming},
	{"test", loretypes.TypeImplementation},
	{"deploy", loretypes.TypeTooling},
	{"tool", loretypes.TypeTooling},
	{"ci/cd", loretypes.TypeTooling},
	{"process", loretypes.TypeProcess},
	{"workflow", loretypes.TypeProcess},
	{"bug", loretypes.TypeBugfix},
	{"fix", loretypes.TypeBugfix},
	{"refactor", loretypes.TypeRefactor},
	{"implement", loretypes.TypeImplementation},
}

// DetectType auto-detects a decision's type from its text by keyword
// match (spec.md §4.2), defaulting to "other".
func DetectType(text string) loretypes.DecisionType {
	lower := strings.ToLower(text)
	for _, k := range typeKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.typ
		}
	}
	return loretypes.TypeOther
}
