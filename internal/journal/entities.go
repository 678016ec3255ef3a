package journal

import (
	"regexp"
)

// entity extraction patterns, applied in order, deduplicated at the end.
// spec.md §3: "filenames, name()-style tokens, backtick-quoted terms,
// capitalized ≥3-char words".
var (
	filenameRe   = regexp.MustCompile(`\b[\w-]+\.[a-zA-Z][\w]{1,6}\b`)
	functionRe   = regexp.MustCompile(`\b[a-zA-Z_][\w]*\(\)`)
	backtickRe   = regexp.MustCompile("`([^`]+)`")
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-zA-Z]{2,}\b`)
)

// ExtractEntities pulls candidate entity strings out of free text per the
// extraction rules in spec.md §3, deduplicated and order-stable.
func ExtractEntities(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, m := range filenameRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range functionRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range backtickRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range capitalizedRe.FindAllString(text, -1) {
		add(m)
	}

	return out
}
