// Package dedup implements the write-time dedup and contradiction checks
// shared by the journal and pattern stores (spec.md §4.10). It is pure:
// callers gather candidate records themselves and pass in word sets, so
// this package never touches a store directly and cannot import one.
package dedup

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// WordSet returns the lowercased alphanumeric word set of s, used as the
// input to Jaccard similarity throughout spec.md §4.10.
func WordSet(s string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard computes |A∩B|/|A∪B| over the lowercased alphanumeric word sets
// of a and b. Two empty strings are defined as maximally dissimilar (0),
// matching the source's behavior of never flagging empty text as a
// duplicate of other empty text.
func Jaccard(a, b string) float64 {
	return JaccardSets(WordSet(a), WordSet(b))
}

// JaccardSets computes Jaccard similarity directly over two word sets,
// letting callers precompute sets once and reuse them across many
// comparisons (e.g. scanning every active decision).
func JaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
