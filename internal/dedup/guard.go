package dedup

// DuplicateThreshold is the Jaccard similarity above which a write is
// blocked unless the caller forces it (spec.md §4.10).
const DuplicateThreshold = 0.70

// ContradictionThreshold is the Jaccard similarity below which two
// decisions sharing entities are flagged as a possible contradiction.
const ContradictionThreshold = 0.30

// ContradictionMinSharedEntities is the minimum number of shared
// extracted entities required before two decisions are compared for
// contradiction at all.
const ContradictionMinSharedEntities = 2

// Candidate is a minimal view of an existing record used for comparison:
// its identity, the text to compare against, and (for contradiction
// checks) its extracted entities.
type Candidate struct {
	ID       string
	Text     string
	Entities []string
}

// Match is a single dedup or contradiction hit against an existing
// candidate, with the similarity score that triggered it.
type Match struct {
	ID         string
	Similarity float64
}

// FindDuplicates returns every candidate whose Jaccard similarity to text
// meets or exceeds DuplicateThreshold, sorted by similarity descending.
func FindDuplicates(candidates []Candidate, text string) []Match {
	newSet := WordSet(text)
	var matches []Match
	for _, c := range candidates {
		sim := JaccardSets(newSet, WordSet(c.Text))
		if sim >= DuplicateThreshold {
			matches = append(matches, Match{ID: c.ID, Similarity: sim})
		}
	}
	sortMatchesDesc(matches)
	return matches
}

// FindContradictions returns every candidate that shares at least
// ContradictionMinSharedEntities extracted entities with the new
// entities/text, but whose Jaccard similarity with text is below
// ContradictionThreshold — the "same subject, divergent claim" signature
// spec.md §4.10 treats as advisory.
func FindContradictions(candidates []Candidate, text string, entities []string) []Match {
	newSet := WordSet(text)
	entitySet := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		entitySet[normalizeEntity(e)] = struct{}{}
	}

	var matches []Match
	for _, c := range candidates {
		shared := 0
		for _, e := range c.Entities {
			if _, ok := entitySet[normalizeEntity(e)]; ok {
				shared++
			}
		}
		if shared < ContradictionMinSharedEntities {
			continue
		}
		sim := JaccardSets(newSet, WordSet(c.Text))
		if sim < ContradictionThreshold {
			matches = append(matches, Match{ID: c.ID, Similarity: sim})
		}
	}
	sortMatchesDesc(matches)
	return matches
}

func normalizeEntity(e string) string {
	out := make([]rune, 0, len(e))
	for _, r := range e {
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		out = append(out, r)
	}
	return string(out)
}

func sortMatchesDesc(m []Match) {
	for i := 1; i < len(m); i++ {
		for j := i; j > 0 && m[j].Similarity > m[j-1].Similarity; j-- {
			m[j], m[j-1] = m[j-1], m[j]
		}
	}
}
