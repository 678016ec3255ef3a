package briefing

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/lore-dev/lore/internal/retrieval"
)

// InjectionDeadline bounds the whole auto-context operation (spec.md
// §4.15): it must fail-silent well inside an interactive hook's budget.
const InjectionDeadline = 5 * time.Second

// InjectionHeader and InjectionTrailer bracket the emitted block so a
// hook consumer can strip it deterministically.
const (
	InjectionHeader  = "<!-- lore:context begin -->"
	InjectionTrailer = "<!-- lore:context end -->"
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"to": true, "of": true, "in": true, "on": true, "for": true, "with": true,
	"it": true, "this": true, "that": true, "as": true, "at": true, "by": true,
	"from": true, "i": true, "you": true, "we": true, "please": true, "can": true,
	"how": true, "what": true, "do": true, "does": true,
}

var wordRe = regexp.MustCompile(`[A-Za-z0-9_./-]+`)

// ProjectLookup resolves a working-directory cue to a project tag,
// falling back to "" (no project) when the caller has no registry.
type ProjectLookup func(workdirCue string) string

// DefaultProjectLookup derives a tag from the cue's base directory name;
// spec.md §4.15 allows either a workspace-layout read or a registry
// lookup, and leaves the concrete derivation unspecified, so this is a
// deliberately simple default a caller can override with ProjectLookup.
func DefaultProjectLookup(workdirCue string) string {
	if strings.TrimSpace(workdirCue) == "" {
		return ""
	}
	return strings.ToLower(filepath.Base(filepath.Clean(workdirCue)))
}

// Keywords extracts stopword-filtered, lowercased keyword tokens from a
// user prompt, preserving first-seen order and deduplicating.
func Keywords(prompt string) []string {
	seen := map[string]bool{}
	var out []string
	for _, raw := range wordRe.FindAllString(prompt, -1) {
		w := strings.ToLower(raw)
		if len(w) < 3 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// AutoContext implements the hook-callable auto-context injection
// (spec.md §4.15): derive a project tag, extract keywords, query the
// retrieval engine in hybrid+compact mode bounded by a token budget, and
// render a fixed-header block. It never blocks past InjectionDeadline
// and never returns an error — any failure yields an empty string, so a
// caller can always paste the result into a prompt unconditionally.
func AutoContext(ctx context.Context, workdirCue, prompt string, lookup ProjectLookup, engine *retrieval.Engine, budgetTokens int) string {
	if engine == nil {
		return ""
	}
	if lookup == nil {
		lookup = DefaultProjectLookup
	}

	deadline, cancel := context.WithTimeout(ctx, InjectionDeadline)
	defer cancel()

	project := lookup(workdirCue)
	keywords := Keywords(prompt)
	if len(keywords) == 0 {
		return ""
	}

	limit := budgetTokens / 20 // roughly one compact line per 20 tokens
	if limit <= 0 {
		limit = 5
	}

	results, err := engine.Query(deadline, strings.Join(keywords, " "), retrieval.QueryOptions{
		Mode: retrieval.ModeHybrid, Project: project, Limit: limit, Compact: true,
	})
	if err != nil || len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(InjectionHeader)
	b.WriteString("\n")
	for _, line := range retrieval.FormatCompact(results) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(InjectionTrailer)
	return b.String()
}
