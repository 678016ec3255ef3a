// Package retrieval is the thin query façade over the search index
// (spec.md §4.9): mode dispatch, project boosting, and fail-open
// behavior when the index or embedding provider is unavailable.
package retrieval

import (
	"context"

	"github.com/lore-dev/lore/internal/embed"
	"github.com/lore-dev/lore/internal/loreerr"
	"github.com/lore-dev/lore/internal/searchindex"
)

// Mode selects a query strategy.
type Mode string

const (
	ModeFTS      Mode = "fts"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
	ModeGraph    Mode = "graph"
)

// Rebuilder lets the engine trigger a rebuild when the index is missing,
// without retrieval importing every upstream store package directly.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// Engine dispatches queries to the configured search index and embedding
// provider.
type Engine struct {
	index    *searchindex.Store
	provider embed.Provider
	rebuild  Rebuilder
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithProvider wires an embedding provider for semantic/hybrid modes.
func WithProvider(p embed.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithRebuilder wires a rebuild hook triggered when the index is absent.
func WithRebuilder(r Rebuilder) Option {
	return func(e *Engine) { e.rebuild = r }
}

// New constructs an Engine over an already-open search index.
func New(index *searchindex.Store, opts ...Option) *Engine {
	e := &Engine{index: index, provider: embed.NullProvider{}}
	for _, o := range opts {
		o(e)
	}
	return e
}

// QueryOptions controls a Query call.
type QueryOptions struct {
	Mode    Mode
	Project string
	Limit   int
	Compact bool
	Depth   int
	Edges   []string
}

// Query dispatches to the requested mode, falling back to lexical search
// if semantic/hybrid fails because the embedding provider is unreachable
// (spec.md §4.9).
func (e *Engine) Query(ctx context.Context, query string, opts QueryOptions) ([]searchindex.Result, error) {
	if e.index == nil {
		if e.rebuild == nil {
			return nil, loreerr.New(loreerr.KindFatal, "retrieval.query", "search index is not available and no rebuild hook is configured")
		}
		if err := e.rebuild.Rebuild(ctx); err != nil {
			return nil, loreerr.Wrap(loreerr.KindFatal, "retrieval.query", "rebuild search index", err)
		}
	} else if e.index.IsDirty() && e.rebuild != nil {
		if err := e.rebuild.Rebuild(ctx); err != nil {
			return nil, loreerr.Wrap(loreerr.KindFatal, "retrieval.query", "rebuild stale search index", err)
		}
	}

	base := searchindex.QueryOptions{Project: opts.Project, Limit: opts.Limit}
	switch opts.Mode {
	case ModeSemantic:
		results, err := e.index.Semantic(ctx, query, e.provider, opts.Limit)
		if err != nil {
			return e.index.Lexical(ctx, query, base)
		}
		return results, nil
	case ModeHybrid:
		return e.index.Hybrid(ctx, query, e.provider, base)
	case ModeGraph:
		initial, err := e.index.Lexical(ctx, query, base)
		if err != nil {
			return nil, err
		}
		return e.index.GraphExpanded(ctx, query, opts.Depth, opts.Edges, initial)
	default:
		return e.index.Lexical(ctx, query, base)
	}
}

// FormatCompact renders results one fixed-width line per row (spec.md
// §4.8 "Compact output"), used by auto-injection to bound byte budget.
func FormatCompact(results []searchindex.Result) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, searchindex.CompactLine(r))
	}
	return lines
}
