// Package embed provides the embedding-vector provider used by the
// search index's semantic and hybrid query modes (spec.md §4.8, §4.9).
// Embedding calls are strictly optional: every caller must fail open to
// lexical-only search when no provider is configured or the provider is
// unreachable.
package embed

import "context"

// Provider computes an embedding vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions reports the fixed vector length this provider returns.
	Dimensions() int
}

// NullProvider is the zero-configuration default: every call fails with
// ErrUnavailable so callers fall back to lexical search without special
// casing "no provider configured" themselves.
type NullProvider struct{}

// Embed always returns ErrUnavailable.
func (NullProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, ErrUnavailable
}

// Dimensions returns 0: callers must not size vectors off a null provider.
func (NullProvider) Dimensions() int { return 0 }
