package embed

import "errors"

// ErrUnavailable is returned by a provider that cannot presently compute
// embeddings (no provider configured, the service is unreachable, or the
// configured timeout budget elapsed across every retry attempt).
var ErrUnavailable = errors.New("embed: provider unavailable")
