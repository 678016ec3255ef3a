// Package loreerr defines the error kinds shared across lore's stores.
//
// Every store-level error is classified into one of the kinds below so
// that callers (CLI, daemon, hook paths) can apply a uniform propagation
// policy: Usage/NotFound/Conflict surface with a one-line message and a
// non-zero exit, Integrity/External recover locally, Fatal aborts the
// current operation without corrupting the store.
package loreerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation-policy purposes.
type Kind int

const (
	// KindUsage covers bad arguments, missing required fields, unknown enum values.
	KindUsage Kind = iota
	// KindNotFound covers an addressed record that does not exist.
	KindNotFound
	// KindConflict covers dedup refusal and invalid state transitions.
	KindConflict
	// KindIntegrity covers a corrupted line discarded on read.
	KindIntegrity
	// KindExternal covers a failed call to the embedding service or registry.
	KindExternal
	// KindFatal covers an I/O failure on a store mutation.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindIntegrity:
		return "integrity"
	case KindExternal:
		return "external"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is a classified lore error wrapping an underlying cause.
type Error struct {
	Kind Kind
	Op   string // component/operation that raised it, e.g. "journal.record"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs a classified error without an underlying cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap constructs a classified error around an underlying cause.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Is reports whether err was classified with the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of a classified error, defaulting to KindFatal
// for errors that were never classified (treat unknowns as the strictest
// propagation policy).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}
