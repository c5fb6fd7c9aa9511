// Package herrors defines the error kind taxonomy shared by every HelixDB
// engine component (KV substrate, storage core, BM25, HNSW, traversal,
// worker dispatch). Adapters never recover from an error, they propagate
// it; the HTTP ingress is the only place that classifies an error kind
// into a response code (pkg/server, writeQueryError).
package herrors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an engine error, as enumerated in the
// core specification's error handling design.
type Kind string

const (
	KindIO            Kind = "io"
	KindNotFound      Kind = "not_found"
	KindConversion    Kind = "conversion_error"
	KindIndex         Kind = "index_error"
	KindTransaction   Kind = "transaction_error"
	KindInvariant     Kind = "invariant_violation"
	KindInvalidInput  Kind = "invalid_input"
	KindEmbedding     Kind = "embedding_error"
	KindNotEnabled    Kind = "not_enabled"
)

// Error is the carrier type for all engine errors. It wraps an underlying
// cause (if any) and tags it with a Kind so callers can classify failures
// without string matching.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "storage.AddNode"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is comparisons against a bare Kind sentinel created
// with New(kind, "", nil): two *Error values are equal for errors.Is
// purposes when their Kind matches, regardless of Op/wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New constructs an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap is a convenience for New when the op string is built lazily.
func Wrap(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err, returning "" if err is not (or does
// not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Sentinels usable with errors.Is for callers that only care about the
// kind, not the operation or wrapped cause.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrInvariant    = &Error{Kind: KindInvariant}
	ErrNotEnabled   = &Error{Kind: KindNotEnabled}
)
