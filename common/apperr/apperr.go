// Package apperr classifies failures so callers can decide locally whether to
// recover (batch item) or propagate (single-request failure).
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a failure
type Kind int

const (
	// KindUnknown is any failure that carries no explicit classification
	KindUnknown Kind = iota
	// KindInvalidInput marks missing or malformed request fields
	KindInvalidInput
	// KindNotFound marks a lookup miss
	KindNotFound
	// KindModelUnavailable marks a detector that failed to load or run
	KindModelUnavailable
	// KindUpstream marks a failed object store, metadata store or notification call
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindUpstream:
		return "upstream_failure"
	default:
		return "unknown"
	}
}

// Error is a classified error
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New creates a classified error
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf creates a classified error with formatting
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the classification of err, walking the wrap chain.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
