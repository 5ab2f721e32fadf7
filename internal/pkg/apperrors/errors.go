// Package apperrors defines the error taxonomy shared by all services.
// Errors carry a Kind so handlers can map them to transport codes and
// clients can decide whether a retry is worthwhile.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers
type Kind int

const (
	// KindUnknown is an unclassified internal failure
	KindUnknown Kind = iota
	// KindValidation is missing or malformed required input, rejected
	// before any persistence
	KindValidation
	// KindNotFound means a referenced entity does not exist
	KindNotFound
	// KindForbidden means the caller lacks the ownership or assignment
	// relationship the operation requires
	KindForbidden
	// KindConflict is a state-dependent precondition violation (already
	// assigned, already paid, already rated, wrong status)
	KindConflict
	// KindUpstream is a best-effort external collaborator failure; it
	// degrades gracefully and never fails the core operation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream_unavailable"
	}
	return "unknown"
}

// Error is a classified application error
type Error struct {
	kind Kind
	msg  string
	err  error
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

// Kind returns the error classification
func (e *Error) Kind() Kind {
	return e.kind
}

// New creates a classified error
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Wrap creates a classified error wrapping a cause
func Wrap(kind Kind, msg string, err error) error {
	return &Error{kind: kind, msg: msg, err: err}
}

// Validation creates a KindValidation error
func Validation(msg string) error {
	return New(KindValidation, msg)
}

// NotFound creates a KindNotFound error
func NotFound(msg string) error {
	return New(KindNotFound, msg)
}

// Forbidden creates a KindForbidden error
func Forbidden(msg string) error {
	return New(KindForbidden, msg)
}

// Conflict creates a KindConflict error
func Conflict(msg string) error {
	return New(KindConflict, msg)
}

// Upstream creates a KindUpstream error wrapping the collaborator failure
func Upstream(msg string, err error) error {
	return Wrap(KindUpstream, msg, err)
}

// KindOf returns the classification of err, or KindUnknown
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
