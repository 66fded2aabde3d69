// Package apperr classifies domain errors so callers can tell a rejected
// input from a failed collaborator without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category an error belongs to.
type Kind int

const (
	// KindValidation is malformed or incomplete input caught before any call.
	KindValidation Kind = iota + 1
	// KindBusinessRule is well-formed input that breaks an invariant.
	KindBusinessRule
	// KindCollaborator is a failed persistence or transport call.
	KindCollaborator
	// KindConflict is a stale optimistic-concurrency token.
	KindConflict
	// KindNotFound is a missing entry, card or column.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business rule"
	case KindCollaborator:
		return "collaborator"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

// Error is a classified error. Two Errors match under errors.Is when their
// codes are equal, so sentinels can carry extra detail at the call site.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns a sentinel error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// With returns a copy of the sentinel with a more specific message.
func (e *Error) With(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

var (
	ErrConflict = New(KindConflict, "conflict", "record was modified concurrently")
	ErrNotFound = New(KindNotFound, "not_found", "record not found")
)

// Collaborator wraps a failed persistence call. Conflict and not-found
// errors keep their kind; everything else becomes KindCollaborator.
func Collaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && (ae.Kind == KindConflict || ae.Kind == KindNotFound) {
		return &Error{Kind: ae.Kind, Code: ae.Code, Message: op, Err: err}
	}
	return &Error{Kind: KindCollaborator, Code: "collaborator", Message: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain, or
// zero when err is unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// CodeOf returns the code of the first classified error in err's chain.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
