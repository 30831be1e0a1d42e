package domain

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeValidation        Code = "VALIDATION"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodePhaseNotOpen      Code = "PHASE_NOT_OPEN"
	CodeInvalidRating     Code = "INVALID_RATING"
	CodeUnknownAction     Code = "UNKNOWN_ACTION"
	CodeDecisionNotFound  Code = "DECISION_NOT_FOUND"
	CodeAlreadyScored     Code = "ALREADY_SCORED"
	CodeInvalidScore      Code = "INVALID_SCORE"
)

// Error is the domain error type carrying a code for callers to branch on.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code from an error chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Sentinel values for errors.Is checks; matching is by code.
var (
	ErrNotFound          = New(CodeNotFound, "not found")
	ErrForbidden         = New(CodeForbidden, "forbidden")
	ErrInvalidTransition = New(CodeInvalidTransition, "invalid phase transition")
	ErrPhaseNotOpen      = New(CodePhaseNotOpen, "phase is not open for decisions")
	ErrInvalidRating     = New(CodeInvalidRating, "rating must be between 1 and 10")
	ErrUnknownAction     = New(CodeUnknownAction, "action is not available in this phase")
	ErrDecisionNotFound  = New(CodeDecisionNotFound, "decision not found")
	ErrAlreadyScored     = New(CodeAlreadyScored, "decision already scored")
	ErrInvalidScore      = New(CodeInvalidScore, "score must be between 0 and 10")
)
