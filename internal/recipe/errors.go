package recipe

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// CodeValidation indicates malformed input (bad URL, empty modification).
	CodeValidation ErrorCode = "VALIDATION"

	// CodeNotFound indicates an unknown node id, modification id or
	// missing persisted state.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeDecodeFailure indicates corrupt persisted state.
	CodeDecodeFailure ErrorCode = "DECODE_FAILURE"

	// CodeInvariantViolation indicates an attempt to mutate a committed
	// version, or removal of an instruction or tag that is not present.
	CodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// CodeEmpty indicates a read from a graph with no nodes.
	CodeEmpty ErrorCode = "EMPTY"
)

// Error is the error type returned by every cauldron package.
//
// Match a category with errors.Is against the sentinels below, or use
// errors.As to inspect the structured fields.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ID is the recipe, node or modification id involved, if any.
	ID string

	// Err is the underlying cause, if any.
	Err error
}

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrValidation         = &Error{Code: CodeValidation}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrDecodeFailure      = &Error{Code: CodeDecodeFailure}
	ErrInvariantViolation = &Error{Code: CodeInvariantViolation}
	ErrEmpty              = &Error{Code: CodeEmpty}
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "error"
	}
	if e.ID != "" {
		msg = fmt.Sprintf("%s (id=%s)", msg, e.ID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare sentinel carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.ID == "" && t.Err == nil && t.Code == e.Code
}

// NewValidationError creates an Error for malformed input.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound creates an Error for an unknown id.
func NewNotFound(what, id string) *Error {
	return &Error{Code: CodeNotFound, Message: what + " not found", ID: id}
}

// NewDecodeFailure creates an Error for corrupt persisted state.
func NewDecodeFailure(message string, err error) *Error {
	return &Error{Code: CodeDecodeFailure, Message: message, Err: err}
}

// NewInvariantViolation creates an Error for a rejected mutation.
func NewInvariantViolation(message, id string) *Error {
	return &Error{Code: CodeInvariantViolation, Message: message, ID: id}
}

// NewEmpty creates an Error for a read from an empty graph.
func NewEmpty(message string) *Error {
	return &Error{Code: CodeEmpty, Message: message}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound returns true if err is a NotFound error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsValidation returns true if err is a Validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsDecodeFailure returns true if err is a DecodeFailure error.
func IsDecodeFailure(err error) bool {
	return CodeOf(err) == CodeDecodeFailure
}

// IsInvariantViolation returns true if err is an InvariantViolation error.
func IsInvariantViolation(err error) bool {
	return CodeOf(err) == CodeInvariantViolation
}
