// Package errs defines the error taxonomy shared by the graph store and the
// GraphBase codec. Every error carries a Type; parse errors additionally carry
// the file name, line number and offending text.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// TypeIO represents file open/read/write failures
	TypeIO ErrorType = "io"
	// TypeInvalidHeader represents a first line that does not match the header grammar
	TypeInvalidHeader ErrorType = "invalid_header"
	// TypeUnknownSection represents a section marker with an unrecognized name
	TypeUnknownSection ErrorType = "unknown_section"
	// TypeMalformedField represents a field that fails to parse as its declared type
	TypeMalformedField ErrorType = "malformed_field"
	// TypeIndexOutOfBounds represents a rank beyond the declared vertex or arc count
	TypeIndexOutOfBounds ErrorType = "index_out_of_bounds"
	// TypeCapacityExceeded represents a builder call past the declared vertex capacity
	TypeCapacityExceeded ErrorType = "capacity_exceeded"
	// TypeAtomTooLong represents a string longer than the interner accepts
	TypeAtomTooLong ErrorType = "atom_too_long"
	// TypeAllocationFailure represents a storage request the host cannot satisfy
	TypeAllocationFailure ErrorType = "allocation_failure"
)

// Error is the single concrete error type of this module.
type Error struct {
	Type    ErrorType
	Message string
	File    string // empty when the error is not tied to an input file
	Line    int    // 1-based; 0 when unknown
	Text    string // offending text, if any
	Err     error  // wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Message)
	if e.Text != "" {
		fmt.Fprintf(&b, " %q", e.Text)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the wrapped error for error unwrapping
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type. This lets callers
// test categories against the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Sentinels for errors.Is checks. They match any error of the same type.
var (
	ErrIO                = &Error{Type: TypeIO, Message: "i/o failure"}
	ErrInvalidHeader     = &Error{Type: TypeInvalidHeader, Message: "invalid header"}
	ErrUnknownSection    = &Error{Type: TypeUnknownSection, Message: "unknown section"}
	ErrMalformedField    = &Error{Type: TypeMalformedField, Message: "malformed field"}
	ErrIndexOutOfBounds  = &Error{Type: TypeIndexOutOfBounds, Message: "index out of bounds"}
	ErrCapacityExceeded  = &Error{Type: TypeCapacityExceeded, Message: "capacity exceeded"}
	ErrAtomTooLong       = &Error{Type: TypeAtomTooLong, Message: "atom too long"}
	ErrAllocationFailure = &Error{Type: TypeAllocationFailure, Message: "allocation failure"}
)

// New creates an error of the given type.
func New(errType ErrorType, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given type wrapping err.
func Wrap(errType ErrorType, err error, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Err: err}
}

// At creates an error tied to a position in an input file.
func At(errType ErrorType, file string, line int, text string, format string, args ...any) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		File:    file,
		Line:    line,
		Text:    text,
	}
}

// Locate fills in the file position of err if it is an *Error without one.
// Errors of other kinds are returned unchanged.
func Locate(err error, file string, line int) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	if e.File == "" {
		e.File = file
	}
	if e.Line == 0 {
		e.Line = line
	}
	return err
}

// IsType checks if err, or any error it wraps, is of errType.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == errType
	}
	return false
}
