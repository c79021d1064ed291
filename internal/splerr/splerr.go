// Package splerr is the shared error taxonomy: every lexical/syntactic
// fault carries exit code 65, every runtime fault carries exit code 70.
// Base error values are constructed with github.com/oarkflow/errors;
// exit-code dispatch uses the standard library's errors.As on top of
// that, mixing the two error packages the way the rest of this module's
// ambient stack does.
package splerr

import (
	"errors"
	"fmt"

	oarkerrors "github.com/oarkflow/errors"
)

// Kind names one of the taxonomy's error variants, for callers that
// want to branch on more than the exit code.
type Kind string

const (
	KindUnterminatedString      Kind = "UnterminatedString"
	KindUnexpectedCharacter     Kind = "UnexpectedCharacter"
	KindParseError              Kind = "ParseError"
	KindOperandMustBeNumber     Kind = "OperandMustBeNumber"
	KindOperandsMustBeNumbers   Kind = "OperandsMustBeNumbers"
	KindInvalidAssignmentTarget Kind = "InvalidAssignmentTarget"
	KindArgumentCountMismatch   Kind = "ArgumentCountMismatch"
	KindCallOnNonFunction       Kind = "CallOnNonFunction"
	KindUndefinedVariable       Kind = "UndefinedVariable"
	KindRuntimeError            Kind = "RuntimeError"
)

// Exit codes shared by every CLI mode.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitLex     = 65
	ExitParse   = 65
	ExitRuntime = 70
)

// Error is the taxonomy's concrete type: a Kind, a numeric exit Code,
// and a wrapped message.
type Error struct {
	Kind Kind
	Code int
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, code int, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Code: code, err: oarkerrors.New(msg)}
}

// Syntax builds a lexical or parse error (exit code 65).
func Syntax(kind Kind, format string, args ...any) *Error {
	return newError(kind, ExitParse, format, args...)
}

// Runtime builds a runtime error (exit code 70).
func Runtime(kind Kind, format string, args ...any) *Error {
	return newError(kind, ExitRuntime, format, args...)
}

// CodeOf extracts the taxonomy's exit code from err, defaulting to the
// runtime exit code for any error that did not originate in this
// package.
func CodeOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ExitRuntime
}
