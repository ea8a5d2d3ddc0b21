// Package errkind defines the closed set of error classes the engine can
// report, independent of where in the pipeline they originate. Handlers
// return a *QueryError; the executor turns that into a wire-level error
// response (see internal/wire) without ever inspecting message text.
package errkind

import (
	"errors"
	"fmt"
)

// Kind is one of the error classes named in the engine's error handling
// design. Values are stable: they cross the wire as a u16 (see
// internal/wire), so existing values must never be renumbered.
type Kind uint16

const (
	Unknown Kind = iota

	// Lex/parse
	InvalidStringLiteral
	InvalidNumberLiteral
	UnexpectedEOF
	UnknownKeyword
	ExpectedStatement
	InvalidSyntax
	BadParameter

	// Schema
	AlreadyExists
	DoesNotExist
	WrongEntity
	WrongModel
	BadFieldDefinition
	UnsupportedAlter
	NonEmptyOnDrop

	// DML
	Nil
	OverwriteError
	TypeMismatch
	WrongArity

	// Storage
	CorruptedStructure
	CorruptedPayload
	IllegalData

	// Runtime
	IOError
	Internal
)

var names = map[Kind]string{
	Unknown:               "unknown",
	InvalidStringLiteral:  "invalid-string-literal",
	InvalidNumberLiteral:  "invalid-number-literal",
	UnexpectedEOF:         "unexpected-eof",
	UnknownKeyword:        "unknown-keyword",
	ExpectedStatement:     "expected-statement",
	InvalidSyntax:         "invalid-syntax",
	BadParameter:          "bad-parameter",
	AlreadyExists:         "already-exists",
	DoesNotExist:          "does-not-exist",
	WrongEntity:           "wrong-entity",
	WrongModel:            "wrong-model",
	BadFieldDefinition:    "bad-field-definition",
	UnsupportedAlter:      "unsupported-alter",
	NonEmptyOnDrop:        "non-empty-on-drop",
	Nil:                   "nil",
	OverwriteError:        "overwrite-error",
	TypeMismatch:          "type-mismatch",
	WrongArity:            "wrong-arity",
	CorruptedStructure:    "corrupted-structure",
	CorruptedPayload:      "corrupted-payload",
	IllegalData:           "illegal-data",
	IOError:               "io-error",
	Internal:              "internal",
}

// String implements fmt.Stringer for log output.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}

// QueryError pairs a stable Kind with a human-readable cause. It wraps
// the underlying error so errors.Is/errors.As keep working across the
// boundary, matching the rest of the module's plain fmt.Errorf("%w")
// error handling.
type QueryError struct {
	Kind  Kind
	Cause error
}

// New builds a QueryError with no wrapped cause; msg is formatted with
// fmt.Sprintf semantics.
func New(kind Kind, format string, args ...any) *QueryError {
	return &QueryError{Kind: kind, Cause: fmt.Errorf(format, args...)}
}

// Wrap attaches a Kind to an existing error.
func Wrap(kind Kind, err error) *QueryError {
	if err == nil {
		return nil
	}
	return &QueryError{Kind: kind, Cause: err}
}

func (e *QueryError) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// KindOf extracts the Kind carried by err, defaulting to Internal for
// any error that didn't originate as a *QueryError (a bug the executor
// should not crash on, but should report honestly as internal).
//
// errors.As is used rather than a hand-rolled single-error Unwrap walk
// so a go.uber.org/multierr combined error (internal/core/validate.go's
// multierr.Append, built whenever a CREATE MODEL has more than one
// field-validation problem) still resolves to the Kind of whichever
// *QueryError it contains: multierr's combined error implements the Go
// 1.20 multi-error Unwrap() []error shape, which errors.As already
// knows how to walk, rather than the single-error Unwrap() error shape
// a manual walker would have to special-case.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return Internal
}
