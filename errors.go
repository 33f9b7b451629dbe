package toon

import (
	"fmt"
	"reflect"
)

// ErrorKind classifies decode failures.
type ErrorKind uint8

const (
	// ErrMalformedIndentation marks indentation that is not a multiple of
	// the expected indent width.
	ErrMalformedIndentation ErrorKind = iota
	// ErrSyntax marks a line with no recognizable shape: missing colon,
	// bad header, unexpected indentation.
	ErrSyntax
	// ErrLengthMismatch marks a declared array length that disagrees with
	// the actual element count.
	ErrLengthMismatch
	// ErrRowArity marks a tabular row whose field count disagrees with the
	// header.
	ErrRowArity
	// ErrDelimiterMismatch marks a body whose fields are separated by a
	// different delimiter than the header declares.
	ErrDelimiterMismatch
	// ErrInvalidEscape marks a quoted token with a bad or unterminated
	// escape sequence.
	ErrInvalidEscape
	// ErrDepthExceeded marks input nested beyond the configured maximum
	// depth.
	ErrDepthExceeded
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedIndentation:
		return "MalformedIndentation"
	case ErrSyntax:
		return "SyntaxError"
	case ErrLengthMismatch:
		return "LengthMismatchError"
	case ErrRowArity:
		return "RowArityError"
	case ErrDelimiterMismatch:
		return "DelimiterMismatchError"
	case ErrInvalidEscape:
		return "InvalidEscapeError"
	case ErrDepthExceeded:
		return "DepthExceededError"
	default:
		return "UnknownError"
	}
}

// DecodeError reports a decode failure together with the 1-based line
// number of the offending input line.
type DecodeError struct {
	Kind    ErrorKind
	Line    int
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("toon: %s at line %d: %s", e.Kind, e.Line, e.Message)
}

func decodeErrf(kind ErrorKind, line int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// MarshalerError wraps an error returned by a custom MarshalTOON method.
type MarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *MarshalerError) Error() string {
	return fmt.Sprintf("toon: error calling MarshalTOON for type %s: %v", e.Type, e.Err)
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// UnmarshalerError wraps an error returned by a custom UnmarshalTOON or
// UnmarshalText method.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return fmt.Sprintf("toon: error calling custom unmarshaler for type %s: %v", e.Type, e.Err)
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }
