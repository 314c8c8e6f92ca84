package netcode

import (
	"errors"
	"fmt"
)

// Error kinds. Every ParseError unwraps to exactly one of these.
var (
	ErrMalformedHeader            = errors.New("malformed class header")
	ErrMissingBase                = errors.New("missing base type")
	ErrUnsupportedConstantType    = errors.New("unsupported constant type")
	ErrMalformedConstant          = errors.New("malformed constant")
	ErrUnresolvedFieldType        = errors.New("unresolved field type")
	ErrUnresolvedConstructorParam = errors.New("unresolved constructor parameter")
	ErrUnresolvedModuleID         = errors.New("unresolved module id")
	ErrUnexpectedLine             = errors.New("unexpected line")
	ErrUnknownType                = errors.New("unknown type")
	ErrUnhandledState             = errors.New("unhandled state")
)

// ParseError ties a failure to the unit and the line that triggered it.
// LineNo is 1-based; zero means the failure is not tied to one line.
type ParseError struct {
	Kind   error
	Unit   string
	LineNo int
	Line   string
	Detail string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Unit, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.LineNo > 0 {
		msg += fmt.Sprintf(" (line %d: %q)", e.LineNo, e.Line)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Kind }

// KindOf returns the error kind of a parse failure, or nil.
func KindOf(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return nil
}

func (u *CompilationUnit) fail(kind error, idx int, format string, args ...any) *ParseError {
	e := &ParseError{Kind: kind, Unit: u.Name, Detail: fmt.Sprintf(format, args...)}
	if idx >= 0 && idx < len(u.Lines) {
		e.LineNo = idx + 1
		e.Line = u.Lines[idx]
	}
	return e
}
