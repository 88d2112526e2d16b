package interval

import (
	"errors"
	"fmt"
)

// Kind classifies why an input was rejected.
type Kind int

const (
	// Unknown is returned by KindOf for errors not produced by this package.
	Unknown Kind = iota
	// EmptyInput means the input was blank after trimming whitespace.
	EmptyInput
	// MalformedSyntax means the input contains something other than
	// whitespace-separated [integer,integer] tokens.
	MalformedSyntax
	// InvalidRange means a well-formed token has start > end.
	InvalidRange
	// TooManyIntervals means the input holds more tokens than the configured
	// limit.
	TooManyIntervals
)

var kindNames = [...]string{
	Unknown:          "unknown",
	EmptyInput:       "empty_input",
	MalformedSyntax:  "malformed_syntax",
	InvalidRange:     "invalid_range",
	TooManyIntervals: "too_many_intervals",
}

// String returns the wire name of the kind, e.g. "malformed_syntax".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.  It returns Unknown for names it
// does not recognize.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return Kind(k)
		}
	}
	return Unknown
}

// Error is a validation failure.  It never carries a partial result.
type Error struct {
	Kind Kind
	// Message is suitable for direct display to a user.
	Message string
	// Token is the offending piece of input, if one can be singled out.
	Token string
}

func newError(kind Kind, token string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Token: token}
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// KindOf returns the Kind of err, or Unknown if err is not (and does not
// wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
