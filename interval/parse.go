package interval

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseOpts defines the behavior of ParseOpts.Parse.
type ParseOpts struct {
	// MaxIntervals caps the number of intervals in one input.  Zero means no
	// limit.
	MaxIntervals int
}

// Parse converts text into an IntervalSet, preserving input order.  See
// ParseOpts.Parse.
func Parse(text string) ([]Interval, error) {
	return ParseOpts{}.Parse(text)
}

// Parse converts text into an IntervalSet, preserving input order.
//
// Whitespace means ASCII space, tab, newline, vertical tab, form feed and
// carriage return, both around and between tokens.  After trimming
// surrounding whitespace, text must be a sequence of tokens
// of the form [a,b], where a and b are base-10 integers with an optional
// sign.  Tokens are separated by whitespace, or may be written back to back
// ("[1,2][3,4]").  Nothing else may appear anywhere, including inside the
// brackets.  The whole input is rejected on the first violation; there is no
// partial result.
//
// Failures are reported as *Error, checked in this order: EmptyInput,
// MalformedSyntax (anywhere in the input), TooManyIntervals, InvalidRange
// (first offending token).
func (o ParseOpts) Parse(text string) ([]Interval, error) {
	s := strings.TrimFunc(text, func(r rune) bool { return r < utf8.RuneSelf && isSpace(byte(r)) })
	if s == "" {
		return nil, newError(EmptyInput, "", "no intervals supplied")
	}
	var (
		set      []Interval
		rangeErr *Error
		n        int
	)
	if o.MaxIntervals <= 0 || o.MaxIntervals > 1024 {
		// Every token takes at least 5 bytes.
		set = make([]Interval, 0, len(s)/6+1)
	} else {
		set = make([]Interval, 0, o.MaxIntervals)
	}
	pos := 0
	for pos < len(s) {
		if isSpace(s[pos]) {
			pos++
			continue
		}
		iv, next, err := scanToken(s, pos)
		if err != nil {
			return nil, err
		}
		if next < len(s) && s[next] != '[' && !isSpace(s[next]) {
			return nil, malformed(s, pos)
		}
		n++
		if o.MaxIntervals > 0 && n > o.MaxIntervals {
			// Keep scanning so that a syntax error later on still wins.
			pos = next
			continue
		}
		if iv.Start > iv.End && rangeErr == nil {
			rangeErr = rangeError(iv)
		}
		set = append(set, iv)
		pos = next
	}
	if err := o.checkCount(n); err != nil {
		return nil, err
	}
	if rangeErr != nil {
		return nil, rangeErr
	}
	return set, nil
}

// scanToken parses the token "[a,b]" starting at s[pos], returning it along
// with the index just past the closing bracket.  Start > End is not checked
// here.
func scanToken(s string, pos int) (iv Interval, next int, err *Error) {
	i := pos
	if s[i] != '[' {
		return iv, 0, malformed(s, pos)
	}
	i++
	start, i, ok := scanInt(s, i)
	if !ok || i >= len(s) || s[i] != ',' {
		return iv, 0, malformed(s, pos)
	}
	i++
	end, i, ok := scanInt(s, i)
	if !ok || i >= len(s) || s[i] != ']' {
		return iv, 0, malformed(s, pos)
	}
	return Interval{Start: start, End: end}, i + 1, nil
}

// scanInt parses [+-]?[0-9]+ starting at s[i].  It fails on an empty digit
// run or on int64 overflow.
func scanInt(s string, i int) (PosType, int, bool) {
	begin := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsBegin := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digitsBegin {
		return 0, i, false
	}
	v, err := strconv.ParseInt(s[begin:i], 10, 64)
	if err != nil {
		return 0, i, false
	}
	return PosType(v), i, true
}

// malformed builds a MalformedSyntax error for the whitespace-delimited chunk
// of s starting at pos.
func malformed(s string, pos int) *Error {
	end := pos
	for end < len(s) && !isSpace(s[end]) {
		end++
	}
	token := s[pos:end]
	return newError(MalformedSyntax, token,
		"malformed input %q: intervals must be written as [start,end] with integer bounds, separated by whitespace",
		token)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Check validates a set that did not come from Parse, e.g. one decoded from
// JSON, applying the same rules in the same order: EmptyInput for an empty
// set, TooManyIntervals, then InvalidRange for the first element with Start >
// End.
func (o ParseOpts) Check(set []Interval) error {
	if len(set) == 0 {
		return newError(EmptyInput, "", "no intervals supplied")
	}
	if err := o.checkCount(len(set)); err != nil {
		return err
	}
	for _, iv := range set {
		if iv.Start > iv.End {
			return rangeError(iv)
		}
	}
	return nil
}

// Validate is ParseOpts{}.Check(set).
func Validate(set []Interval) error {
	return ParseOpts{}.Check(set)
}

func (o ParseOpts) checkCount(n int) *Error {
	if o.MaxIntervals > 0 && n > o.MaxIntervals {
		return newError(TooManyIntervals, "",
			"too many intervals: got %d, maximum allowed is %d", n, o.MaxIntervals)
	}
	return nil
}
