package interval_test

import (
	"strings"
	"testing"

	"github.com/grailbio/intervals/interval"
	"github.com/grailbio/testutil/expect"
)

func iv(start, end interval.PosType) interval.Interval {
	return interval.Interval{Start: start, End: end}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  []interval.Interval
	}{
		{"[25,30] [2,19] [14,23] [4,8]", []interval.Interval{iv(25, 30), iv(2, 19), iv(14, 23), iv(4, 8)}},
		{"[5,30] [2,4] [4,28]", []interval.Interval{iv(5, 30), iv(2, 4), iv(4, 28)}},
		{"[1,1]", []interval.Interval{iv(1, 1)}},
		{"  \t[1,2]\n\n[3,4]  ", []interval.Interval{iv(1, 2), iv(3, 4)}},
		{"[2,23][25,30]", []interval.Interval{iv(2, 23), iv(25, 30)}},
		{"[-15,-5] [+3,+7] [-1,0]", []interval.Interval{iv(-15, -5), iv(3, 7), iv(-1, 0)}},
		{"[007,010]", []interval.Interval{iv(7, 10)}},
		{"[-9223372036854775808,9223372036854775807]", []interval.Interval{iv(interval.PosTypeMin, interval.PosTypeMax)}},
		{"[4,8] [4,8]", []interval.Interval{iv(4, 8), iv(4, 8)}},
	}
	for _, tt := range tests {
		got, err := interval.Parse(tt.input)
		expect.NoError(t, err, tt.input)
		expect.EQ(t, got, tt.want, tt.input)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  interval.Kind
		token string
	}{
		{"", interval.EmptyInput, ""},
		{"   \n\t ", interval.EmptyInput, ""},
		{"abc[25,30] [2,19] [14, 23a] def [4,8 ghi", interval.MalformedSyntax, "abc[25,30]"},
		{"[14, 23]", interval.MalformedSyntax, "[14,"},
		{"[1,2] [14,23a]", interval.MalformedSyntax, "[14,23a]"},
		{"[1,2]x", interval.MalformedSyntax, "[1,2]x"},
		{"[1,2],[3,4]", interval.MalformedSyntax, "[1,2],[3,4]"},
		{"[4,8", interval.MalformedSyntax, "[4,8"},
		{"[1,2]\u00a0[3,4]", interval.MalformedSyntax, "[1,2]\u00a0[3,4]"},
		{"\u00a0[1,2]\u00a0", interval.MalformedSyntax, "\u00a0[1,2]\u00a0"},
		{"\u0085[1,2]", interval.MalformedSyntax, "\u0085[1,2]"},
		{"4,8]", interval.MalformedSyntax, "4,8]"},
		{"[4,8]]", interval.MalformedSyntax, "[4,8]]"},
		{"[[4,8]", interval.MalformedSyntax, "[[4,8]"},
		{"[,8]", interval.MalformedSyntax, "[,8]"},
		{"[4,]", interval.MalformedSyntax, "[4,]"},
		{"[4,5,6]", interval.MalformedSyntax, "[4,5,6]"},
		{"[-,5]", interval.MalformedSyntax, "[-,5]"},
		{"[1.5,2]", interval.MalformedSyntax, "[1.5,2]"},
		{"[0x10,20]", interval.MalformedSyntax, "[0x10,20]"},
		{"[9223372036854775808,9223372036854775809]", interval.MalformedSyntax, "[9223372036854775808,9223372036854775809]"},
		{"[]", interval.MalformedSyntax, "[]"},
		{"[10,5]", interval.InvalidRange, "[10,5]"},
		{"[1,2] [10,5] [7,3]", interval.InvalidRange, "[10,5]"},
		// Syntax problems anywhere win over range problems.
		{"[10,5] [1,x]", interval.MalformedSyntax, "[1,x]"},
	}
	for _, tt := range tests {
		got, err := interval.Parse(tt.input)
		expect.EQ(t, len(got), 0, tt.input)
		expect.EQ(t, interval.KindOf(err), tt.kind, tt.input)
		if e, ok := err.(*interval.Error); ok {
			expect.EQ(t, e.Token, tt.token, tt.input)
			expect.True(t, e.Message != "", tt.input)
		} else {
			t.Errorf("%q: got %T, want *interval.Error", tt.input, err)
		}
	}
}

func TestParseMessages(t *testing.T) {
	_, err := interval.Parse("")
	expect.EQ(t, err.Error(), "empty_input: no intervals supplied")

	_, err = interval.Parse("[10,5]")
	expect.EQ(t, err.(*interval.Error).Message, "invalid interval [10,5]: start 10 is greater than end 5")

	_, err = interval.Parse("[1,2] def")
	expect.True(t, strings.Contains(err.Error(), `"def"`), err.Error())
}

func TestParseMaxIntervals(t *testing.T) {
	opts := interval.ParseOpts{MaxIntervals: 3}

	got, err := opts.Parse("[1,3] [2,4] [5,8]")
	expect.NoError(t, err)
	expect.EQ(t, len(got), 3)

	_, err = opts.Parse("[1,3] [2,4] [5,8] [6,7] [9,10] [11,12]")
	expect.EQ(t, interval.KindOf(err), interval.TooManyIntervals)
	expect.True(t, strings.Contains(err.Error(), "maximum allowed is 3"), err.Error())

	// A syntax error past the limit is still reported as such.
	_, err = opts.Parse("[1,3] [2,4] [5,8] [6,7] oops")
	expect.EQ(t, interval.KindOf(err), interval.MalformedSyntax)

	// Limit is checked before ranges.
	_, err = opts.Parse("[3,1] [2,4] [5,8] [6,7]")
	expect.EQ(t, interval.KindOf(err), interval.TooManyIntervals)
}

func TestKindNames(t *testing.T) {
	for _, k := range []interval.Kind{interval.EmptyInput, interval.MalformedSyntax, interval.InvalidRange, interval.TooManyIntervals} {
		expect.EQ(t, interval.ParseKind(k.String()), k)
	}
	expect.EQ(t, interval.ParseKind("nope"), interval.Unknown)
	expect.EQ(t, interval.Kind(42).String(), "kind(42)")
	expect.False(t, interval.IsKind(nil, interval.Unknown))
}
