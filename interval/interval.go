package interval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PosType is the coordinate type of an Interval.
type PosType int64

const (
	// PosTypeMin is the smallest value that can be represented by a PosType.
	PosTypeMin = math.MinInt64
	// PosTypeMax is the largest value that can be represented by a PosType.
	PosTypeMax = math.MaxInt64
)

// Interval is the closed range [Start, End].  Start <= End always holds for
// an Interval produced by this package.
type Interval struct {
	Start PosType
	End   PosType
}

// New returns the interval [start, end], or an InvalidRange error if start >
// end.
func New(start, end PosType) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if start > end {
		return Interval{}, rangeError(iv)
	}
	return iv, nil
}

func rangeError(iv Interval) *Error {
	token := iv.String()
	return newError(InvalidRange, token,
		"invalid interval %s: start %d is greater than end %d", token, iv.Start, iv.End)
}

// Less orders intervals by Start, then by End.
func (iv Interval) Less(other Interval) bool {
	if iv.Start == other.Start {
		return iv.End < other.End
	}
	return iv.Start < other.Start
}

// Contains returns whether pos lies within the interval.
func (iv Interval) Contains(pos PosType) bool {
	return iv.Start <= pos && pos <= iv.End
}

// String returns the interval in input syntax, e.g. "[2,19]".
func (iv Interval) String() string {
	var sb strings.Builder
	iv.appendTo(&sb)
	return sb.String()
}

func (iv Interval) appendTo(sb *strings.Builder) {
	var buf [20]byte
	sb.WriteByte('[')
	sb.Write(strconv.AppendInt(buf[:0], int64(iv.Start), 10))
	sb.WriteByte(',')
	sb.Write(strconv.AppendInt(buf[:0], int64(iv.End), 10))
	sb.WriteByte(']')
}

// MarshalJSON encodes the interval as a two-element array.
func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{int64(iv.Start), int64(iv.End)})
}

// UnmarshalJSON decodes either a two-element array, [start,end], or an
// object, {"start":start,"end":end}; both fields of the object are required.
// It does not check Start <= End; callers that accept intervals from the
// wire must run Validate.
func (iv *Interval) UnmarshalJSON(data []byte) error {
	if d := bytes.TrimLeft(data, " \t\r\n"); len(d) > 0 && d[0] == '{' {
		var obj struct {
			Start *int64 `json:"start"`
			End   *int64 `json:"end"`
		}
		if err := json.Unmarshal(d, &obj); err != nil {
			return err
		}
		if obj.Start == nil || obj.End == nil {
			return fmt.Errorf("interval.UnmarshalJSON: want {\"start\":a,\"end\":b}, got %s", d)
		}
		iv.Start, iv.End = PosType(*obj.Start), PosType(*obj.End)
		return nil
	}
	var pair []int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("interval.UnmarshalJSON: want [start,end], got %d element(s)", len(pair))
	}
	iv.Start, iv.End = PosType(pair[0]), PosType(pair[1])
	return nil
}

// Format renders a set in input syntax with no separators, e.g.
// "[2,23][25,30]".  The output is accepted by Parse.
func Format(set []Interval) string {
	var sb strings.Builder
	for _, iv := range set {
		iv.appendTo(&sb)
	}
	return sb.String()
}
