package interval

import (
	"math"
	"sort"
)

// This file includes support for representing a merged interval set as a
// []PosType containing a sorted sequence of interval endpoints.
//
// For example, the merged set
//   [2,23] [25,30]
// is stored as
//   {2, 23, 25, 30}.
// Both endpoints are inclusive, so a position p is covered iff the index of
// the first endpoint >= p is odd (p is past a start and not past the
// matching end), or it is even and that endpoint equals p (p is a start).

// Union is an immutable interval-union.  It is safe for concurrent use.
type Union struct {
	// endpoints has length 2N for N intervals; the start of interval k is in
	// element [2k] and its end in element [2k+1].
	endpoints []PosType
}

// NewUnion returns the Union of a merged set (the output of Merge).  It
// panics if merged is not sorted and strictly gapped; pass arbitrary sets
// through Merge first.
func NewUnion(merged []Interval) Union {
	if !IsMerged(merged) {
		panic("interval.NewUnion: input is not a merged interval set")
	}
	endpoints := make([]PosType, 0, 2*len(merged))
	for _, iv := range merged {
		endpoints = append(endpoints, iv.Start, iv.End)
	}
	return Union{endpoints: endpoints}
}

// searchPosTypes returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except for PosType.
func searchPosTypes(a []PosType, x PosType) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// Contains returns whether pos is covered by the union.
func (u Union) Contains(pos PosType) bool {
	idx := searchPosTypes(u.endpoints, pos)
	if idx == len(u.endpoints) {
		return false
	}
	return idx&1 == 1 || u.endpoints[idx] == pos
}

// Len returns the number of disjoint intervals.
func (u Union) Len() int {
	return len(u.endpoints) / 2
}

// Intervals returns the union as a merged []Interval.
func (u Union) Intervals() []Interval {
	out := make([]Interval, 0, u.Len())
	for i := 0; i < len(u.endpoints); i += 2 {
		out = append(out, Interval{Start: u.endpoints[i], End: u.endpoints[i+1]})
	}
	return out
}

// Covered returns the number of integer positions in the union, saturating at
// math.MaxUint64 (only reachable when the union is the entire PosType range).
func (u Union) Covered() uint64 {
	var total uint64
	for i := 0; i < len(u.endpoints); i += 2 {
		// end-start fits in uint64 for any PosType pair; +1 can wrap only for
		// [PosTypeMin, PosTypeMax].
		n := uint64(u.endpoints[i+1]) - uint64(u.endpoints[i]) + 1
		if n == 0 || total > math.MaxUint64-n {
			return math.MaxUint64
		}
		total += n
	}
	return total
}
