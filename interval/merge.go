package interval

import (
	"sort"
)

// Merge returns the minimal set of disjoint intervals covering exactly the
// same integer points as set, sorted by Start.  Overlapping intervals and
// intervals sharing a boundary point (e.g. [2,4] and [4,28]) are merged;
// intervals separated by a gap of one or more points (e.g. [1,3] and [4,5])
// are not.
//
// set is not modified.  Merge panics if set is empty: callers must reject
// empty input (see Parse) before merging.
func Merge(set []Interval) []Interval {
	if len(set) == 0 {
		panic("interval.Merge: empty interval set")
	}
	sorted := make([]Interval, len(set))
	copy(sorted, set)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return mergeSorted(sorted)
}

// mergeSorted merges sorted in place and returns the merged prefix.
func mergeSorted(sorted []Interval) []Interval {
	merged := sorted[:1]
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			// Overlapping or touching.
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged[:len(merged):len(merged)]
}

// IsMerged returns whether set already satisfies Merge's output invariant:
// sorted by Start, with a strict gap between consecutive intervals, and every
// interval well-formed.
func IsMerged(set []Interval) bool {
	for i, iv := range set {
		if iv.Start > iv.End {
			return false
		}
		if i > 0 && set[i-1].End >= iv.Start {
			return false
		}
	}
	return true
}
