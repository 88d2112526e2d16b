package interval

import "math/rand"

// Random returns n intervals with starts drawn uniformly from [-10n, 10n) and
// lengths from [0, 100).  It is meant for load tests; Format(Random(r, n)) is
// always accepted by Parse.
func Random(r *rand.Rand, n int) []Interval {
	set := make([]Interval, n)
	for i := range set {
		start := PosType(r.Intn(n*20) - n*10)
		set[i] = Interval{Start: start, End: start + PosType(r.Intn(100))}
	}
	return set
}
