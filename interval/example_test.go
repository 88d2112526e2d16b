package interval_test

import (
	"fmt"

	"github.com/grailbio/intervals/interval"
)

func Example() {
	set, err := interval.Parse("[25,30] [2,19] [14,23] [4,8]")
	if err != nil {
		panic(err)
	}
	merged := interval.Merge(set)
	fmt.Println(interval.Format(merged))

	_, err = interval.Parse("[10,5]")
	fmt.Println(interval.KindOf(err))

	// Output:
	// [2,23][25,30]
	// invalid_range
}
