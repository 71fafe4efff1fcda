package numeric_test

import (
	"fmt"

	"github.com/maeri-project/timeloop/pkg/core/numeric"
)

func Example_divisors() {
	fmt.Println(numeric.Divisors(32))
	// Output: [2 4 8 16 32]
}

func Example_subsets() {
	for _, s := range numeric.Subsets(3, 2) {
		fmt.Println(s)
	}
	// Output:
	// [0]
	// [1]
	// [2]
	// [0 1]
	// [0 2]
	// [1 2]
}
