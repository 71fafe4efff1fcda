package numeric

// Subsets returns every non-empty subset of [0, n) with size between 1 and
// maxSize (inclusive), as index slices into the caller's rank list.
//
// Subsets are returned grouped by ascending size, and within a size in
// lexicographic index order — e.g. for n=3, maxSize=2: {0},{1},{2},{0,1},
// {0,2},{1,2}. This is the traversal order spec §4.2 relies on: ranks are
// walked "in their ds.ranks order", which Subsets preserves by indexing
// into that same order.
//
// If maxSize <= 0 or maxSize > n, it is clamped to n. If n <= 0, Subsets
// returns nil.
func Subsets(n, maxSize int) [][]int {
	if n <= 0 {
		return nil
	}
	if maxSize <= 0 || maxSize > n {
		maxSize = n
	}

	var result [][]int
	for size := 1; size <= maxSize; size++ {
		result = append(result, combinationsOfSize(n, size)...)
	}
	return result
}

// combinationsOfSize returns all size-length combinations of [0, n) in
// lexicographic order.
func combinationsOfSize(n, size int) [][]int {
	if size <= 0 || size > n {
		return nil
	}
	var result [][]int
	combo := make([]int, size)
	for i := range combo {
		combo[i] = i
	}

	for {
		result = append(result, append([]int(nil), combo...))

		// Advance to the next combination, or stop if none remain.
		i := size - 1
		for i >= 0 && combo[i] == n-size+i {
			i--
		}
		if i < 0 {
			break
		}
		combo[i]++
		for j := i + 1; j < size; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
	return result
}
