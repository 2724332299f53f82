package analytics

import (
	"sort"
)

// rankBy assigns 1-based competition ranks over the positions listed in
// eligible, ordered by less; positions outside eligible keep rank 0.
// Competition ranking means ties share the smallest index and the next
// distinct value skips past them: values [10, 10, 20] rank [1, 1, 3].
//
// less must be a strict ordering over positions; two positions compare
// equal when neither is less than the other.
func rankBy(total int, eligible []int, less func(a, b int) bool) []int {
	ranks := make([]int, total)
	if len(eligible) == 0 {
		return ranks
	}

	order := make([]int, len(eligible))
	copy(order, eligible)
	sort.Slice(order, func(i, j int) bool { return less(order[i], order[j]) })

	ranks[order[0]] = 1
	for k := 1; k < len(order); k++ {
		if less(order[k-1], order[k]) {
			ranks[order[k]] = k + 1
		} else {
			ranks[order[k]] = ranks[order[k-1]]
		}
	}
	return ranks
}

// allPositions returns [0, n) for ranking pools with no exclusions.
func allPositions(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
