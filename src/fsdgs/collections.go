package fsdgs

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

const eps = 1e-6

type number interface {
	constraints.Integer | constraints.Float
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func sum[T number](xs []T) (total T) {
	for _, x := range xs {
		total += x
	}
	return
}

// argMax returns the index of the first largest element, or -1 for an empty slice.
func argMax[T constraints.Ordered](xs []T) int {
	best := -1
	for i, x := range xs {
		if best < 0 || x > xs[best] {
			best = i
		}
	}
	return best
}

func identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func comparePairs(a, b GroupPair) int {
	if a.From != b.From {
		return a.From - b.From
	}
	return a.To - b.To
}

// SetupPairs lists the defined setup transitions in (from, to) order.
func (inst *Instance) SetupPairs() []GroupPair {
	pairs := maps.Keys(inst.Setups)
	slices.SortFunc(pairs, comparePairs)
	return pairs
}
