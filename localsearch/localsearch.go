// Package localsearch implements Local Search and Reusing Iterative Local
// Search (spec.md §4.4.4) over a factor graph whose payloads are dense
// local value tables: factor.Node.Payload is a []float64 indexed by the
// mixed-radix local assignment over the factor's own Keys (assign.Sizes).
package localsearch

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/factor"
)

// Value evaluates the sum of every factor's local payload at full, the
// joint value of a full assignment.
func Value(g *factor.Graph, sizes assign.Sizes, full []int) float64 {
	total := 0.0
	for _, fi := range g.Factors() {
		node := g.Factor(fi)
		local := assign.Project(full, node.Keys).Values
		idx := sizes.Select(node.Keys).Index(local)
		total += node.Payload.([]float64)[idx]
	}
	return total
}

func localValue(g *factor.Graph, sizes assign.Sizes, full []int, v, value int) float64 {
	total := 0.0
	for _, fi := range g.Neighbors(v) {
		node := g.Factor(fi)
		local := make([]int, len(node.Keys))
		for i, k := range node.Keys {
			if k == v {
				local[i] = value
			} else {
				local[i] = full[k]
			}
		}
		idx := sizes.Select(node.Keys).Index(local)
		total += node.Payload.([]float64)[idx]
	}
	return total
}

func randomAssignment(sizes assign.Sizes, rng *rand.Rand) []int {
	full := make([]int, len(sizes))
	for i, s := range sizes {
		full[i] = rng.Intn(s)
	}
	return full
}

// Run performs one Local Search: starting from seed (or, if seed is nil, a
// uniform random assignment), sweep variables in random order, switching
// each to its locally-best value given the others, until a full sweep
// makes no strict improvement. Returns the converged assignment and its
// full Value.
func Run(g *factor.Graph, sizes assign.Sizes, seed []int, rng *rand.Rand) ([]int, float64) {
	var full []int
	if seed != nil {
		full = append([]int(nil), seed...)
	} else {
		full = randomAssignment(sizes, rng)
	}

	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}

	for {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		improved := false
		for _, v := range order {
			best := full[v]
			bestVal := localValue(g, sizes, full, v, full[v])
			for val := 0; val < sizes[v]; val++ {
				if val == full[v] {
					continue
				}
				cand := localValue(g, sizes, full, v, val)
				if cand > bestVal {
					bestVal, best = cand, val
				}
			}
			if best != full[v] {
				full[v] = best
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	return full, Value(g, sizes, full)
}
