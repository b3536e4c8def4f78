// Package ve implements Generic Variable Elimination (GVE, spec.md §4.4) and
// its three concrete instantiations: scalar Variable Elimination (§4.4.1),
// Multi-Objective VE (§4.4.2) and Upper-Confidence VE (§4.4.3). All three
// share the same elimination skeleton, parameterized by a Combiner — the
// same "combiner protocol as interface" re-architecture spec.md §9 calls
// for in place of the source's duck-typed template parameter.
//
// A factor's Payload (factor.Node.Payload) is always a []any: one
// combiner-specific rule payload per local joint assignment over the
// factor's own Keys, in assign.Sizes mixed-radix order. This lets GVE
// restrict a factor to a partial assignment generically, without knowing
// what a "rule payload" looks like.
package ve

import (
	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/factor"
)

// Combiner implements the eight GVE primitives described in spec.md §4.4.
// One concrete Combiner exists per solver (VE, MOVE, UCVE); GVE's Run
// function is otherwise solver-agnostic.
type Combiner interface {
	// BeginRemoval is called once per eliminated variable, before any
	// cross-sums over it are computed.
	BeginRemoval(variable int)

	// InitNewFactor resets the accumulator for one new-scope assignment,
	// before iterating over the eliminated variable's values.
	InitNewFactor()

	// BeginCrossSum starts accumulating the cross-sum for one value of the
	// eliminated variable.
	BeginCrossSum(varValue int)

	// CrossSum folds one adjacent factor's (already-restricted) payload
	// entry into the current cross-sum.
	CrossSum(payload any)

	// EndCrossSum finishes one value's cross-sum, folding its result into
	// the new-factor accumulator started by InitNewFactor.
	EndCrossSum()

	// IsValidNewFactor reports whether the accumulator built since the
	// last InitNewFactor should be emitted.
	IsValidNewFactor() bool

	// CurrentFactor returns the payload accumulated since the last
	// InitNewFactor, to be stored at the corresponding table index.
	CurrentFactor() any

	// MergeFactors folds two final (scope-less) factor payloads together.
	MergeFactors(acc, other any) any

	// MakeResult turns the merged final-factor accumulator into the
	// solver's return value (e.g. a joint action and its value).
	MakeResult(final any) any
}

func removeFromSorted(vars []int, v int) []int {
	out := make([]int, 0, len(vars))
	for _, x := range vars {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// chooseVariable picks the next variable to eliminate using the "min-fill
// next" policy: the variable whose elimination would create a factor
// touching the fewest new variables, ties broken by lowest index. vars is
// assumed sorted ascending.
func chooseVariable(g *factor.Graph, vars []int) int {
	best := vars[0]
	bestFill := -1
	for _, v := range vars {
		adjacent := g.Neighbors(v)
		others := removeFromSorted(g.NeighborVars(adjacent), v)
		if bestFill == -1 || len(others) < bestFill {
			bestFill = len(others)
			best = v
		}
	}
	return best
}

// Run executes Generic Variable Elimination over g (whose factor payloads
// are []any rule tables over sizes) using comb, and returns comb's
// MakeResult of the fully-merged final factor.
func Run(g *factor.Graph, sizes assign.Sizes, comb Combiner) any {
	var finalFactors []any

	for {
		vars := g.Variables()
		if len(vars) == 0 {
			break
		}
		v := chooseVariable(g, vars)
		comb.BeginRemoval(v)

		adjacent := append([]int(nil), g.Neighbors(v)...)
		otherVars := removeFromSorted(g.NeighborVars(adjacent), v)
		newScopeSizes := sizes.Select(otherVars)
		domain := newScopeSizes.Domain()
		if len(otherVars) == 0 {
			domain = 1
		}
		varSize := sizes[v]

		table := make([]any, domain)
		valid := make([]bool, domain)

		for scopeIdx := 0; scopeIdx < domain; scopeIdx++ {
			var newScopeFull []int
			if len(otherVars) > 0 {
				newScopeFull = newScopeSizes.Decode(scopeIdx)
			}

			comb.InitNewFactor()
			for val := 0; val < varSize; val++ {
				comb.BeginCrossSum(val)
				for _, fi := range adjacent {
					node := g.Factor(fi)
					localVals := make([]int, len(node.Keys))
					for i, k := range node.Keys {
						if k == v {
							localVals[i] = val
						} else {
							localVals[i] = newScopeFull[indexOf(otherVars, k)]
						}
					}
					localIdx := sizes.Select(node.Keys).Index(localVals)
					comb.CrossSum(node.Payload.([]any)[localIdx])
				}
				comb.EndCrossSum()
			}

			table[scopeIdx] = comb.CurrentFactor()
			valid[scopeIdx] = comb.IsValidNewFactor()
		}

		g.RemoveVariable(v)

		if len(otherVars) == 0 {
			if valid[0] {
				finalFactors = append(finalFactors, table[0])
			}
			continue
		}
		newIdx, created := g.GetOrCreate(otherVars)
		node := g.Factor(newIdx)
		if created {
			node.Payload = table
			continue
		}
		// A factor over the same scope already exists: fold the new table
		// into it entry by entry instead of replacing it.
		existing := node.Payload.([]any)
		for i := range existing {
			existing[i] = comb.MergeFactors(existing[i], table[i])
		}
	}

	var acc any
	for _, f := range finalFactors {
		if acc == nil {
			acc = f
		} else {
			acc = comb.MergeFactors(acc, f)
		}
	}
	return comb.MakeResult(acc)
}
