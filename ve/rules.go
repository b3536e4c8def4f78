package ve

import (
	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/factor"
)

// Rule is a (partial-assignment, payload) pair, the input atom to every
// VE-family solver (spec.md §3 "Rule").
type Rule struct {
	Assignment assign.Partial
	Payload    any
}

// buildGraph groups rules by their (sorted) Keys signature into one dense
// factor.Node per distinct scope. wrap converts a raw rule payload into
// the combiner's internal entry representation; zero returns the entry to
// use for local assignments no rule constrains.
func buildGraph(numVars int, sizes assign.Sizes, rules []Rule,
	wrap func(any) any, zero func() any) *factor.Graph {

	g := factor.NewGraph(numVars)
	for _, r := range rules {
		idx, created := g.GetOrCreate(r.Assignment.Keys)
		node := g.Factor(idx)
		if created {
			scopeSizes := sizes.Select(node.Keys)
			table := make([]any, scopeSizes.Domain())
			for i := range table {
				table[i] = zero()
			}
			node.Payload = table
		}
		table := node.Payload.([]any)
		localIdx := sizes.Select(node.Keys).Index(r.Assignment.Values)
		table[localIdx] = wrap(r.Payload)
	}
	return g
}
