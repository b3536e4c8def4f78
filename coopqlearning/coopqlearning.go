// Package coopqlearning implements Cooperative Q-learning (spec.md §4.8):
// a dense factor graph of per-factor Q-tables, updated by a per-agent TD
// residual credit assignment, with the greedy/ε-greedy next joint action
// found by Local Search over the Q-table factor graph.
package coopqlearning

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/factor"
)

// Scope is one factor's state and action variable scopes (σ_f and α_f).
type Scope struct {
	StateKeys  []int
	ActionKeys []int
}

// QFunction is the dense factored value table of spec.md §4.8: one
// []float64 table per factor, indexed by the mixed-radix encoding of that
// factor's (state scope, action scope) joint assignment. Factor adjacency
// is tracked with the same factor.Graph used by the coordination solvers,
// keyed by each scope's combined (state ++ offset action) variable tuple,
// so the same lookup-by-keys machinery backs both the learning loop and
// the planning-time coordination graphs it feeds.
type QFunction struct {
	stateSizes  assign.Sizes
	actionSizes assign.Sizes
	scopes      []Scope
	g           *factor.Graph
	tables      [][]float64
}

// New constructs a QFunction with one zero-initialized table per scope.
func New(stateSizes, actionSizes assign.Sizes, scopes []Scope) *QFunction {
	q := &QFunction{
		stateSizes:  stateSizes,
		actionSizes: actionSizes,
		scopes:      scopes,
		g:           factor.NewGraph(len(stateSizes) + len(actionSizes)),
		tables:      make([][]float64, len(scopes)),
	}
	for i, sc := range scopes {
		combined := append(append([]int(nil), sc.StateKeys...), offset(sc.ActionKeys, len(stateSizes))...)
		fi, _ := q.g.GetOrCreate(combined)
		domain := stateSizes.Select(sc.StateKeys).Domain() * actionSizes.Select(sc.ActionKeys).Domain()
		q.tables[i] = make([]float64, domain)
		q.g.Factor(fi).Payload = i
	}
	return q
}

func offset(keys []int, by int) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k + by
	}
	return out
}

func (q *QFunction) localIndex(f int, s, a []int) int {
	sc := q.scopes[f]
	sLocal := assign.Project(s, sc.StateKeys).Values
	aLocal := assign.Project(a, sc.ActionKeys).Values
	sIdx := q.stateSizes.Select(sc.StateKeys).Index(sLocal)
	aDomain := q.actionSizes.Select(sc.ActionKeys).Domain()
	aIdx := q.actionSizes.Select(sc.ActionKeys).Index(aLocal)
	return sIdx*aDomain + aIdx
}

// Value returns Q_f(s,a) for factor f.
func (q *QFunction) Value(f int, s, a []int) float64 {
	return q.tables[f][q.localIndex(f, s, a)]
}

func (q *QFunction) setValue(f int, s, a []int, v float64) {
	q.tables[f][q.localIndex(f, s, a)] = v
}

// NumFactors returns the number of Q-table factors.
func (q *QFunction) NumFactors() int { return len(q.scopes) }

// factorsTouching returns the indices (into scopes) of every factor whose
// action scope contains agent v, found via the underlying factor graph's
// adjacency list for v's combined variable index.
func (q *QFunction) factorsTouching(v int) []int {
	combinedV := v + len(q.stateSizes)
	var out []int
	for _, fi := range q.g.Neighbors(combinedV) {
		out = append(out, q.g.Factor(fi).Payload.(int))
	}
	return out
}

// greedyJointAction runs Local Search over every factor's table, evaluated
// at fixed state s, to find a (locally) value-maximizing joint action.
func (q *QFunction) greedyJointAction(s []int, rng *rand.Rand) []int {
	numActionVars := len(q.actionSizes)
	a := make([]int, numActionVars)
	for i, sz := range q.actionSizes {
		a[i] = rng.Intn(sz)
	}

	order := make([]int, numActionVars)
	for i := range order {
		order[i] = i
	}

	for {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		improved := false
		for _, v := range order {
			best := a[v]
			bestVal := q.localActionValue(s, a, v, a[v])
			for val := 0; val < q.actionSizes[v]; val++ {
				if val == a[v] {
					continue
				}
				cand := q.localActionValue(s, a, v, val)
				if cand > bestVal {
					bestVal, best = cand, val
				}
			}
			if best != a[v] {
				a[v] = best
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return a
}

func (q *QFunction) localActionValue(s, a []int, v, val int) float64 {
	total := 0.0
	for _, f := range q.factorsTouching(v) {
		cand := append([]int(nil), a...)
		cand[v] = val
		total += q.Value(f, s, cand)
	}
	return total
}

// SelectAction returns the ε-greedy next joint action at state s.
func (q *QFunction) SelectAction(s []int, epsilon float64, rng *rand.Rand) []int {
	if rng.Float64() < epsilon {
		a := make([]int, len(q.actionSizes))
		for i, sz := range q.actionSizes {
			a[i] = rng.Intn(sz)
		}
		return a
	}
	return q.greedyJointAction(s, rng)
}

// Update applies one cooperative Q-learning step for transition
// (s, a, sPrime, rVec), where rVec has one component per agent (action
// variable), using the next joint action aPrime (typically obtained via
// SelectAction at sPrime), learning rate alpha and discount gamma.
func (q *QFunction) Update(s, a, sPrime, aPrime []int, rVec []float64, alpha, gamma float64) {
	numAgents := len(q.actionSizes)
	residual := make([]float64, numAgents)

	for v := 0; v < numAgents; v++ {
		touching := q.factorsTouching(v)
		cv := len(touching)
		if cv == 0 {
			continue
		}
		r := rVec[v] / float64(cv)
		for _, f := range touching {
			alphaF := len(q.scopes[f].ActionKeys)
			r += (gamma / float64(alphaF)) * q.Value(f, sPrime, aPrime)
			r -= q.Value(f, s, a) / float64(alphaF)
		}
		residual[v] = r
	}

	for f, sc := range q.scopes {
		delta := 0.0
		for _, v := range sc.ActionKeys {
			delta += residual[v]
		}
		cur := q.Value(f, s, a)
		q.setValue(f, s, a, cur+alpha*delta)
	}
}
