// Package cpsqueue implements the Cooperative Prioritized Sweeping Queue of
// spec.md §4.7: per (next-variable, local action, parent configuration) a
// priority, with cached per-(i,a) and per-i argmax entries, and a
// stochastic Reconstruct that recovers a high-priority (s,a) pair without
// solving the NP-hard global-maximum-compatible-tuple problem.
package cpsqueue

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
)

type varEntry struct {
	actionKeys  []int   // action-variable indices local action a ranges over
	parentKeys  [][]int // per local action a, the state-variable parent scope
	priorities  [][]float64
	bestP       []int     // per local action a: argmax parent index
	bestPVal    []float64 // per local action a: that priority value
	bestA       int
	bestVal     float64
}

// Queue is a CPS-queue over a fixed set of next-variables.
type Queue struct {
	stateSizes  assign.Sizes
	actionSizes assign.Sizes
	vars        []*varEntry
	nonzero     int
}

// New constructs a Queue. actionKeys[i] is the action-variable scope
// variable i's local action ranges over; parentKeys[i][a] is the
// state-variable parent scope for local action a of variable i.
func New(stateSizes, actionSizes assign.Sizes, actionKeys [][]int, parentKeys [][][]int) *Queue {
	q := &Queue{stateSizes: stateSizes, actionSizes: actionSizes}
	q.vars = make([]*varEntry, len(actionKeys))
	for i := range actionKeys {
		numA := actionSizes.Select(actionKeys[i]).Domain()
		ve := &varEntry{
			actionKeys: append([]int(nil), actionKeys[i]...),
			parentKeys: make([][]int, numA),
			priorities: make([][]float64, numA),
			bestP:      make([]int, numA),
			bestPVal:   make([]float64, numA),
		}
		for a := 0; a < numA; a++ {
			ve.parentKeys[a] = append([]int(nil), parentKeys[i][a]...)
			domain := stateSizes.Select(parentKeys[i][a]).Domain()
			if domain == 0 {
				domain = 1
			}
			ve.priorities[a] = make([]float64, domain)
		}
		q.vars[i] = ve
	}
	return q
}

func (ve *varEntry) refreshAction(a int) {
	best, bestVal := 0, ve.priorities[a][0]
	for p, v := range ve.priorities[a] {
		if v > bestVal {
			best, bestVal = p, v
		}
	}
	ve.bestP[a], ve.bestPVal[a] = best, bestVal
}

func (ve *varEntry) refreshVar() {
	best, bestVal := 0, ve.bestPVal[0]
	for a, v := range ve.bestPVal {
		if v > bestVal {
			best, bestVal = a, v
		}
	}
	ve.bestA, ve.bestVal = best, bestVal
}

// Update applies priorities[i][a][sParentsIndex] += delta and refreshes the
// per-(i,a) and per-i caches.
func (q *Queue) Update(i, a, sParentsIndex int, delta float64) {
	ve := q.vars[i]
	before := ve.priorities[a][sParentsIndex]
	after := before + delta
	ve.priorities[a][sParentsIndex] = after

	switch {
	case before <= 0 && after > 0:
		q.nonzero++
	case before > 0 && after <= 0:
		q.nonzero--
	}

	ve.refreshAction(a)
	ve.refreshVar()
}

// NonzeroPriorities returns the number of entries with positive priority.
func (q *Queue) NonzeroPriorities() int { return q.nonzero }

const unconstrained = -1

// Reconstruct picks the variable i* with the highest per-variable cached
// priority, commits its argmax (a*, parent assignment p*), then randomly
// visits the remaining variables: using their best stored (a, parent)
// choice if it is consistent with what has already been committed, or
// else a random local action and the best parent assignment consistent
// with committed values under that action. Unconstrained components are
// returned with value equal to the variable's domain size.
func (q *Queue) Reconstruct(rng *rand.Rand) (s, a []int) {
	s = make([]int, len(q.stateSizes))
	a = make([]int, len(q.actionSizes))
	for i := range s {
		s[i] = unconstrained
	}
	for i := range a {
		a[i] = unconstrained
	}

	numVars := len(q.vars)
	if numVars == 0 {
		return finalize(s, q.stateSizes), finalize(a, q.actionSizes)
	}

	// Pick i* with the highest per-variable cached priority.
	iStar := 0
	bestVal := q.vars[0].bestVal
	for i := 1; i < numVars; i++ {
		if q.vars[i].bestVal > bestVal {
			iStar, bestVal = i, q.vars[i].bestVal
		}
	}
	commit(q, s, a, iStar, q.vars[iStar].bestA, q.vars[iStar].bestP[q.vars[iStar].bestA])

	order := make([]int, 0, numVars-1)
	for i := 0; i < numVars; i++ {
		if i != iStar {
			order = append(order, i)
		}
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, j := range order {
		ve := q.vars[j]
		if consistent(q, s, a, j, ve.bestA, ve.bestP[ve.bestA]) {
			commit(q, s, a, j, ve.bestA, ve.bestP[ve.bestA])
			continue
		}

		ar := randomConsistentAction(q, a, j, rng)
		pr := bestConsistentParent(q, s, j, ar)
		commit(q, s, a, j, ar, pr)
	}

	return finalize(s, q.stateSizes), finalize(a, q.actionSizes)
}

func consistent(q *Queue, s, a []int, i, aIdx, pIdx int) bool {
	ve := q.vars[i]
	actionVals := q.actionSizes.Select(ve.actionKeys).Decode(aIdx)
	for k, key := range ve.actionKeys {
		if a[key] != unconstrained && a[key] != actionVals[k] {
			return false
		}
	}
	parentVals := q.stateSizes.Select(ve.parentKeys[aIdx]).Decode(pIdx)
	for k, key := range ve.parentKeys[aIdx] {
		if s[key] != unconstrained && s[key] != parentVals[k] {
			return false
		}
	}
	return true
}

// randomConsistentAction picks, uniformly at random, a local action for
// variable i that agrees with every already-committed action-variable
// value on i's action scope. Falls back to a uniformly random local
// action (ignoring consistency) only if none agree, which cannot happen
// for a full action-variable domain but guards against a caller-supplied
// degenerate scope.
func randomConsistentAction(q *Queue, a []int, i int, rng *rand.Rand) int {
	ve := q.vars[i]
	actionSizes := q.actionSizes.Select(ve.actionKeys)
	var candidates []int
	for ar := range ve.priorities {
		vals := actionSizes.Decode(ar)
		ok := true
		for k, key := range ve.actionKeys {
			if a[key] != unconstrained && a[key] != vals[k] {
				ok = false
				break
			}
		}
		if ok {
			candidates = append(candidates, ar)
		}
	}
	if len(candidates) == 0 {
		return rng.Intn(len(ve.priorities))
	}
	return candidates[rng.Intn(len(candidates))]
}

// bestConsistentParent scans variable i's parent priorities for local
// action aIdx and returns the highest-priority parent index that agrees
// with already-committed state values, defaulting to the global best if
// none are constrained.
func bestConsistentParent(q *Queue, s []int, i, aIdx int) int {
	ve := q.vars[i]
	parentSizes := q.stateSizes.Select(ve.parentKeys[aIdx])
	best, bestVal := -1, 0.0
	for p, v := range ve.priorities[aIdx] {
		vals := parentSizes.Decode(p)
		ok := true
		for k, key := range ve.parentKeys[aIdx] {
			if s[key] != unconstrained && s[key] != vals[k] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if best == -1 || v > bestVal {
			best, bestVal = p, v
		}
	}
	if best == -1 {
		best = ve.bestP[aIdx]
	}
	return best
}

func commit(q *Queue, s, a []int, i, aIdx, pIdx int) {
	ve := q.vars[i]
	actionVals := q.actionSizes.Select(ve.actionKeys).Decode(aIdx)
	for k, key := range ve.actionKeys {
		a[key] = actionVals[k]
	}
	parentVals := q.stateSizes.Select(ve.parentKeys[aIdx]).Decode(pIdx)
	for k, key := range ve.parentKeys[aIdx] {
		s[key] = parentVals[k]
	}
}

func finalize(vals []int, sizes assign.Sizes) []int {
	out := make([]int, len(vals))
	for i, v := range vals {
		if v == unconstrained {
			out[i] = sizes[i]
		} else {
			out[i] = v
		}
	}
	return out
}
