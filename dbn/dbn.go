// Package dbn implements the Dynamic Bayesian Network / factored transition
// model of spec.md §4.6: per next-state variable, a parent scope and a
// row-stochastic conditional probability table keyed by local joint action,
// with a parallel reward-accumulation table.
package dbn

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/coreerr"
)

// Conditional is one (next-variable, local-action) entry: the previous-
// timestep parent scope it depends on, its row-stochastic transition table
// (parentDomain rows x stateSize columns) and a parallel accumulated-then-
// averaged reward table of identical shape.
type Conditional struct {
	ParentKeys []int
	Table      []float64 // len == parentDomain*stateSize, row-major
	Reward     []float64 // same shape, accumulated-then-averaged

	counts    []float64 // raw visit counts, same shape as Table
	rewardSum []float64 // raw reward sums, same shape as Reward
	visits    []int     // per-row visit totals, len == parentDomain
}

// NewConditional allocates a Conditional over the given parent scope, with
// a uniform transition table and zero rewards.
func NewConditional(parentKeys []int, parentDomain, stateSize int) *Conditional {
	c := &Conditional{
		ParentKeys: append([]int(nil), parentKeys...),
		Table:      make([]float64, parentDomain*stateSize),
		Reward:     make([]float64, parentDomain*stateSize),
		counts:     make([]float64, parentDomain*stateSize),
		rewardSum:  make([]float64, parentDomain*stateSize),
		visits:     make([]int, parentDomain),
	}
	uniform := 1.0 / float64(stateSize)
	for i := range c.Table {
		c.Table[i] = uniform
	}
	return c
}

// NextVar is the per-next-state-variable model: which action variables
// determine its parent structure, and one Conditional per local
// assignment of those action variables.
type NextVar struct {
	StateSize    int
	ActionKeys   []int
	Conditionals []*Conditional // indexed by mixed-radix local action assignment
}

// DBN is the full factored transition model over |state| next-variables.
type DBN struct {
	StateSizes  assign.Sizes
	ActionSizes assign.Sizes
	Vars        []*NextVar
}

// New constructs a DBN with the given per-variable structure. vars[i]
// describes next-state variable i.
func New(stateSizes, actionSizes assign.Sizes, vars []*NextVar) *DBN {
	return &DBN{StateSizes: stateSizes, ActionSizes: actionSizes, Vars: vars}
}

func (d *DBN) conditional(i int, a []int) (*Conditional, int) {
	nv := d.Vars[i]
	localA := assign.Project(a, nv.ActionKeys).Values
	aIdx := d.ActionSizes.Select(nv.ActionKeys).Index(localA)
	return nv.Conditionals[aIdx], aIdx
}

func (d *DBN) parentIndex(c *Conditional, s []int) int {
	localS := assign.Project(s, c.ParentKeys).Values
	return d.StateSizes.Select(c.ParentKeys).Index(localS)
}

// SampleSPrime draws each next-state variable independently from its row
// conditional on the projection of s onto parents(i,a).
func (d *DBN) SampleSPrime(s, a []int, rng *rand.Rand) []int {
	sp := make([]int, len(d.Vars))
	for i, nv := range d.Vars {
		c, _ := d.conditional(i, a)
		pIdx := d.parentIndex(c, s)
		row := c.Table[pIdx*nv.StateSize : (pIdx+1)*nv.StateSize]
		sp[i] = sampleCategorical(row, rng)
	}
	return sp
}

func sampleCategorical(row []float64, rng *rand.Rand) int {
	u := rng.Float64()
	cum := 0.0
	for i, p := range row {
		cum += p
		if u < cum {
			return i
		}
	}
	return len(row) - 1
}

// TransitionProbability computes Πᵢ Pᵢ(s'ᵢ | s_{parents(i,a)}, a).
func (d *DBN) TransitionProbability(s, a, sp []int) float64 {
	prob := 1.0
	for i, nv := range d.Vars {
		c, _ := d.conditional(i, a)
		pIdx := d.parentIndex(c, s)
		row := c.Table[pIdx*nv.StateSize : (pIdx+1)*nv.StateSize]
		prob *= row[sp[i]]
	}
	return prob
}

// BackProject computes the back-projection of a basis function phi (over
// scope sigma, a sorted list of state-variable indices) through the DBN at
// (s, a): the pre-image scope is the union of parents(i,a) for i in sigma,
// and the value is Σ_{s'_σ} phi(s'_σ) · Πᵢ∈σ Pᵢ(s'ᵢ | s_parents(i,a), a).
func (d *DBN) BackProject(sigma []int, s, a []int, phi func(sPrimeSigma []int) float64) float64 {
	sigmaSizes := d.StateSizes.Select(sigma)
	domain := sigmaSizes.Domain()

	type rowInfo struct {
		cond  *Conditional
		pIdx  int
		size  int
	}
	rows := make([]rowInfo, len(sigma))
	for k, i := range sigma {
		nv := d.Vars[i]
		c, _ := d.conditional(i, a)
		pIdx := d.parentIndex(c, s)
		rows[k] = rowInfo{cond: c, pIdx: pIdx, size: nv.StateSize}
	}

	total := 0.0
	for idx := 0; idx < domain; idx++ {
		spSigma := sigmaSizes.Decode(idx)
		prob := 1.0
		for k, ri := range rows {
			prob *= ri.cond.Table[ri.pIdx*ri.size+spSigma[k]]
		}
		total += phi(spSigma) * prob
	}
	return total
}

// Record accumulates one observed (s, a, s'_i, r_i) transition into next-
// variable i's conditional, ready to be folded into the table by Sync.
func (d *DBN) Record(i int, s, a []int, sPrimeI int, r float64) {
	c, _ := d.conditional(i, a)
	pIdx := d.parentIndex(c, s)
	nv := d.Vars[i]
	base := pIdx * nv.StateSize
	c.counts[base+sPrimeI]++
	c.rewardSum[base+sPrimeI] += r
	c.visits[pIdx]++
}

// Sync recomputes variable i's table and reward rows from accumulated
// counts: each row is renormalized to sum to 1, and each reward entry is
// the accumulated-then-averaged reward over the counts observed at that
// entry. Rows with zero visits are left unchanged (uniform, as allocated).
func (d *DBN) Sync(i int) error {
	nv := d.Vars[i]
	for _, c := range nv.Conditionals {
		parentDomain := len(c.visits)
		for p := 0; p < parentDomain; p++ {
			if c.visits[p] == 0 {
				continue
			}
			base := p * nv.StateSize
			total := 0.0
			for k := 0; k < nv.StateSize; k++ {
				total += c.counts[base+k]
			}
			if total == 0 {
				continue
			}
			for k := 0; k < nv.StateSize; k++ {
				n := c.counts[base+k]
				c.Table[base+k] = n / total
				if n > 0 {
					c.Reward[base+k] = c.rewardSum[base+k] / n
				}
			}
		}
	}
	return nil
}

// ValidateRow returns an error if row does not sum to 1 within tol, per
// spec.md §8 invariant 2.
func ValidateRow(row []float64, tol float64) error {
	sum := 0.0
	for _, p := range row {
		if p < 0 {
			return coreerr.New("dbn.ValidateRow", coreerr.InvalidProbability, nil)
		}
		sum += p
	}
	if sum < 1-tol || sum > 1+tol {
		return coreerr.New("dbn.ValidateRow", coreerr.InvalidProbability, nil)
	}
	return nil
}
