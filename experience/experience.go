// Package experience implements the rolling-statistics structures of
// spec.md §4.5: per-action online mean/variance/visit-count, in both a
// single-agent and a factored shape. Updates use Welford's recurrence
// (spec.md §3 "Rolling statistics per factor"): n += 1; δ = r - μ; μ +=
// δ/n; M2 += δ*(r - μ).
package experience

import "github.com/samuelfneumann/aitoolbox/assign"

func welford(mean, m2 *float64, n *int, r float64) {
	*n++
	delta := r - *mean
	*mean += delta / float64(*n)
	*m2 += delta * (r - *mean)
}

// Variance returns the unbiased sample variance m2/(n-1), or 0 if fewer
// than two samples have been recorded.
func Variance(m2 float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return m2 / float64(n-1)
}

// SingleAgent tracks per-action rolling statistics for a flat (non-factored)
// bandit or MDP action set.
type SingleAgent struct {
	mean []float64
	m2   []float64
	n    []int
}

// NewSingleAgent returns a SingleAgent over numActions actions, all
// counters zeroed.
func NewSingleAgent(numActions int) *SingleAgent {
	return &SingleAgent{
		mean: make([]float64, numActions),
		m2:   make([]float64, numActions),
		n:    make([]int, numActions),
	}
}

// Record applies the Welford update for action a having observed reward r.
func (s *SingleAgent) Record(a int, r float64) {
	welford(&s.mean[a], &s.m2[a], &s.n[a], r)
}

// Mean returns the running mean reward for action a.
func (s *SingleAgent) Mean(a int) float64 { return s.mean[a] }

// M2 returns the running sum-of-squared-deviations for action a.
func (s *SingleAgent) M2(a int) float64 { return s.m2[a] }

// N returns the visit count for action a.
func (s *SingleAgent) N(a int) int { return s.n[a] }

// Variance returns the unbiased sample variance of the rewards observed
// for action a.
func (s *SingleAgent) Variance(a int) float64 { return Variance(s.m2[a], s.n[a]) }

// NumActions returns the number of tracked actions.
func (s *SingleAgent) NumActions() int { return len(s.mean) }

// Factored tracks rolling statistics for a set of factors, each over a
// local joint-action scope (a subset of the global action variables).
// Record() identifies, for a full joint action, the local index within
// each factor's table and applies Welford to that factor's corresponding
// reward component.
type Factored struct {
	keys  [][]int
	sizes []assign.Sizes
	mean  [][]float64
	m2    [][]float64
	n     [][]int
}

// NewFactored returns a Factored experience tracker with one rolling-stats
// table per entry of scopeKeys, each table sized to the product of
// actionSizes restricted to that scope.
func NewFactored(actionSizes assign.Sizes, scopeKeys [][]int) *Factored {
	f := &Factored{
		keys:  make([][]int, len(scopeKeys)),
		sizes: make([]assign.Sizes, len(scopeKeys)),
		mean:  make([][]float64, len(scopeKeys)),
		m2:    make([][]float64, len(scopeKeys)),
		n:     make([][]int, len(scopeKeys)),
	}
	for i, keys := range scopeKeys {
		f.keys[i] = append([]int(nil), keys...)
		f.sizes[i] = actionSizes.Select(keys)
		domain := f.sizes[i].Domain()
		f.mean[i] = make([]float64, domain)
		f.m2[i] = make([]float64, domain)
		f.n[i] = make([]int, domain)
	}
	return f
}

// NumFactors returns the number of tracked factor scopes.
func (f *Factored) NumFactors() int { return len(f.keys) }

// Keys returns the action-variable scope of factor i.
func (f *Factored) Keys(i int) []int { return f.keys[i] }

// Domain returns the number of local joint actions factor i's scope admits.
func (f *Factored) Domain(i int) int { return len(f.mean[i]) }

// LocalIndex projects a full joint action onto factor i's scope and
// returns the corresponding flat index into its tables.
func (f *Factored) LocalIndex(i int, jointAction []int) int {
	local := assign.Project(jointAction, f.keys[i]).Values
	return f.sizes[i].Index(local)
}

// LocalAssignment decodes factor i's local index idx back into the
// per-variable values, in the same order as Keys(i), that produced it.
func (f *Factored) LocalAssignment(i, idx int) []int {
	return f.sizes[i].Decode(idx)
}

// Record applies the Welford update to every factor, using jointAction to
// find each factor's local index and rewards[i] as that factor's observed
// reward component.
func (f *Factored) Record(jointAction []int, rewards []float64) {
	for i := range f.keys {
		idx := f.LocalIndex(i, jointAction)
		welford(&f.mean[i][idx], &f.m2[i][idx], &f.n[i][idx], rewards[i])
	}
}

// Mean returns the running mean of factor i at local index idx.
func (f *Factored) Mean(i, idx int) float64 { return f.mean[i][idx] }

// M2 returns the running sum-of-squared-deviations of factor i at local
// index idx.
func (f *Factored) M2(i, idx int) float64 { return f.m2[i][idx] }

// N returns the visit count of factor i at local index idx.
func (f *Factored) N(i, idx int) int { return f.n[i][idx] }

// Variance returns the unbiased sample variance of factor i at local
// index idx.
func (f *Factored) Variance(i, idx int) float64 { return Variance(f.m2[i][idx], f.n[i][idx]) }
