// Package belief implements the POMDP belief vector of spec.md §3: a
// length-|S| probability distribution updated by forward recursion.
package belief

import "github.com/samuelfneumann/aitoolbox/coreerr"

// Belief is a probability distribution over states.
type Belief []float64

// New returns a uniform belief over n states.
func New(n int) Belief {
	b := make(Belief, n)
	u := 1.0 / float64(n)
	for i := range b {
		b[i] = u
	}
	return b
}

// TransitionProb gives T(s,a,s'); ObservationProb gives O(s',a,o). Both
// are supplied by the ground model (model.POMDP).
type TransitionProb func(s, a, sPrime int) float64
type ObservationProb func(sPrime, a, o int) float64

// Update computes b'(s') ∝ O(s',a,o) · Σ_s T(s,a,s')·b(s), normalizing the
// result. Returns InvalidObservation if the normalizer is zero (o is
// impossible from b under a).
func Update(b Belief, a, o int, numStates int, t TransitionProb, obs ObservationProb) (Belief, error) {
	next := make(Belief, numStates)
	total := 0.0
	for sp := 0; sp < numStates; sp++ {
		sum := 0.0
		for s, p := range b {
			sum += t(s, a, sp) * p
		}
		v := obs(sp, a, o) * sum
		next[sp] = v
		total += v
	}
	if total == 0 {
		return nil, coreerr.New("belief.Update", coreerr.InvalidObservation, nil)
	}
	for i := range next {
		next[i] /= total
	}
	return next, nil
}
