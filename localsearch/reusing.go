package localsearch

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/factor"
)

// ReusingILS implements Reusing Iterative Local Search (spec.md §4.4.4): it
// keeps the last-best assignment across calls to Run and uses it to seed
// future trials, either via a full random reset or a local perturbation.
type ReusingILS struct {
	g     *factor.Graph
	sizes assign.Sizes
	rng   *rand.Rand

	trialNum                   int
	resetActionProbability     float64
	randomizeFactorProbability float64

	incumbent    []int
	incumbentVal float64
	have         bool
}

// NewReusingILS constructs a ReusingILS over g. trialNum is the number of
// Local Search invocations per call to Run; resetActionProbability is the
// chance a trial reseeds from a uniform random assignment instead of
// perturbing the incumbent; randomizeFactorProbability is, per perturbed
// trial, the chance each factor's local variables are randomized.
func NewReusingILS(g *factor.Graph, sizes assign.Sizes, rng *rand.Rand,
	trialNum int, resetActionProbability, randomizeFactorProbability float64) *ReusingILS {
	return &ReusingILS{
		g:                           g,
		sizes:                       sizes,
		rng:                         rng,
		trialNum:                    trialNum,
		resetActionProbability:     resetActionProbability,
		randomizeFactorProbability: randomizeFactorProbability,
	}
}

// Incumbent returns the best assignment found so far and its value, and
// whether any call to Run has completed yet.
func (r *ReusingILS) Incumbent() ([]int, float64, bool) {
	return r.incumbent, r.incumbentVal, r.have
}

// Run performs trialNum Local Search trials, updating and returning the
// incumbent whenever a trial strictly improves on it.
func (r *ReusingILS) Run() ([]int, float64) {
	for i := 0; i < r.trialNum; i++ {
		var seed []int
		if !r.have || r.rng.Float64() < r.resetActionProbability {
			seed = randomAssignment(r.sizes, r.rng)
		} else {
			seed = append([]int(nil), r.incumbent...)
			for _, fi := range r.g.Factors() {
				if r.rng.Float64() >= r.randomizeFactorProbability {
					continue
				}
				node := r.g.Factor(fi)
				for _, k := range node.Keys {
					seed[k] = r.rng.Intn(r.sizes[k])
				}
			}
		}

		result, val := Run(r.g, r.sizes, seed, r.rng)
		if !r.have || val > r.incumbentVal {
			r.incumbent, r.incumbentVal, r.have = result, val, true
		}
	}
	return r.incumbent, r.incumbentVal
}
