// Package policy implements the action-selection strategies of spec.md
// §4.9: Q-greedy, Q-softmax and ε-greedy over a flat per-action value
// vector, plus the factored exploration policies MAUCE, LLR and Thompson
// sampling, which read per-factor rolling statistics
// (experience.Factored) and invoke the ve package's coordination solvers
// (ve.Solve / ve.SolveUCVE) to pick a joint action, the same way
// coopqlearning.greedyJointAction coordinates over its Q-table factor
// graph. Selection follows the teacher's EGreedy pattern
// (agent/linear/discrete/policy/EGreedy.go): compute action values, break
// ties uniformly at random via an explicit *rand.Rand field.
package policy

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/experience"
	"github.com/samuelfneumann/aitoolbox/utils/floatutils"
	"github.com/samuelfneumann/aitoolbox/ve"
)

// Greedy selects uniformly at random among the maximum-valued actions.
func Greedy(values []float64, rng *rand.Rand) int {
	max := floatutils.ArgMax(values...)
	return max[rng.Intn(len(max))]
}

// EGreedy selects a uniformly random action with probability epsilon, and
// otherwise a Greedy action.
func EGreedy(values []float64, epsilon float64, rng *rand.Rand) int {
	if rng.Float64() < epsilon {
		return rng.Intn(len(values))
	}
	return Greedy(values, rng)
}

// Softmax samples an action proportionally to exp(values[a]/temperature).
func Softmax(values []float64, temperature float64, rng *rand.Rand) int {
	maxV, _ := floatutils.MaxSlice(values)
	weights := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		w := math.Exp((v - maxV) / temperature)
		weights[i] = w
		sum += w
	}
	u := rng.Float64() * sum
	cum := 0.0
	for i, w := range weights {
		cum += w
		if u < cum {
			return i
		}
	}
	return len(values) - 1
}

// factorRules builds one ve.Rule per local joint action tracked by
// factor i of stats, tagging each with stats' action-variable scope for
// that factor and a payload computed by value.
func factorRules(stats *experience.Factored, i int, value func(idx int) any) []ve.Rule {
	domain := stats.Domain(i)
	keys := stats.Keys(i)
	rules := make([]ve.Rule, domain)
	for idx := 0; idx < domain; idx++ {
		rules[idx] = ve.Rule{
			Assignment: assign.NewPartial(keys, stats.LocalAssignment(i, idx)),
			Payload:    value(idx),
		}
	}
	return rules
}

// LLR implements the factored upper-confidence bandit of spec.md §4.9:
// every tracked (factor, local joint action) gets rule value
// μ + √((L+1)·ln(t)/n), L = 1 (the number of simultaneous actions this
// implementation allows), with unvisited entries (n == 0) optimistically
// infinite; VE then picks the joint action maximizing their sum.
func LLR(stats *experience.Factored, numVars int, actionSizes assign.Sizes, t int) (ve.Result, error) {
	const l = 1
	logT := math.Log(float64(t))
	var rules []ve.Rule
	for fi := 0; fi < stats.NumFactors(); fi++ {
		i := fi
		rules = append(rules, factorRules(stats, i, func(idx int) any {
			n := stats.N(i, idx)
			if n == 0 {
				return math.Inf(1)
			}
			return stats.Mean(i, idx) + math.Sqrt(float64(l+1)*logT/float64(n))
		})...)
	}
	return ve.Solve(numVars, actionSizes, rules)
}

// MAUCE implements the variance-range UCVE bandit of spec.md §4.9: every
// tracked (factor, local joint action) carries a 2-vector (mean,
// range²/n), where rangeSq[i] is factor i's caller-supplied reward range
// bound (trusted as-is, never checked against observed rewards), and
// UCVE is invoked with log-term log(t·|A|) to pick the joint action
// maximizing φ.
func MAUCE(stats *experience.Factored, numVars int, actionSizes assign.Sizes, rangeSq []float64, t int) ve.UCVEResult {
	logTerm := math.Log(float64(t) * float64(actionSizes.Domain()))
	var rules []ve.Rule
	for fi := 0; fi < stats.NumFactors(); fi++ {
		i := fi
		rules = append(rules, factorRules(stats, i, func(idx int) any {
			n := stats.N(i, idx)
			if n == 0 {
				return [2]float64{0, math.Inf(1)}
			}
			return [2]float64{stats.Mean(i, idx), rangeSq[i] / float64(n)}
		})...)
	}
	return ve.SolveUCVE(numVars, actionSizes, rules, logTerm)
}

// Thompson implements factored Thompson sampling of spec.md §4.9: every
// tracked (factor, local joint action) draws one mean sample from its
// Student's-t posterior (μ, σ²≈M₂/n, ν=n−1) — unvisited entries (n < 2)
// fall back to their raw mean, since the posterior is undefined below two
// samples — building a Q-like rule set that VE then coordinates over.
func Thompson(stats *experience.Factored, numVars int, actionSizes assign.Sizes, rng *rand.Rand) (ve.Result, error) {
	var rules []ve.Rule
	for fi := 0; fi < stats.NumFactors(); fi++ {
		i := fi
		rules = append(rules, factorRules(stats, i, func(idx int) any {
			n := stats.N(i, idx)
			mean := stats.Mean(i, idx)
			if n < 2 {
				return mean
			}
			sigma2 := stats.M2(i, idx) / float64(n)
			dist := distuv.StudentsT{Mu: mean, Sigma: math.Sqrt(sigma2 / float64(n)), Nu: float64(n - 1), Src: rng}
			return dist.Rand()
		})...)
	}
	return ve.Solve(numVars, actionSizes, rules)
}
