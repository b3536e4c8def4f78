package ve

import (
	"math"

	"github.com/samuelfneumann/aitoolbox/assign"
)

// UCVEPoint is a 2-vector (mean, inverse-weighted-count) payload carried by
// Upper-Confidence VE (spec.md §4.4.3), plus its tag.
type UCVEPoint struct {
	Mean      float64
	InvWeight float64
	Tag       assign.Partial
}

// Phi is the acquisition function φ(v) = v.Mean + sqrt(0.5 * v.InvWeight *
// logTerm), logTerm = log(t*|A|) per spec.md §4.4.3 / §8 invariant 5.
func Phi(p UCVEPoint, logTerm float64) float64 {
	return p.Mean + math.Sqrt(0.5*p.InvWeight*logTerm)
}

// UCVEResult is the single action UCVE returns together with its
// accumulated 2-vector.
type UCVEResult struct {
	Action []int
	Value  [2]float64 // {mean, inverseWeightedCount}
}

func addUCVE(a, b UCVEPoint, tag assign.Partial) UCVEPoint {
	return UCVEPoint{Mean: a.Mean + b.Mean, InvWeight: a.InvWeight + b.InvWeight, Tag: tag}
}

func minkowskiSumUCVE(a, b []UCVEPoint) []UCVEPoint {
	out := make([]UCVEPoint, 0, len(a)*len(b))
	for _, pa := range a {
		for _, pb := range b {
			tag, ok := assign.Merge(pa.Tag, pb.Tag)
			if !ok {
				continue
			}
			out = append(out, addUCVE(pa, pb, tag))
		}
	}
	return out
}

// pruneUCVE removes every point u for which there exists another point v
// with v.Mean >= u.Mean AND φ(v) >= φ(u) (dominated in both mean and
// optimistic value), per spec.md §4.4.3's branch-and-bound pruning.
func pruneUCVE(points []UCVEPoint, logTerm float64) []UCVEPoint {
	phis := make([]float64, len(points))
	for i, p := range points {
		phis[i] = Phi(p, logTerm)
	}
	kept := make([]UCVEPoint, 0, len(points))
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i == j {
				continue
			}
			if q.Mean >= p.Mean && phis[j] >= phis[i] {
				if q.Mean == p.Mean && phis[j] == phis[i] && j > i {
					continue // keep first-seen among exact ties
				}
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, p)
		}
	}
	return kept
}

type ucveCombiner struct {
	numVars   int
	variable  int
	logTerm   float64
	acc       []UCVEPoint
	perValSet []UCVEPoint
}

func (c *ucveCombiner) BeginRemoval(v int) { c.variable = v }

func (c *ucveCombiner) InitNewFactor() { c.acc = nil }

func (c *ucveCombiner) BeginCrossSum(val int) {
	c.perValSet = []UCVEPoint{{
		Tag: assign.Partial{Keys: []int{c.variable}, Values: []int{val}},
	}}
}

func (c *ucveCombiner) CrossSum(payload any) {
	c.perValSet = minkowskiSumUCVE(c.perValSet, payload.([]UCVEPoint))
}

func (c *ucveCombiner) EndCrossSum() {
	c.acc = pruneUCVE(append(c.acc, c.perValSet...), c.logTerm)
}

func (c *ucveCombiner) IsValidNewFactor() bool { return len(c.acc) > 0 }

func (c *ucveCombiner) CurrentFactor() any { return c.acc }

func (c *ucveCombiner) MergeFactors(acc, other any) any {
	return pruneUCVE(minkowskiSumUCVE(acc.([]UCVEPoint), other.([]UCVEPoint)), c.logTerm)
}

func (c *ucveCombiner) MakeResult(final any) any {
	if final == nil {
		return UCVEResult{Action: make([]int, c.numVars)}
	}
	points := final.([]UCVEPoint)
	best := points[0]
	bestPhi := Phi(best, c.logTerm)
	for _, p := range points[1:] {
		if phi := Phi(p, c.logTerm); phi > bestPhi {
			best, bestPhi = p, phi
		}
	}
	return UCVEResult{Action: best.Tag.Full(c.numVars, 0), Value: [2]float64{best.Mean, best.InvWeight}}
}

// SolveUCVE runs Upper-Confidence Variable Elimination (spec.md §4.4.3)
// over rules whose payloads are [2]float64{mean, inverseWeightedCount},
// using acquisition log-term logTerm = log(t*|A|), and returns the action
// maximizing φ together with its accumulated 2-vector.
func SolveUCVE(numVars int, sizes assign.Sizes, rules []Rule, logTerm float64) UCVEResult {
	wrap := func(p any) any {
		v := p.([2]float64)
		return []UCVEPoint{{Mean: v[0], InvWeight: v[1]}}
	}
	zero := func() any {
		return []UCVEPoint{{}}
	}
	g := buildGraph(numVars, sizes, rules, wrap, zero)

	c := &ucveCombiner{numVars: numVars, logTerm: logTerm}
	res := Run(g, sizes, c)
	return res.(UCVEResult)
}
