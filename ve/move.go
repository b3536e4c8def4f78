package ve

import "github.com/samuelfneumann/aitoolbox/assign"

// ParetoPoint is one point of a Pareto frontier accumulated by
// Multi-Objective VE (spec.md §4.4.2): a reward vector (one component per
// reward scope/objective) together with the tag recording which actions
// produced it.
type ParetoPoint struct {
	Reward []float64
	Tag    assign.Partial
}

// dominatesVec reports whether a dominates b: a[i] >= b[i] for every i, with
// at least one strict inequality.
func dominatesVec(a, b []float64) bool {
	strict := false
	for i := range a {
		if a[i] < b[i] {
			return false
		}
		if a[i] > b[i] {
			strict = true
		}
	}
	return strict
}

// pruneParetoPoints returns a new slice holding the non-dominated points,
// in their original order, keeping the first occurrence among equal points.
func pruneParetoPoints(points []ParetoPoint) []ParetoPoint {
	kept := make([]ParetoPoint, 0, len(points))
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i == j {
				continue
			}
			if dominatesVec(q.Reward, p.Reward) {
				dominated = true
				break
			}
			// Tie-break: an identical earlier point keeps p out.
			if j < i && equalVec(q.Reward, p.Reward) {
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

func equalVec(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func addVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// minkowskiSum computes the cross-sum (pairwise addition, tag
// concatenation) of two Pareto frontiers.
func minkowskiSum(a, b []ParetoPoint) []ParetoPoint {
	out := make([]ParetoPoint, 0, len(a)*len(b))
	for _, pa := range a {
		for _, pb := range b {
			tag, ok := assign.Merge(pa.Tag, pb.Tag)
			if !ok {
				continue
			}
			out = append(out, ParetoPoint{Reward: addVec(pa.Reward, pb.Reward), Tag: tag})
		}
	}
	return out
}

// MOVEResult is the full non-dominated frontier MOVE returns.
type MOVEResult struct {
	Frontier []ParetoPoint
}

type moveCombiner struct {
	numVars   int
	variable  int
	numObj    int
	acc       []ParetoPoint
	perValSet []ParetoPoint
}

func (c *moveCombiner) BeginRemoval(v int) { c.variable = v }

func (c *moveCombiner) InitNewFactor() { c.acc = nil }

func (c *moveCombiner) BeginCrossSum(val int) {
	c.perValSet = []ParetoPoint{{
		Reward: make([]float64, c.numObj),
		Tag:    assign.Partial{Keys: []int{c.variable}, Values: []int{val}},
	}}
}

func (c *moveCombiner) CrossSum(payload any) {
	c.perValSet = minkowskiSum(c.perValSet, payload.([]ParetoPoint))
}

func (c *moveCombiner) EndCrossSum() {
	c.acc = pruneParetoPoints(append(c.acc, c.perValSet...))
}

func (c *moveCombiner) IsValidNewFactor() bool { return len(c.acc) > 0 }

func (c *moveCombiner) CurrentFactor() any { return c.acc }

func (c *moveCombiner) MergeFactors(acc, other any) any {
	return pruneParetoPoints(minkowskiSum(acc.([]ParetoPoint), other.([]ParetoPoint)))
}

func (c *moveCombiner) MakeResult(final any) any {
	if final == nil {
		return MOVEResult{}
	}
	return MOVEResult{Frontier: final.([]ParetoPoint)}
}

// SolveMOVE runs Multi-Objective Variable Elimination (spec.md §4.4.2) over
// rules whose payloads are []float64 reward vectors of length numObjectives,
// returning the whole non-dominated Pareto frontier over complete joint
// actions.
func SolveMOVE(numVars, numObjectives int, sizes assign.Sizes, rules []Rule) MOVEResult {
	wrap := func(p any) any {
		return []ParetoPoint{{Reward: p.([]float64)}}
	}
	zero := func() any {
		return []ParetoPoint{{Reward: make([]float64, numObjectives)}}
	}
	g := buildGraph(numVars, sizes, rules, wrap, zero)

	c := &moveCombiner{numVars: numVars, numObj: numObjectives}
	res := Run(g, sizes, c)
	return res.(MOVEResult)
}
