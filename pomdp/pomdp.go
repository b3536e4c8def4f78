// Package pomdp implements the POMDP value-function backup core of
// spec.md §4.10: α-vector projections, incremental-pruning exact backups,
// point-based (PBVI) backups, and blind-policy lower bounds. Incremental
// pruning prunes via the witness LP of package witnesslp; PBVI only merges
// duplicate α-vectors, and BlindPolicy does not prune.
package pomdp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/aitoolbox/belief"
	"github.com/samuelfneumann/aitoolbox/coreerr"
	"github.com/samuelfneumann/aitoolbox/model"
	"github.com/samuelfneumann/aitoolbox/polytope"
	"github.com/samuelfneumann/aitoolbox/witnesslp"
)

// VList is an ordered list of α-vectors for one horizon.
type VList []polytope.VEntry

// ZeroHorizon returns horizon 0's VList: a single all-zero VEntry, per
// spec.md §3.
func ZeroHorizon(numStates int) VList {
	return VList{{Alpha: make([]float64, numStates), Action: 0}}
}

// projection computes τ_{a,o}(α)(s) = Σ_s' T(s,a,s')·O(s',a,o)·α(s').
func projection(m model.POMDP, a, o int, alpha []float64) []float64 {
	n := m.NumStates()
	out := make([]float64, n)
	for s := 0; s < n; s++ {
		sum := 0.0
		for sp := 0; sp < n; sp++ {
			t := m.(model.DenseMDP).TransitionProbability(s, a, sp)
			if t == 0 {
				continue
			}
			sum += t * m.ObservationProbability(sp, a, o) * alpha[sp]
		}
		out[s] = sum
	}
	return out
}

func rewardVector(m model.DenseMDP, a int) []float64 {
	n := m.NumStates()
	r := make([]float64, n)
	for s := 0; s < n; s++ {
		r[s] = m.ExpectedReward(s, a)
	}
	return r
}

func addVec(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func scaleVec(a []float64, c float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v * c
	}
	return out
}

// crossSum computes the pairwise Minkowski sum of two VLists, concatenating
// observation back-pointers (spec.md GLOSSARY "Cross-sum").
func crossSum(a, b VList) VList {
	out := make(VList, 0, len(a)*len(b))
	for _, ea := range a {
		for _, eb := range b {
			out = append(out, polytope.VEntry{
				Alpha:       addVec(ea.Alpha, eb.Alpha),
				Action:      ea.Action,
				ObsBackPtrs: append(append([]int(nil), ea.ObsBackPtrs...), eb.ObsBackPtrs...),
			})
		}
	}
	return out
}

func prune(numStates int, list VList) VList {
	return VList(witnesslp.Prune(numStates, []polytope.VEntry(list)))
}

// IncrementalPrune computes horizon h's VList from V_{h-1} via incremental
// pruning (spec.md §4.10.1): per action, fold observations into the
// candidate set one at a time with a prune after each fold, then prune the
// union across actions once more.
func IncrementalPrune(m model.POMDP, prevV VList, gamma float64) VList {
	dm := m.(model.DenseMDP)
	numStates := m.NumStates()
	numActions := m.NumActions()
	numObs := m.NumObservations()

	var all VList
	for a := 0; a < numActions; a++ {
		r := rewardVector(dm, a)
		rOverO := scaleVec(r, 1.0/float64(numObs))

		set := make(VList, len(prevV))
		for i, e := range prevV {
			tau := projection(m, a, 0, e.Alpha)
			set[i] = polytope.VEntry{
				Alpha:       addVec(rOverO, scaleVec(tau, gamma)),
				Action:      a,
				ObsBackPtrs: []int{i},
			}
		}
		set = prune(numStates, set)

		for o := 1; o < numObs; o++ {
			obsSet := make(VList, len(prevV))
			for i, e := range prevV {
				tau := projection(m, a, o, e.Alpha)
				obsSet[i] = polytope.VEntry{
					Alpha:       addVec(rOverO, scaleVec(tau, gamma)),
					Action:      a,
					ObsBackPtrs: []int{i},
				}
			}
			set = crossSum(set, obsSet)
			set = prune(numStates, set)
		}

		all = append(all, set...)
	}

	return prune(numStates, all)
}

// PBVI computes horizon h's VList via point-based backup (spec.md §4.10.2):
// for each belief point in beliefs, pick, per observation, the α in
// prevV's projections maximizing τ_{a,o}(α)·b independently (avoiding the
// full cross-sum), sum across observations into one Γ_a candidate per
// action, then keep the best-scoring action's candidate at that belief.
// Duplicate α-vectors are merged.
func PBVI(m model.POMDP, prevV VList, beliefs []belief.Belief, gamma float64) VList {
	dm := m.(model.DenseMDP)
	numActions := m.NumActions()
	numObs := m.NumObservations()

	var out VList
	seen := make(map[string]bool)

	for _, b := range beliefs {
		var bestEntry polytope.VEntry
		bestVal := math.Inf(-1)
		haveBest := false

		for a := 0; a < numActions; a++ {
			r := rewardVector(dm, a)
			alpha := r
			var backPtrs []int
			for o := 0; o < numObs; o++ {
				bestO := -1
				bestOVal := math.Inf(-1)
				var bestTau []float64
				for i, e := range prevV {
					tau := projection(m, a, o, e.Alpha)
					v := dotBelief(b, tau)
					if v > bestOVal {
						bestO, bestOVal, bestTau = i, v, tau
					}
				}
				if bestO == -1 {
					continue
				}
				alpha = addVec(alpha, scaleVec(bestTau, gamma))
				backPtrs = append(backPtrs, bestO)
			}

			v := dotBelief(b, alpha)
			if v > bestVal {
				bestVal = v
				bestEntry = polytope.VEntry{Alpha: alpha, Action: a, ObsBackPtrs: backPtrs}
				haveBest = true
			}
		}

		if !haveBest {
			continue
		}
		key := alphaKey(bestEntry.Alpha)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, bestEntry)
	}

	return out
}

func dotBelief(b belief.Belief, v []float64) float64 {
	s := 0.0
	for i, p := range b {
		s += p * v[i]
	}
	return s
}

func alphaKey(alpha []float64) string {
	buf := make([]byte, 0, len(alpha)*8)
	for _, v := range alpha {
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			buf = append(buf, byte(bits))
			bits >>= 8
		}
	}
	return string(buf)
}

// BlindPolicy computes the per-action lower-bound α-vector recurrence of
// spec.md §4.10.3: α_a ← r_a + γ·T_a·α_a iterated until the sup-norm
// change drops below tolerance, solved directly via the linear system
// (I - γ·T_a)·α_a = r_a. Returns coreerr.Unconverged if the fixed-point
// fallback exhausts its iteration budget for some action without reaching
// tolerance (spec.md §7 names blind strategies explicitly here).
func BlindPolicy(m model.DenseMDP, gamma float64) (VList, error) {
	n := m.NumStates()
	numActions := m.NumActions()
	out := make(VList, numActions)

	for a := 0; a < numActions; a++ {
		data := make([]float64, n*n)
		for s := 0; s < n; s++ {
			for sp := 0; sp < n; sp++ {
				v := -gamma * m.TransitionProbability(s, a, sp)
				if s == sp {
					v += 1
				}
				data[s*n+sp] = v
			}
		}
		A := mat.NewDense(n, n, data)
		r := rewardVector(m, a)
		bVec := mat.NewVecDense(n, r)

		var x mat.VecDense
		var alpha []float64
		if err := x.SolveVec(A, bVec); err == nil {
			alpha = make([]float64, n)
			for i := 0; i < n; i++ {
				alpha[i] = x.AtVec(i)
			}
		} else {
			var ierr error
			alpha, ierr = iterateBlind(m, a, gamma, r)
			if ierr != nil {
				return nil, ierr
			}
		}
		out[a] = polytope.VEntry{Alpha: alpha, Action: a}
	}
	return out, nil
}

func iterateBlind(m model.DenseMDP, a int, gamma float64, r []float64) ([]float64, error) {
	n := m.NumStates()
	alpha := make([]float64, n)
	const tolerance = 1e-8
	const maxIters = 10000
	for iter := 0; iter < maxIters; iter++ {
		next := make([]float64, n)
		maxDelta := 0.0
		for s := 0; s < n; s++ {
			sum := 0.0
			for sp := 0; sp < n; sp++ {
				sum += m.TransitionProbability(s, a, sp) * alpha[sp]
			}
			next[s] = r[s] + gamma*sum
			if d := math.Abs(next[s] - alpha[s]); d > maxDelta {
				maxDelta = d
			}
		}
		alpha = next
		if maxDelta < tolerance {
			return alpha, nil
		}
	}
	return nil, coreerr.New("pomdp.BlindPolicy", coreerr.Unconverged, nil)
}
