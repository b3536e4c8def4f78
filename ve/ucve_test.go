package ve

import (
	"math"
	"testing"

	"github.com/samuelfneumann/aitoolbox/assign"
)

// TestSolveUCVEMatchesBruteForceOverHandcraftedBandit builds a handcrafted
// 16-rule factored bandit over 5 binary variables (32 joint actions): two
// overlapping factors, A over {x0,x1,x2} and B over {x2,x3,x4}, each an
// 8-rule (mean, inverseWeightedCount) table. It brute-forces the true
// φ_L-maximizing joint action over all 32 assignments independently of the
// solver and checks SolveUCVE's returned (action, 2-vector) against it,
// per spec.md §8 invariant 5 / end-to-end scenario §291.
func TestSolveUCVEMatchesBruteForceOverHandcraftedBandit(t *testing.T) {
	const logTerm = 11.9829
	sizes := assign.Sizes{2, 2, 2, 2, 2}
	sizesA := sizes.Select([]int{0, 1, 2})
	sizesB := sizes.Select([]int{2, 3, 4})

	// A's table: mean(idx) = idx, invWeight(idx) = idx+1.
	rulesA := make([]Rule, sizesA.Domain())
	for idx := range rulesA {
		full := sizesA.Decode(idx)
		rulesA[idx] = Rule{
			Assignment: assign.NewPartial([]int{0, 1, 2}, full),
			Payload:    [2]float64{float64(idx), float64(idx + 1)},
		}
	}
	// B's table: mean(idx) = 2*idx, invWeight(idx) = idx+1.
	rulesB := make([]Rule, sizesB.Domain())
	for idx := range rulesB {
		full := sizesB.Decode(idx)
		rulesB[idx] = Rule{
			Assignment: assign.NewPartial([]int{2, 3, 4}, full),
			Payload:    [2]float64{float64(2 * idx), float64(idx + 1)},
		}
	}
	rules := append(append([]Rule(nil), rulesA...), rulesB...)
	if len(rules) != 16 {
		t.Fatalf("handcrafted bandit has %d rules, want 16", len(rules))
	}

	got := SolveUCVE(5, sizes, rules, logTerm)

	bestPhi := math.Inf(-1)
	var bestAction []int
	var bestValue [2]float64
	for full := 0; full < sizes.Domain(); full++ {
		a := sizes.Decode(full)
		idxA := sizesA.Index(assign.Project(a, []int{0, 1, 2}).Values)
		idxB := sizesB.Index(assign.Project(a, []int{2, 3, 4}).Values)
		mean := float64(idxA) + float64(2*idxB)
		invW := float64(idxA+1) + float64(idxB+1)
		phi := mean + math.Sqrt(0.5*invW*logTerm)
		if phi > bestPhi {
			bestPhi, bestAction, bestValue = phi, a, [2]float64{mean, invW}
		}
	}

	if len(got.Action) != len(bestAction) {
		t.Fatalf("action length = %d, want %d", len(got.Action), len(bestAction))
	}
	for i := range bestAction {
		if got.Action[i] != bestAction[i] {
			t.Errorf("SolveUCVE action = %v, brute force = %v", got.Action, bestAction)
			break
		}
	}
	if math.Abs(got.Value[0]-bestValue[0]) > 1e-9 || math.Abs(got.Value[1]-bestValue[1]) > 1e-9 {
		t.Errorf("SolveUCVE value = %v, brute force = %v", got.Value, bestValue)
	}

	// Sanity check against the hand-derived optimum: both tables' mean and
	// invWeight grow with the local index, and every variable set to 1
	// raises idxA and/or idxB (a2 = 1 puts idxA in {4..7} and idxB in
	// {1,3,5,7}), so the optimum sits at a0=a1=a2=a3=a4=1.
	want := []int{1, 1, 1, 1, 1}
	for i := range want {
		if bestAction[i] != want[i] {
			t.Fatalf("hand-derived optimum = %v, brute force computed %v", want, bestAction)
		}
	}
}
