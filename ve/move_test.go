package ve

import (
	"testing"

	"github.com/samuelfneumann/aitoolbox/assign"
)

func findParetoPoint(frontier []ParetoPoint, reward []float64) (ParetoPoint, bool) {
	for _, p := range frontier {
		if equalVec(p.Reward, reward) {
			return p, true
		}
	}
	return ParetoPoint{}, false
}

// TestSolveMOVEKeepsIncomparablePoints: a single binary action variable
// whose two actions produce incomparable reward vectors must both survive
// onto the Pareto frontier (spec.md §4.4.2).
func TestSolveMOVEKeepsIncomparablePoints(t *testing.T) {
	sizes := assign.Sizes{2}
	rules := []Rule{
		{Assignment: assign.NewPartial([]int{0}, []int{0}), Payload: []float64{1, 0}},
		{Assignment: assign.NewPartial([]int{0}, []int{1}), Payload: []float64{0, 1}},
	}

	got := SolveMOVE(1, 2, sizes, rules)

	if len(got.Frontier) != 2 {
		t.Fatalf("Frontier has %d points, want 2: %v", len(got.Frontier), got.Frontier)
	}
	p0, ok0 := findParetoPoint(got.Frontier, []float64{1, 0})
	p1, ok1 := findParetoPoint(got.Frontier, []float64{0, 1})
	if !ok0 || !ok1 {
		t.Fatalf("Frontier = %v, want points [1 0] and [0 1]", got.Frontier)
	}
	if p0.Tag.Values[0] != 0 {
		t.Errorf("point [1 0] tagged action %v, want x0=0", p0.Tag.Values)
	}
	if p1.Tag.Values[0] != 1 {
		t.Errorf("point [0 1] tagged action %v, want x0=1", p1.Tag.Values)
	}
}

// TestSolveMOVEDropsDominatedPoint: a third action strictly dominated in
// both objectives by an incomparable pair must not survive pruning.
func TestSolveMOVEDropsDominatedPoint(t *testing.T) {
	sizes := assign.Sizes{3}
	rules := []Rule{
		{Assignment: assign.NewPartial([]int{0}, []int{0}), Payload: []float64{1, 0}},
		{Assignment: assign.NewPartial([]int{0}, []int{1}), Payload: []float64{0, 1}},
		{Assignment: assign.NewPartial([]int{0}, []int{2}), Payload: []float64{0, 0}},
	}

	got := SolveMOVE(1, 2, sizes, rules)

	if len(got.Frontier) != 2 {
		t.Fatalf("Frontier has %d points, want 2 (dominated [0 0] excluded): %v", len(got.Frontier), got.Frontier)
	}
	if _, ok := findParetoPoint(got.Frontier, []float64{0, 0}); ok {
		t.Errorf("Frontier retained dominated point [0 0]: %v", got.Frontier)
	}
}
