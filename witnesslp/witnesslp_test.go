package witnesslp

import (
	"math"
	"testing"

	"github.com/samuelfneumann/aitoolbox/polytope"
)

func TestWitnessTestFindsBeatingBelief(t *testing.T) {
	w := New(1)
	w.AddOptimal([]float64{1})

	b, ok := w.Test([]float64{2})
	if !ok {
		t.Fatalf("Test should find a witness belief for a strictly dominating candidate")
	}
	if math.Abs(b[0]-1) > 1e-6 {
		t.Errorf("witness belief = %v, want [1]", b)
	}
}

func TestWitnessTestRejectsDominatedCandidate(t *testing.T) {
	w := New(1)
	w.AddOptimal([]float64{5})

	_, ok := w.Test([]float64{1})
	if ok {
		t.Errorf("Test should find no witness for a candidate dominated everywhere")
	}
}

func TestPruneKeepsBothSimplexCornersWithoutNeedingAWitness(t *testing.T) {
	entries := []polytope.VEntry{
		{Alpha: []float64{1, 0}, Action: 0},
		{Alpha: []float64{0, 1}, Action: 1},
	}
	kept := Prune(2, entries)
	if len(kept) != 2 {
		t.Fatalf("Prune kept %d entries, want 2 (both are simplex-corner winners)", len(kept))
	}
}

func TestPruneRemovesPointwiseDominatedEntry(t *testing.T) {
	entries := []polytope.VEntry{
		{Alpha: []float64{1, 1}, Action: 0},
		{Alpha: []float64{1, 0}, Action: 1}, // dominated by the entry above
	}
	kept := Prune(2, entries)
	if len(kept) != 1 {
		t.Fatalf("Prune kept %d entries, want 1", len(kept))
	}
	if kept[0].Action != 0 {
		t.Errorf("surviving entry = %+v, want the dominating [1 1] entry", kept[0])
	}
}
