package experience

import (
	"math"
	"testing"

	"github.com/samuelfneumann/aitoolbox/assign"
)

func TestSingleAgentWelfordMeanAndVariance(t *testing.T) {
	s := NewSingleAgent(2)
	rewards := []float64{1, 2, 3, 4}
	for _, r := range rewards {
		s.Record(0, r)
	}

	if got, want := s.Mean(0), 2.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("Mean = %v, want %v", got, want)
	}
	if got, want := s.N(0), 4; got != want {
		t.Errorf("N = %d, want %d", got, want)
	}
	// Sample variance of {1,2,3,4} is 5/3.
	if got, want := s.Variance(0), 5.0/3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("Variance = %v, want %v", got, want)
	}
}

func TestSingleAgentVarianceUndefinedBelowTwoSamples(t *testing.T) {
	s := NewSingleAgent(1)
	if got := s.Variance(0); got != 0 {
		t.Errorf("Variance with 0 samples = %v, want 0", got)
	}
	s.Record(0, 5)
	if got := s.Variance(0); got != 0 {
		t.Errorf("Variance with 1 sample = %v, want 0", got)
	}
}

func TestFactoredRecordCreditsOnlyMatchingScope(t *testing.T) {
	actionSizes := assign.Sizes{2, 2}
	f := NewFactored(actionSizes, [][]int{{0}, {1}})

	// Joint action (1,0): factor 0's local index is 1, factor 1's is 0.
	f.Record([]int{1, 0}, []float64{10, 20})

	idx0 := f.LocalIndex(0, []int{1, 0})
	idx1 := f.LocalIndex(1, []int{1, 0})
	if got := f.Mean(0, idx0); got != 10 {
		t.Errorf("factor 0 mean at local index %d = %v, want 10", idx0, got)
	}
	if got := f.Mean(1, idx1); got != 20 {
		t.Errorf("factor 1 mean at local index %d = %v, want 20", idx1, got)
	}
	if got := f.N(0, 1-idx0); got != 0 {
		t.Errorf("untouched local index should have zero visits, got %d", got)
	}
}
