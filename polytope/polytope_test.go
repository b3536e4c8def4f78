package polytope

import (
	"math"
	"testing"
)

func TestBestAtPointTieBreaksLexicographically(t *testing.T) {
	list := []VEntry{
		{Alpha: []float64{1, 0}},
		{Alpha: []float64{0, 1}},
	}
	idx, val, err := BestAtPoint([]float64{0.5, 0.5}, list)
	if err != nil {
		t.Fatalf("BestAtPoint returned error: %v", err)
	}
	if math.Abs(val-0.5) > 1e-12 {
		t.Errorf("value = %v, want 0.5", val)
	}
	if idx != 0 {
		t.Errorf("tie-break index = %d, want 0 (first entry is not lex-less)", idx)
	}
}

func TestBestAtPointEmptyListFails(t *testing.T) {
	if _, _, err := BestAtPoint([]float64{1}, nil); err == nil {
		t.Errorf("BestAtPoint on an empty list should return an error")
	}
}

func TestExtractBestAtSimplexCorners(t *testing.T) {
	rng := []VEntry{
		{Alpha: []float64{1, 0}},
		{Alpha: []float64{0, 1}},
		{Alpha: []float64{0.5, 0.5}},
	}
	front := ExtractBestAtSimplexCorners(2, rng)
	if front != 2 {
		t.Fatalf("front = %d, want 2", front)
	}
	if rng[0].Alpha[0] != 1 || rng[1].Alpha[1] != 1 {
		t.Errorf("front segment = %v, want corner winners [1,0] then [0,1]", rng[:2])
	}
}

func TestExtractDominatedRemovesPointwiseDominated(t *testing.T) {
	rng := []VEntry{
		{Alpha: []float64{1, 1}}, // dominates the next entry
		{Alpha: []float64{1, 0}}, // dominated by entry 0
		{Alpha: []float64{0, 2}}, // incomparable with entry 0
	}
	n := ExtractDominated(2, rng)
	if n != 2 {
		t.Fatalf("ExtractDominated kept %d entries, want 2", n)
	}
	for _, e := range rng[:n] {
		if e.Alpha[0] == 1 && e.Alpha[1] == 0 {
			t.Errorf("dominated entry [1 0] should have been removed, kept = %v", rng[:n])
		}
	}
}

func TestFindVerticesNaiveFindsCrossingPoint(t *testing.T) {
	// Two alphas crossing at belief (0.5, 0.5); bag holds the 2-state
	// hyperplane coefficients directly.
	bag := [][]float64{
		{1, 0},
		{0, 1},
	}
	candidates := []VEntry{
		{Alpha: []float64{1, 0}},
		{Alpha: []float64{0, 1}},
	}
	got := FindVerticesNaive(bag, candidates)
	if len(got) != 1 {
		t.Fatalf("FindVerticesNaive returned %d vertices, want 1", len(got))
	}
	b := got[0].Belief
	if math.Abs(b[0]-0.5) > 1e-6 || math.Abs(b[1]-0.5) > 1e-6 {
		t.Errorf("vertex belief = %v, want [0.5 0.5]", b)
	}
}

func TestSortByAlphaIsNonIncreasingLex(t *testing.T) {
	entries := []VEntry{
		{Alpha: []float64{0, 1}},
		{Alpha: []float64{1, 0}},
		{Alpha: []float64{0.5, 0.5}},
	}
	SortByAlpha(entries)
	for i := 0; i+1 < len(entries); i++ {
		if lexLess(entries[i].Alpha, entries[i+1].Alpha) {
			t.Errorf("entries not sorted non-increasing: %v before %v", entries[i].Alpha, entries[i+1].Alpha)
		}
	}
}
