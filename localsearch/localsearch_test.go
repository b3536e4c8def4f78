package localsearch

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/factor"
)

// separablePayoff builds a 2-binary-variable factor graph whose two
// factors are independent single-variable tables, so coordinate ascent is
// guaranteed to find the joint optimum [1, 1] (value 8) regardless of
// starting point or sweep order.
func separablePayoff() (*factor.Graph, assign.Sizes) {
	sizes := assign.Sizes{2, 2}
	g := factor.NewGraph(2)
	f0, _ := g.GetOrCreate([]int{0})
	g.Factor(f0).Payload = []float64{0, 5}
	f1, _ := g.GetOrCreate([]int{1})
	g.Factor(f1).Payload = []float64{0, 3}
	return g, sizes
}

func TestRunConvergesToSeparableOptimum(t *testing.T) {
	g, sizes := separablePayoff()
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 10; trial++ {
		full, val := Run(g, sizes, nil, rng)
		if full[0] != 1 || full[1] != 1 {
			t.Fatalf("Run converged to %v, want [1 1]", full)
		}
		if val != 8 {
			t.Errorf("Run value = %v, want 8", val)
		}
	}
}

func TestRunFromWorstSeedStillConverges(t *testing.T) {
	g, sizes := separablePayoff()
	rng := rand.New(rand.NewSource(2))

	full, val := Run(g, sizes, []int{0, 0}, rng)
	if full[0] != 1 || full[1] != 1 {
		t.Errorf("Run from worst seed converged to %v, want [1 1]", full)
	}
	if val != 8 {
		t.Errorf("Run value = %v, want 8", val)
	}
}

func TestValueSumsEveryFactor(t *testing.T) {
	g, sizes := separablePayoff()
	if v := Value(g, sizes, []int{0, 1}); v != 3 {
		t.Errorf("Value([0 1]) = %v, want 3", v)
	}
	if v := Value(g, sizes, []int{1, 0}); v != 5 {
		t.Errorf("Value([1 0]) = %v, want 5", v)
	}
}

func TestReusingILSConvergesToSeparableOptimum(t *testing.T) {
	g, sizes := separablePayoff()
	rng := rand.New(rand.NewSource(3))
	ils := NewReusingILS(g, sizes, rng, 5, 0.3, 0.3)

	if _, _, have := ils.Incumbent(); have {
		t.Fatalf("Incumbent reported have=true before any Run")
	}

	var full []int
	var val float64
	for round := 0; round < 5; round++ {
		full, val = ils.Run()
	}

	if full[0] != 1 || full[1] != 1 {
		t.Errorf("ReusingILS incumbent = %v, want [1 1]", full)
	}
	if val != 8 {
		t.Errorf("ReusingILS incumbent value = %v, want 8", val)
	}

	incFull, incVal, have := ils.Incumbent()
	if !have {
		t.Fatalf("Incumbent reported have=false after Run")
	}
	if incVal != val || incFull[0] != full[0] || incFull[1] != full[1] {
		t.Errorf("Incumbent() = (%v, %v), want (%v, %v)", incFull, incVal, full, val)
	}
}

func TestReusingILSNeverRegressesIncumbent(t *testing.T) {
	g, sizes := separablePayoff()
	rng := rand.New(rand.NewSource(4))
	ils := NewReusingILS(g, sizes, rng, 3, 0.5, 0.5)

	best := 0.0
	for round := 0; round < 20; round++ {
		_, val := ils.Run()
		if val < best {
			t.Fatalf("round %d: incumbent value regressed from %v to %v", round, best, val)
		}
		best = val
	}
}
