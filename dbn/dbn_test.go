package dbn

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
)

func newTestDBN() *DBN {
	stateSizes := assign.Sizes{2}
	actionSizes := assign.Sizes{2}
	cond := NewConditional([]int{0}, 2, 2)
	nv := &NextVar{StateSize: 2, ActionKeys: []int{0}, Conditionals: []*Conditional{cond, cond}}
	return New(stateSizes, actionSizes, []*NextVar{nv})
}

func TestNewConditionalIsUniform(t *testing.T) {
	c := NewConditional([]int{0}, 2, 3)
	for _, p := range c.Table {
		if math.Abs(p-1.0/3.0) > 1e-12 {
			t.Errorf("uniform table entry = %v, want 1/3", p)
		}
	}
}

func TestRecordAndSyncProducesRowStochasticTable(t *testing.T) {
	d := newTestDBN()

	// Observe s=0,a=0 -> s'=1 three times and -> s'=0 once.
	for i := 0; i < 3; i++ {
		d.Record(0, []int{0}, []int{0}, 1, 0)
	}
	d.Record(0, []int{0}, []int{0}, 0, 0)
	if err := d.Sync(0); err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	c, _ := d.conditional(0, []int{0})
	pIdx := d.parentIndex(c, []int{0})
	row := c.Table[pIdx*2 : pIdx*2+2]
	if err := ValidateRow(row, 1e-9); err != nil {
		t.Errorf("synced row %v failed validation: %v", row, err)
	}
	if math.Abs(row[1]-0.75) > 1e-9 {
		t.Errorf("P(s'=1 | s=0,a=0) = %v, want 0.75", row[1])
	}
}

func TestSampleSPrimeWithinRange(t *testing.T) {
	d := newTestDBN()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		sp := d.SampleSPrime([]int{0}, []int{0}, rng)
		if sp[0] != 0 && sp[0] != 1 {
			t.Fatalf("SampleSPrime returned out-of-range value %v", sp)
		}
	}
}

func TestValidateRowRejectsBadRows(t *testing.T) {
	if err := ValidateRow([]float64{0.5, 0.5}, 1e-9); err != nil {
		t.Errorf("valid row rejected: %v", err)
	}
	if err := ValidateRow([]float64{0.5, 0.6}, 1e-9); err == nil {
		t.Errorf("row summing to 1.1 should be rejected")
	}
	if err := ValidateRow([]float64{-0.1, 1.1}, 1e-9); err == nil {
		t.Errorf("row with a negative entry should be rejected")
	}
}

func TestBackProjectSingleVariable(t *testing.T) {
	d := newTestDBN()
	for i := 0; i < 3; i++ {
		d.Record(0, []int{0}, []int{0}, 1, 0)
	}
	d.Record(0, []int{0}, []int{0}, 0, 0)
	d.Sync(0)

	phi := func(sp []int) float64 {
		if sp[0] == 1 {
			return 1
		}
		return 0
	}
	v := d.BackProject([]int{0}, []int{0}, []int{0}, phi)
	if math.Abs(v-0.75) > 1e-9 {
		t.Errorf("BackProject = %v, want 0.75", v)
	}
}
