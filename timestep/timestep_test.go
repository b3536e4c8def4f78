package timestep

import "testing"

func TestStepTypePredicates(t *testing.T) {
	first := New(First, 0, 1, []int{0})
	mid := New(Mid, 1, 0.9, []int{1})
	last := New(Last, 2, 0.9, []int{2})

	if !first.First() || first.Mid() || first.Last() {
		t.Errorf("First step predicates wrong: First=%v Mid=%v Last=%v", first.First(), first.Mid(), first.Last())
	}
	if !mid.Mid() || mid.First() || mid.Last() {
		t.Errorf("Mid step predicates wrong: First=%v Mid=%v Last=%v", mid.First(), mid.Mid(), mid.Last())
	}
	if !last.Last() || last.First() || last.Mid() {
		t.Errorf("Last step predicates wrong: First=%v Mid=%v Last=%v", last.First(), last.Mid(), last.Last())
	}
}
