package cpsqueue

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
)

func newTestQueue() *Queue {
	stateSizes := assign.Sizes{2, 2}
	actionSizes := assign.Sizes{2, 2}
	actionKeys := [][]int{{0, 1}, {0, 1}}
	parentKeys := [][][]int{
		{{0}, {0}, {0}, {0}},
		{{1}, {1}, {1}, {1}},
	}
	return New(stateSizes, actionSizes, actionKeys, parentKeys)
}

func TestUpdateTracksNonzeroPriorities(t *testing.T) {
	q := newTestQueue()
	if got := q.NonzeroPriorities(); got != 0 {
		t.Fatalf("NonzeroPriorities on empty queue = %d, want 0", got)
	}

	q.Update(0, 0, 0, 5)
	if got := q.NonzeroPriorities(); got != 1 {
		t.Errorf("NonzeroPriorities after one positive update = %d, want 1", got)
	}

	q.Update(0, 0, 0, -5)
	if got := q.NonzeroPriorities(); got != 0 {
		t.Errorf("NonzeroPriorities after canceling update = %d, want 0", got)
	}
}

func TestReconstructCommitsHighestPriorityVariableExactly(t *testing.T) {
	q := newTestQueue()
	// Variable 0, local action 1 (a=(1,0) since actionSizes.Index([1,0])=1),
	// parent index 1 (s0=1): the single highest-priority entry overall.
	q.Update(0, 1, 1, 10)
	q.Update(1, 0, 0, 1)

	rng := rand.New(rand.NewSource(1))
	s, a := q.Reconstruct(rng)

	if s[0] != 1 {
		t.Errorf("s[0] = %d, want 1 (committed by variable 0's argmax parent)", s[0])
	}
	if a[0] != 1 || a[1] != 0 {
		t.Errorf("a = %v, want [1 0] (committed by variable 0's argmax local action)", a)
	}
}

func TestReconstructLeavesNothingUnfilled(t *testing.T) {
	q := newTestQueue()
	q.Update(0, 0, 0, 1)

	rng := rand.New(rand.NewSource(2))
	s, a := q.Reconstruct(rng)

	for i, v := range s {
		if v < 0 || v >= q.stateSizes[i] {
			t.Errorf("s[%d] = %d out of range", i, v)
		}
	}
	for i, v := range a {
		if v < 0 || v >= q.actionSizes[i] {
			t.Errorf("a[%d] = %d out of range", i, v)
		}
	}
}
