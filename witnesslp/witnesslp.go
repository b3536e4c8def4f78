// Package witnesslp implements the witness LP and pruner of spec.md §4.11:
// a simplex-constrained linear program, rebuilt per test with the growing
// set of "already optimal" α-vectors carried as permanent rows, used to
// decide whether a candidate α-vector has a belief point at which it
// strictly beats every currently-accepted α-vector.
package witnesslp

import (
	"github.com/samuelfneumann/aitoolbox/lp"
	"github.com/samuelfneumann/aitoolbox/polytope"
)

// Witness tests candidate α-vectors against a growing "best" set.
// Permanent rows accumulate one per accepted α-vector; Test rebuilds the
// LP (row buffer reuse is an implementation property of lp.Problem itself,
// not preserved across Test calls here since the permanent-row set grows
// between tests).
type Witness struct {
	s       int
	best    [][]float64 // permanent optimal α-vectors
}

// New constructs an empty Witness LP over an |S|=s belief space.
func New(s int) *Witness { return &Witness{s: s} }

// AddOptimal records alpha as a permanent "already optimal" row.
func (w *Witness) AddOptimal(alpha []float64) {
	w.best = append(w.best, append([]float64(nil), alpha...))
}

// Test checks whether candidate has a witness belief over the current
// best set: a belief b at which candidate·b strictly exceeds every
// accepted α-vector. Returns the witness belief and true if one exists.
func (w *Witness) Test(candidate []float64) ([]float64, bool) {
	s := w.s
	// Columns: b_0..b_{s-1}, K, delta.
	p := lp.New(s + 2)
	kCol, deltaCol := s, s+1
	p.SetUnbounded(kCol)
	p.SetUnbounded(deltaCol)
	p.SetObjective(deltaCol, 1, true)

	// sum b_i = 1
	buf := p.Buffer()
	for i := 0; i < s; i++ {
		buf[i] = 1
	}
	buf[kCol], buf[deltaCol] = 0, 0
	buf[len(buf)-1] = 1
	p.PushRow(lp.EQ)

	// candidate·b - K = 0
	buf = p.Buffer()
	for i := 0; i < s; i++ {
		buf[i] = candidate[i]
	}
	buf[kCol] = -1
	buf[deltaCol] = 0
	buf[len(buf)-1] = 0
	p.PushRow(lp.EQ)

	// for each accepted alpha: alpha·b - K + delta <= 0
	for _, alpha := range w.best {
		buf = p.Buffer()
		for i := 0; i < s; i++ {
			buf[i] = alpha[i]
		}
		buf[kCol] = -1
		buf[deltaCol] = 1
		buf[len(buf)-1] = 0
		p.PushRow(lp.LE)
	}

	x, ok, err := p.Solve()
	if err != nil || !ok {
		return nil, false
	}
	if x[deltaCol] <= 0 {
		return nil, false
	}
	return x[:s], true
}

// Prune implements the pruner protocol: pointwise-dominance pass, then
// simplex-corner seeding, then witness-LP-driven selection of the
// remaining "useful" α-vectors.
func Prune(s int, entries []polytope.VEntry) []polytope.VEntry {
	n := polytope.ExtractDominated(s, entries)
	entries = entries[:n]
	if len(entries) == 0 {
		return entries
	}

	front := polytope.ExtractBestAtSimplexCorners(s, entries)
	best := append([]polytope.VEntry(nil), entries[:front]...)
	remaining := append([]polytope.VEntry(nil), entries[front:]...)

	w := New(s)
	for _, e := range best {
		w.AddOptimal(e.Alpha)
	}

	for len(remaining) > 0 {
		last := len(remaining) - 1
		candidate := remaining[last]
		remaining = remaining[:last]

		b, hasWitness := w.Test(candidate.Alpha)
		if !hasWitness {
			continue
		}

		all := append(append([]polytope.VEntry(nil), remaining...), candidate)
		idx, _, err := polytope.BestAtPoint(b, all)
		if err != nil {
			continue
		}
		chosen := all[idx]
		if idx < len(remaining) {
			remaining = append(remaining[:idx], remaining[idx+1:]...)
		} else {
			// chosen is candidate itself, already popped from remaining.
		}

		best = append(best, chosen)
		w.AddOptimal(chosen.Alpha)
	}

	return best
}
