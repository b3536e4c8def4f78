// Package polytope implements the α-vector polytope primitives of spec.md
// §4.1: best-at-belief search, simplex-corner seeding, pointwise-domination
// pruning and naive vertex enumeration. An α-vector is a plain []float64 of
// length |S|; a VEntry pairs one with an action id and observation
// back-pointers so a policy can be replayed across horizons.
package polytope

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/aitoolbox/coreerr"
)

// VEntry is one α-vector together with the action that attains it and,
// for horizons beyond 0, one back-pointer observation id per observation
// used to chain the induced policy.
type VEntry struct {
	Alpha       []float64
	Action      int
	ObsBackPtrs []int
}

func dot(b, alpha []float64) float64 {
	s := 0.0
	for i, v := range b {
		s += v * alpha[i]
	}
	return s
}

func lexLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// BestAtPoint returns the index into list of the α-vector maximizing b·α,
// breaking ties by lexicographic order over α itself so the result is
// deterministic. Fails with EmptyList if list is empty.
func BestAtPoint(b []float64, list []VEntry) (int, float64, error) {
	if len(list) == 0 {
		return -1, 0, coreerr.New("polytope.BestAtPoint", coreerr.EmptyList, nil)
	}
	best := 0
	bestVal := dot(b, list[0].Alpha)
	for i := 1; i < len(list); i++ {
		v := dot(b, list[i].Alpha)
		if v > bestVal || (v == bestVal && lexLess(list[best].Alpha, list[i].Alpha)) {
			best, bestVal = i, v
		}
	}
	return best, bestVal, nil
}

// ExtractBestAtSimplexCorners moves, for each simplex corner e_i
// (i = 0..S-1), the α-vector in range maximizing range[k].Alpha[i] to the
// front segment of range (without re-moving an α already moved for an
// earlier corner), and returns the length of that front segment.
func ExtractBestAtSimplexCorners(s int, rng []VEntry) int {
	front := 0
	for i := 0; i < s; i++ {
		best := -1
		bestVal := 0.0
		for k := 0; k < len(rng); k++ {
			v := rng[k].Alpha[i]
			if best == -1 || v > bestVal {
				best, bestVal = k, v
			}
		}
		if best == -1 || best < front {
			continue
		}
		rng[front], rng[best] = rng[best], rng[front]
		front++
	}
	return front
}

func dominates(u, v []float64) bool {
	strict := false
	for i := range u {
		if u[i] < v[i] {
			return false
		}
		if u[i] > v[i] {
			strict = true
		}
	}
	return strict
}

func equalAlpha(u, v []float64) bool {
	for i := range u {
		if u[i] != v[i] {
			return false
		}
	}
	return true
}

// ExtractDominated removes, in place, every α such that some other α' in
// rng pointwise-dominates it (α' >= α componentwise, α' != α), stably
// keeping the first of any equal vectors, and returns the new length.
// LP (convex-combination) dominance is NOT checked, only pointwise.
func ExtractDominated(s int, rng []VEntry) int {
	keep := make([]bool, len(rng))
	for i := range rng {
		keep[i] = true
	}
	for i := range rng {
		if !keep[i] {
			continue
		}
		for j := range rng {
			if i == j || !keep[j] {
				continue
			}
			if dominates(rng[j].Alpha, rng[i].Alpha) ||
				(j < i && equalAlpha(rng[j].Alpha, rng[i].Alpha)) {
				keep[i] = false
				break
			}
		}
	}
	out := rng[:0]
	for i, k := range keep {
		if k {
			out = append(out, rng[i])
		}
	}
	return len(out)
}

// VertexCandidate is one belief/value pair produced by FindVerticesNaive.
type VertexCandidate struct {
	Belief []float64
	Value  float64
}

// FindVerticesNaive enumerates every S-subset of bag (indices into a set
// of hyperplanes b·α = k), solves the resulting S×S system for a
// candidate belief point, keeps it only if it is a valid non-negative
// probability vector, evaluates BestAtPoint against candidates at that
// belief, and deduplicates by belief vector.
func FindVerticesNaive(bag [][]float64, candidates []VEntry) []VertexCandidate {
	s := 0
	if len(bag) > 0 {
		s = len(bag[0])
	}
	var result []VertexCandidate
	seen := make(map[string]bool)

	var combo func(start int, chosen []int)
	combo = func(start int, chosen []int) {
		if len(chosen) == s {
			b, ok := solveVertex(bag, chosen, s)
			if !ok {
				return
			}
			key := beliefKey(b)
			if seen[key] {
				return
			}
			seen[key] = true
			_, val, err := BestAtPoint(b, candidates)
			if err != nil {
				return
			}
			result = append(result, VertexCandidate{Belief: b, Value: val})
			return
		}
		for i := start; i < len(bag); i++ {
			combo(i+1, append(chosen, i))
		}
	}
	combo(0, nil)
	return result
}

func beliefKey(b []float64) string {
	buf := make([]byte, 0, len(b)*8)
	for _, v := range b {
		buf = appendFloat(buf, v)
	}
	return string(buf)
}

func appendFloat(buf []byte, v float64) []byte {
	const scale = 1e9
	n := int64(v * scale)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(n))
		n >>= 8
	}
	return buf
}

// solveVertex solves the S×S linear system formed by the S-1 rows
// {(bag[chosen[k]] - bag[chosen[k+1]]) · b = 0} (the chosen α-vectors take
// equal value at b) plus the simplex row {sum(b) = 1}, accepting the
// result only if it is a non-negative probability vector.
func solveVertex(bag [][]float64, chosen []int, s int) ([]float64, bool) {
	if s == 0 {
		return nil, false
	}
	data := make([]float64, 0, s*s)
	rhs := make([]float64, s)
	// Use s-1 hyperplane equalities (pairwise differences force equal
	// value across the chosen α-vectors) plus the simplex constraint.
	for k := 0; k < s-1; k++ {
		row := make([]float64, s)
		a, b := bag[chosen[k]], bag[chosen[k+1]]
		for i := 0; i < s; i++ {
			row[i] = a[i] - b[i]
		}
		data = append(data, row...)
		rhs[k] = 0
	}
	ones := make([]float64, s)
	for i := range ones {
		ones[i] = 1
	}
	data = append(data, ones...)
	rhs[s-1] = 1

	A := mat.NewDense(s, s, data)
	bVec := mat.NewVecDense(s, rhs)
	var x mat.VecDense
	if err := x.SolveVec(A, bVec); err != nil {
		return nil, false
	}

	belief := make([]float64, s)
	sum := 0.0
	for i := 0; i < s; i++ {
		v := x.AtVec(i)
		if v < -1e-9 {
			return nil, false
		}
		if v < 0 {
			v = 0
		}
		belief[i] = v
		sum += v
	}
	if sum < 1e-9 {
		return nil, false
	}
	for i := range belief {
		belief[i] /= sum
	}
	return belief, true
}

// SortByAlpha orders entries in non-increasing lexicographic order, used to make
// ExtractDominated's "stable, keep the first of equal vectors" guarantee
// deterministic across repeated runs.
func SortByAlpha(entries []VEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lexLess(entries[j].Alpha, entries[i].Alpha)
	})
}
