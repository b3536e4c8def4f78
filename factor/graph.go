// Package factor implements the bipartite variable/factor graph described
// in spec.md §4.3: variables are stable integer indices 0..|V|-1 and carry
// only an adjacency list of factor handles; factor nodes are
// arena-allocated with stable indices so that "iterate neighbors while
// possibly removing them" is safe — adjacency lists store indices, not
// pointers, and removal only frees a slot (spec.md §9 re-architecture
// guidance).
package factor

import (
	"sort"
	"strconv"
	"strings"
)

// Node is a single factor: a sorted, unique tuple of variable indices it
// depends on (Keys) together with a caller-defined Payload (a scalar for
// VE, a Pareto frontier for MOVE, a dense table for Local Search, ...).
type Node struct {
	Keys    []int
	Payload any
}

// Graph is a bipartite variable/factor graph over |V| variables.
type Graph struct {
	numVars      int
	varNeighbors [][]int // per variable: sorted factor indices touching it
	factors      []*Node // arena; nil entries are free slots
	free         []int   // free factor slots, for reuse
	byKeys       map[string]int
}

// NewGraph returns an empty graph over numVars variables.
func NewGraph(numVars int) *Graph {
	return &Graph{
		numVars:      numVars,
		varNeighbors: make([][]int, numVars),
		byKeys:       make(map[string]int),
	}
}

// NumVars returns the number of variable nodes in the graph.
func (g *Graph) NumVars() int { return g.numVars }

func keysSignature(keys []int) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(k))
	}
	return b.String()
}

// GetOrCreate returns the factor node with the given sorted, unique keys,
// creating it (with a nil Payload) if it does not already exist. created
// reports whether a new node was allocated.
func (g *Graph) GetOrCreate(keys []int) (idx int, created bool) {
	sig := keysSignature(keys)
	if idx, ok := g.byKeys[sig]; ok {
		return idx, false
	}

	n := &Node{Keys: append([]int(nil), keys...)}
	if len(g.free) > 0 {
		idx = g.free[len(g.free)-1]
		g.free = g.free[:len(g.free)-1]
		g.factors[idx] = n
	} else {
		idx = len(g.factors)
		g.factors = append(g.factors, n)
	}
	g.byKeys[sig] = idx

	for _, v := range keys {
		g.varNeighbors[v] = insertSorted(g.varNeighbors[v], idx)
	}
	return idx, true
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeValue(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	if i < len(s) && s[i] == v {
		s = append(s[:i], s[i+1:]...)
	}
	return s
}

// Factor returns the node at idx, or nil if it has been removed.
func (g *Graph) Factor(idx int) *Node {
	if idx < 0 || idx >= len(g.factors) {
		return nil
	}
	return g.factors[idx]
}

// Neighbors returns the sorted factor indices adjacent to variable v.
func (g *Graph) Neighbors(v int) []int {
	return g.varNeighbors[v]
}

// NeighborVars returns the sorted union of variables touched by the given
// set of factor indices.
func (g *Graph) NeighborVars(factorIdxs []int) []int {
	var union []int
	for _, fi := range factorIdxs {
		n := g.Factor(fi)
		if n == nil {
			continue
		}
		merged := make([]int, 0, len(union)+len(n.Keys))
		i, j := 0, 0
		for i < len(union) && j < len(n.Keys) {
			switch {
			case union[i] < n.Keys[j]:
				merged = append(merged, union[i])
				i++
			case union[i] > n.Keys[j]:
				merged = append(merged, n.Keys[j])
				j++
			default:
				merged = append(merged, union[i])
				i++
				j++
			}
		}
		merged = append(merged, union[i:]...)
		merged = append(merged, n.Keys[j:]...)
		union = merged
	}
	return union
}

// RemoveFactor detaches and frees the factor at idx.
func (g *Graph) RemoveFactor(idx int) {
	n := g.Factor(idx)
	if n == nil {
		return
	}
	for _, v := range n.Keys {
		g.varNeighbors[v] = removeValue(g.varNeighbors[v], idx)
	}
	delete(g.byKeys, keysSignature(n.Keys))
	g.factors[idx] = nil
	g.free = append(g.free, idx)
}

// RemoveVariable detaches variable v from the graph, removing every factor
// still adjacent to it. Returns the indices of the factors removed (a
// snapshot, since RemoveFactor mutates the adjacency lists this iterates
// over).
func (g *Graph) RemoveVariable(v int) []int {
	removed := append([]int(nil), g.varNeighbors[v]...)
	for _, fi := range removed {
		g.RemoveFactor(fi)
	}
	g.varNeighbors[v] = nil
	return removed
}

// Factors returns the indices of every live factor node in the graph.
func (g *Graph) Factors() []int {
	var idxs []int
	for i, n := range g.factors {
		if n != nil {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// Variables reports which variables still have at least one adjacent
// factor.
func (g *Graph) Variables() []int {
	var vs []int
	for v := 0; v < g.numVars; v++ {
		if len(g.varNeighbors[v]) > 0 {
			vs = append(vs, v)
		}
	}
	return vs
}
