// Package lp implements the narrow LP driver of spec.md §4.2: a
// row-buffer-based problem builder over github.com/samuelfneumann/aitoolbox's
// chosen simplex backend, gonum.org/v1/gonum/optimize/convex/lp. Variables
// default to non-negative; SetUnbounded splits a column into a positive and
// a negative part so the underlying solver (which only handles x >= 0) can
// still represent it, per the standard free-variable substitution.
package lp

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/samuelfneumann/aitoolbox/coreerr"
)

// RowType is the relational operator of one constraint row.
type RowType int

const (
	LE RowType = iota
	GE
	EQ
)

// Problem is a growable linear program: n user-facing columns (some of
// which may be marked unbounded), a reused single-row buffer of length
// n+1 (coefficients plus a pending rhs), and a stack of committed rows.
type Problem struct {
	n          int
	unbounded  map[int]bool
	objective  []float64
	maximize   bool
	rows       [][]float64 // each row has len n (coefficients)
	rowTypes   []RowType
	rowRHS     []float64
	buf        []float64 // length n+1: coefficients then rhs, reused across PushRow calls
}

// New constructs a Problem with n variables and a zero objective.
func New(n int) *Problem {
	return &Problem{
		n:         n,
		unbounded: make(map[int]bool),
		objective: make([]float64, n),
		buf:       make([]float64, n+1),
	}
}

// SetObjective sets column col's objective coefficient. maximize controls
// the overall optimization sense (gonum's lp.Simplex always minimizes; a
// maximize problem negates the objective internally in Solve).
func (p *Problem) SetObjective(col int, coeff float64, maximize bool) {
	p.objective[col] = coeff
	p.maximize = maximize
}

// SetUnbounded marks col as a free (not sign-constrained) variable.
func (p *Problem) SetUnbounded(col int) {
	p.unbounded[col] = true
}

// AddColumn grows the problem by one variable, returning its index.
func (p *Problem) AddColumn() int {
	idx := p.n
	p.n++
	p.objective = append(p.objective, 0)
	for i := range p.rows {
		p.rows[i] = append(p.rows[i], 0)
	}
	p.buf = make([]float64, p.n+1)
	return idx
}

// Buffer returns the reused row buffer (length n+1: coefficients then
// rhs) for the caller to fill in before PushRow.
func (p *Problem) Buffer() []float64 { return p.buf }

// PushRow commits the current buffer contents (its first n entries) as a
// new constraint row of the given type against the buffer's last entry as
// the right-hand side.
func (p *Problem) PushRow(t RowType) {
	row := append([]float64(nil), p.buf[:p.n]...)
	p.rows = append(p.rows, row)
	p.rowTypes = append(p.rowTypes, t)
	p.rowRHS = append(p.rowRHS, p.buf[p.n])
}

// PopRow discards the most recently pushed row.
func (p *Problem) PopRow() {
	if len(p.rows) == 0 {
		return
	}
	p.rows = p.rows[:len(p.rows)-1]
	p.rowTypes = p.rowTypes[:len(p.rowTypes)-1]
	p.rowRHS = p.rowRHS[:len(p.rowRHS)-1]
}

// NumRows returns the number of committed rows.
func (p *Problem) NumRows() int { return len(p.rows) }

// Solve converts the accumulated rows to gonum's standard form (min c'x,
// Ax = b, x >= 0), splitting unbounded columns into positive/negative
// parts and adding slack/surplus columns for <=/>= rows, then solves it.
// It returns the primal solution restricted to the original n columns
// when feasible and (for a maximize problem) the optimal value is
// strictly positive; otherwise it returns ok == false.
func (p *Problem) Solve() (x []float64, ok bool, err error) {
	numOrig := p.n
	// Column layout: [orig cols (split if unbounded)] [slack/surplus per row]
	colOf := make([]int, numOrig)  // index of the positive part
	negOf := make([]int, numOrig)  // index of the negative part, or -1
	next := 0
	for i := 0; i < numOrig; i++ {
		colOf[i] = next
		next++
		if p.unbounded[i] {
			negOf[i] = next
			next++
		} else {
			negOf[i] = -1
		}
	}
	numRows := len(p.rows)
	slackOf := make([]int, numRows)
	for r := 0; r < numRows; r++ {
		if p.rowTypes[r] == EQ {
			slackOf[r] = -1
			continue
		}
		slackOf[r] = next
		next++
	}
	totalCols := next

	A := mat.NewDense(numRows, totalCols, nil)
	b := make([]float64, numRows)
	for r := 0; r < numRows; r++ {
		for i := 0; i < numOrig; i++ {
			v := p.rows[r][i]
			if v == 0 {
				continue
			}
			A.Set(r, colOf[i], v)
			if negOf[i] != -1 {
				A.Set(r, negOf[i], -v)
			}
		}
		rhs := p.rowRHS[r]
		sign := 1.0
		if rhs < 0 {
			// Normalize to non-negative rhs by flipping the row and its type.
			sign = -1.0
			rhs = -rhs
			for i := 0; i < numOrig; i++ {
				A.Set(r, colOf[i], -A.At(r, colOf[i]))
				if negOf[i] != -1 {
					A.Set(r, negOf[i], -A.At(r, negOf[i]))
				}
			}
		}
		b[r] = rhs
		if slackOf[r] != -1 {
			t := p.rowTypes[r]
			coeff := 1.0
			if t == GE {
				coeff = -1.0
			}
			if sign < 0 {
				if t == LE {
					coeff = -1.0
				} else {
					coeff = 1.0
				}
			}
			A.Set(r, slackOf[r], coeff)
		}
	}

	c := make([]float64, totalCols)
	for i := 0; i < numOrig; i++ {
		coeff := p.objective[i]
		if p.maximize {
			coeff = -coeff
		}
		c[colOf[i]] = coeff
		if negOf[i] != -1 {
			c[negOf[i]] = -coeff
		}
	}

	z, solution, lerr := lp.Simplex(c, A, b, 0, nil)
	if lerr != nil {
		return nil, false, coreerr.New("lp.Solve", coreerr.LPFailure, lerr)
	}

	x = make([]float64, numOrig)
	for i := 0; i < numOrig; i++ {
		v := solution[colOf[i]]
		if negOf[i] != -1 {
			v -= solution[negOf[i]]
		}
		x[i] = v
	}

	value := z
	if p.maximize {
		value = -z
	}
	ok = !p.maximize || value > 0
	return x, ok, nil
}
