package lp

import "testing"

// maximize x0 subject to x0 <= 5, x0 >= 0.
func TestSolveMaximizeSingleBoundedVariable(t *testing.T) {
	p := New(1)
	p.SetObjective(0, 1, true)

	buf := p.Buffer()
	buf[0] = 1
	buf[1] = 5
	p.PushRow(LE)

	x, ok, err := p.Solve()
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !ok {
		t.Fatalf("Solve reported infeasible/non-positive optimum for a trivially feasible problem")
	}
	if len(x) != 1 {
		t.Fatalf("x has %d entries, want 1", len(x))
	}
	if x[0] < 4.999999 || x[0] > 5.000001 {
		t.Errorf("x = %v, want [5]", x)
	}
}

func TestPushRowAndPopRowTrackRowCount(t *testing.T) {
	p := New(2)
	buf := p.Buffer()
	buf[0], buf[1], buf[2] = 1, 1, 10
	p.PushRow(LE)
	if p.NumRows() != 1 {
		t.Fatalf("NumRows = %d, want 1", p.NumRows())
	}
	p.PopRow()
	if p.NumRows() != 0 {
		t.Errorf("NumRows after PopRow = %d, want 0", p.NumRows())
	}
}

func TestAddColumnGrowsBufferAndRows(t *testing.T) {
	p := New(1)
	buf := p.Buffer()
	buf[0], buf[1] = 1, 3
	p.PushRow(LE)

	col := p.AddColumn()
	if col != 1 {
		t.Fatalf("AddColumn returned %d, want 1", col)
	}
	if len(p.Buffer()) != 3 {
		t.Errorf("Buffer length after AddColumn = %d, want 3", len(p.Buffer()))
	}
	if len(p.rows[0]) != 2 {
		t.Errorf("existing row length after AddColumn = %d, want 2", len(p.rows[0]))
	}
}
