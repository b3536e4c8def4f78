package ve

import (
	"math"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/coreerr"
)

// Entry is the (value, tag) payload VE accumulates, per spec.md §4.4.1: tag
// records the actions chosen for every variable eliminated so far.
type Entry struct {
	Value float64
	Tag   assign.Partial
}

// Result is the joint action a VE-family scalar solve returns.
type Result struct {
	Action []int
	Value  float64
}

type combiner struct {
	numVars  int
	variable int
	best     Entry
	bestSet  bool
	cur      Entry
}

func (c *combiner) BeginRemoval(v int) { c.variable = v }

func (c *combiner) InitNewFactor() {
	c.best = Entry{Value: math.Inf(-1)}
	c.bestSet = false
}

func (c *combiner) BeginCrossSum(val int) {
	c.cur = Entry{
		Value: 0,
		Tag:   assign.Partial{Keys: []int{c.variable}, Values: []int{val}},
	}
}

func (c *combiner) CrossSum(payload any) {
	e := payload.(Entry)
	c.cur.Value += e.Value
	if merged, ok := assign.Merge(c.cur.Tag, e.Tag); ok {
		c.cur.Tag = merged
	}
}

func (c *combiner) EndCrossSum() {
	if !c.bestSet || c.cur.Value > c.best.Value {
		c.best = c.cur
		c.bestSet = true
	}
}

func (c *combiner) IsValidNewFactor() bool { return c.bestSet }

func (c *combiner) CurrentFactor() any { return c.best }

func (c *combiner) MergeFactors(acc, other any) any {
	a := acc.(Entry)
	b := other.(Entry)
	merged, _ := assign.Merge(a.Tag, b.Tag)
	return Entry{Value: a.Value + b.Value, Tag: merged}
}

func (c *combiner) MakeResult(final any) any {
	if final == nil {
		return Result{Action: make([]int, c.numVars), Value: 0}
	}
	e := final.(Entry)
	return Result{Action: e.Tag.Full(c.numVars, 0), Value: e.Value}
}

// Solve runs scalar Variable Elimination (spec.md §4.4.1) over rules with
// scalar float64 payloads, returning the joint action maximizing the sum
// of matching rules and its value.
//
// Correctness requires every partial assignment with non-zero reward to
// appear as a rule; entries with no rule default to 0, so negative rules
// need explicit 0-rules for the other assignments sharing their scope
// (spec.md §4.4.1).
func Solve(numVars int, sizes assign.Sizes, rules []Rule) (Result, error) {
	if numVars == 0 {
		return Result{}, coreerr.New("ve.Solve", coreerr.InvalidArgument, nil)
	}

	wrap := func(p any) any { return Entry{Value: p.(float64)} }
	zero := func() any { return Entry{Value: 0} }
	g := buildGraph(numVars, sizes, rules, wrap, zero)

	c := &combiner{numVars: numVars}
	res := Run(g, sizes, c)
	return res.(Result), nil
}
