// Command learnloop demonstrates the factored cooperative learning loop:
// a DBN transition model learned online, a cooperative prioritized
// sweeping queue whose priorities are updated each step (and whose
// nonzero-priority count is reported; it does not drive extra backups
// here), and cooperative Q-learning over dense per-factor tables with an
// ε-greedy exploration policy. The environment is a small
// synthetic two-agent coordination problem wired purely for
// demonstration; real use supplies a DBN structure and reward bases from
// a caller's own factored model (model.Factored).
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/samuelfneumann/progressbar"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/aitoolbox/assign"
	"github.com/samuelfneumann/aitoolbox/coopqlearning"
	"github.com/samuelfneumann/aitoolbox/cpsqueue"
	"github.com/samuelfneumann/aitoolbox/dbn"
	"github.com/samuelfneumann/aitoolbox/timestep"
)

func main() {
	steps := flag.Int("steps", 2000, "number of learning steps to run")
	seed := flag.Uint64("seed", 1, "random seed")
	epsilon := flag.Float64("epsilon", 0.1, "exploration rate")
	alpha := flag.Float64("alpha", 0.1, "learning rate")
	gamma := flag.Float64("gamma", 0.95, "discount factor")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	stateSizes := assign.Sizes{2, 2}
	actionSizes := assign.Sizes{2, 2}

	// Two next-state variables, each depending on both agents' actions and
	// its own previous value; two Q-factors with matching scopes.
	transition := dbn.New(stateSizes, actionSizes, []*dbn.NextVar{
		{StateSize: 2, ActionKeys: []int{0, 1}, Conditionals: newConditionals(stateSizes, []int{0}, 2)},
		{StateSize: 2, ActionKeys: []int{0, 1}, Conditionals: newConditionals(stateSizes, []int{1}, 2)},
	})

	q := coopqlearning.New(stateSizes, actionSizes, []coopqlearning.Scope{
		{StateKeys: []int{0}, ActionKeys: []int{0}},
		{StateKeys: []int{1}, ActionKeys: []int{1}},
	})

	queue := cpsqueue.New(stateSizes, actionSizes,
		[][]int{{0, 1}, {0, 1}},
		[][][]int{{{0}, {0}, {0}, {0}}, {{1}, {1}, {1}, {1}}},
	)

	bar := progressbar.New(50, *steps, time.Second, true)
	bar.Display()

	s := []int{0, 0}
	totalReward := 0.0

	for step := 0; step < *steps; step++ {
		bar.Increment()

		a := q.SelectAction(s, *epsilon, rng)
		sPrime := transition.SampleSPrime(s, a, rng)
		r := syntheticReward(s, a)

		for i := range sPrime {
			transition.Record(i, s, a, sPrime[i], r[i])
		}
		if err := transition.Sync(0); err != nil {
			log.Fatalf("learnloop: sync variable 0: %v", err)
		}
		if err := transition.Sync(1); err != nil {
			log.Fatalf("learnloop: sync variable 1: %v", err)
		}

		aPrime := q.SelectAction(sPrime, *epsilon, rng)
		q.Update(s, a, sPrime, aPrime, r, *alpha, *gamma)

		for i := range sPrime {
			localA := assign.Project(a, []int{0, 1}).Values
			aIdx := actionSizes.Index(localA)
			queue.Update(i, aIdx, s[i], r[i])
		}

		t := timestep.New(timestep.Mid, r[0]+r[1], *gamma, sPrime)
		totalReward += t.Reward

		s = sPrime
	}

	bar.Close()
	fmt.Printf("learnloop: %d steps, average reward %.4f, nonzero CPS priorities %d\n",
		*steps, totalReward/float64(*steps), queue.NonzeroPriorities())
}

// newConditionals builds one uniform Conditional per local joint action of
// actionSizes{0,1}, each depending on the given parent state scope.
func newConditionals(stateSizes assign.Sizes, parentKeys []int, stateSize int) []*dbn.Conditional {
	parentDomain := stateSizes.Select(parentKeys).Domain()
	conds := make([]*dbn.Conditional, 4) // |A0|*|A1| = 2*2
	for i := range conds {
		conds[i] = dbn.NewConditional(parentKeys, parentDomain, stateSize)
	}
	return conds
}

// syntheticReward rewards each agent for matching its own state bit to the
// joint action parity, a simple coordination signal with no special
// structure beyond exercising the learning loop.
func syntheticReward(s, a []int) []float64 {
	r := make([]float64, len(s))
	for i := range s {
		if s[i] == (a[0]+a[1])%2 {
			r[i] = 1
		}
	}
	return r
}
