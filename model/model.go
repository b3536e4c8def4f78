// Package model specifies the ground-model contracts consumed by the
// solvers in this module (spec.md §6): MDPs, POMDPs, and factored/
// cooperative models. Solvers hold these only for the duration of one
// call and never mutate them.
package model

import "golang.org/x/exp/rand"

// MDP is a discrete-state, discrete-action Markov Decision Process.
type MDP interface {
	NumStates() int
	NumActions() int
	Discount() float64
	IsTerminal(s int) bool
	SampleSR(s, a int, rng *rand.Rand) (sPrime int, r float64)
}

// DenseMDP additionally exposes a full transition tensor and reward
// matrix, enabling exact (non-sampling) planning.
type DenseMDP interface {
	MDP
	TransitionProbability(s, a, sPrime int) float64
	ExpectedReward(s, a int) float64
}

// POMDP extends MDP with an observation space and observation model.
type POMDP interface {
	MDP
	NumObservations() int
	ObservationProbability(sPrime, a, o int) float64
	SampleSOR(s, a int, rng *rand.Rand) (sPrime, o int, r float64)
}

// RewardBasis is one additive component of a factored reward function: a
// table over (state scope, action scope) whose entries sum, across every
// basis in the model, to the total reward.
type RewardBasis struct {
	StateKeys  []int
	ActionKeys []int
	Table      []float64 // flattened, mixed-radix over StateKeys++ActionKeys
}

// Factored is a factored/cooperative MDP: ordered per-variable state and
// action sizes and an additive reward-basis decomposition. The interface
// does not expose a transition model; a DBN (package dbn) is built and
// held separately by the caller.
type Factored interface {
	StateSizes() []int
	ActionSizes() []int
	RewardBases() []RewardBasis
}
