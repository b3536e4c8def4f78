// Package timestep implements timesteps of the agent-environment
// interaction, adapted from the teacher's continuous-observation TimeStep
// to the discrete, possibly factored state representation this module's
// models use.
package timestep

// StepType denotes the type of step that a TimeStep can be: the first
// environmental step, a middle step, or a last step.
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

// TimeStep packages together a single timestep in an environment. State is
// a flat state id for a non-factored model, or a full factored assignment
// (one entry per state variable) for a factored model; callers agree on
// which shape applies for a given environment.
type TimeStep struct {
	stepType StepType
	Reward   float64
	Discount float64
	State    []int
}

// New constructs a TimeStep.
func New(t StepType, r, d float64, s []int) TimeStep {
	return TimeStep{stepType: t, Reward: r, Discount: d, State: s}
}

// First returns whether a TimeStep is the first in an environment.
func (t *TimeStep) First() bool { return t.stepType == First }

// Mid returns whether a TimeStep is a middle step in an environment.
func (t *TimeStep) Mid() bool { return t.stepType == Mid }

// Last returns whether a TimeStep is the last step in an environment.
func (t *TimeStep) Last() bool { return t.stepType == Last }
