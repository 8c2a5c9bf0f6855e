package chat

import (
	"math/rand"
)

// DefaultReviewThreshold matches the reference cycle: while the history is
// shorter than this, the critic hands off to a random specialist reviewer;
// once reached, the critic hands off to the meta reviewer.
const DefaultReviewThreshold = 3

// Chooser picks one of n options. Injected so tests can replace uncontrolled
// randomness with a scripted sequence.
type Chooser interface {
	Pick(n int) int
}

// randChooser is the production chooser backed by math/rand.
type randChooser struct{}

func (randChooser) Pick(n int) int {
	return rand.Intn(n)
}

// NewRandChooser returns the default pseudo-random chooser.
func NewRandChooser() Chooser {
	return randChooser{}
}

// Machine decides which participant speaks next within one section's review
// cycle. It is a pure step function over the conversation log: the caller
// owns the log and the turn budget, and the machine has no terminal state.
// Exhausting the budget can cut a cycle short before the meta reviewer
// speaks, which is accepted behavior.
type Machine struct {
	cast      Cast
	threshold int
	chooser   Chooser
}

// NewMachine builds a state machine for the given cast. A threshold <= 0
// falls back to DefaultReviewThreshold; a nil chooser falls back to the
// math/rand chooser.
func NewMachine(cast Cast, threshold int, chooser Chooser) *Machine {
	if threshold <= 0 {
		threshold = DefaultReviewThreshold
	}
	if chooser == nil {
		chooser = NewRandChooser()
	}
	return &Machine{cast: cast, threshold: threshold, chooser: chooser}
}

// Next returns the role that speaks next given the conversation so far.
func (m *Machine) Next(log Log) Role {
	if log.Len() == 0 {
		return m.cast.Writer.Role
	}

	last, _ := log.Last()
	if last.Role == m.cast.Writer.Role {
		return m.cast.Critic.Role
	}
	if log.Len() <= 1 {
		// Fresh cycle: anything else this early restarts with the writer.
		return m.cast.Writer.Role
	}

	switch {
	case last.Role == m.cast.Meta.Role:
		// Cycle closes; a new drafting turn begins.
		return m.cast.Writer.Role
	case m.cast.IsReviewer(last.Role):
		return m.cast.Critic.Role
	case last.Role == m.cast.Critic.Role:
		if log.Len() < m.threshold {
			return m.pickReviewer()
		}
		return m.cast.Meta.Role
	default:
		return m.pickReviewer()
	}
}

func (m *Machine) pickReviewer() Role {
	return m.cast.Reviewers[m.chooser.Pick(len(m.cast.Reviewers))].Role
}
