package simulate

import (
	"fmt"
	"math/rand"

	"github.com/Elsin/CRAAM/mdp"
)

// Policy selects an action for a state during simulation. The simulator
// only consults the policy on non-terminal states.
type Policy interface {
	Action(state int) (int, error)
}

// RandomPolicy picks uniformly among the actions available in each
// state. It is deterministic given its seed.
type RandomPolicy struct {
	m   *mdp.MDP
	rng *rand.Rand
}

// NewRandomPolicy builds a uniform-random policy over m; seed==0 selects
// the fixed default seed.
func NewRandomPolicy(m *mdp.MDP, seed int64) *RandomPolicy {
	return &RandomPolicy{m: m, rng: rngFromSeed(seed)}
}

// Action returns a uniformly drawn available action.
//
// Errors: ErrOutOfRange for an unknown state, ErrNoAction for a terminal
// state.
func (p *RandomPolicy) Action(state int) (int, error) {
	st, err := p.m.State(state)
	if err != nil {
		return -1, fmt.Errorf("%w: state %d", ErrOutOfRange, state)
	}
	if st.Terminal() {
		return -1, fmt.Errorf("%w: state %d is terminal", ErrNoAction, state)
	}

	return p.rng.Intn(st.NumActions()), nil
}

// DeterministicPolicy selects a fixed action per state from an array
// indexed by state id.
type DeterministicPolicy struct {
	actions []int
}

// NewDeterministicPolicy wraps the per-state action array; entry −1
// marks a state the policy never expects to visit.
func NewDeterministicPolicy(actions []int) DeterministicPolicy {
	return DeterministicPolicy{actions: append([]int(nil), actions...)}
}

// Action returns the fixed action of the state.
//
// Errors: ErrOutOfRange when the state is outside the array, ErrNoAction
// when the entry is negative.
func (p DeterministicPolicy) Action(state int) (int, error) {
	if state < 0 || state >= len(p.actions) {
		return -1, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, state, len(p.actions))
	}
	if p.actions[state] < 0 {
		return -1, fmt.Errorf("%w: state %d has no assigned action", ErrNoAction, state)
	}

	return p.actions[state], nil
}
