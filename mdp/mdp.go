package mdp

import "fmt"

// RegularAction owns exactly one Transition: the nominal next-state
// distribution and rewards of a plain MDP action.
type RegularAction struct {
	transition Transition
}

// Transition returns the action's sparse row for read access.
func (a *RegularAction) Transition() *Transition { return &a.transition }

// ExpectedValue computes the action value Σᵢ pᵢ·(rᵢ + discount·v[idxᵢ]).
func (a *RegularAction) ExpectedValue(v []float64, discount float64) float64 {
	return a.transition.ExpectedValue(v, discount)
}

// State is an ordered container of actions; the action id is the
// position. A state with zero actions is terminal.
type State struct {
	actions []RegularAction
}

// NumActions returns the number of actions in the state.
func (s *State) NumActions() int { return len(s.actions) }

// Terminal reports whether the state has no actions.
func (s *State) Terminal() bool { return len(s.actions) == 0 }

// Action returns action a for read access.
//
// Errors: ErrOutOfRange when a does not address an existing action.
func (s *State) Action(a int) (*RegularAction, error) {
	if a < 0 || a >= len(s.actions) {
		return nil, fmt.Errorf("%w: action %d of %d", ErrOutOfRange, a, len(s.actions))
	}

	return &s.actions[a], nil
}

// MDP is an ordered container of states with a builder API. State and
// action identifiers are dense 0-based integers equal to their position;
// the builder auto-extends containers when an identifier beyond the
// current end is referenced. Freshly created slots are empty.
//
// The zero value is an empty, ready-to-use MDP.
type MDP struct {
	states []State
}

// NumStates returns the number of states.
func (m *MDP) NumStates() int { return len(m.states) }

// State returns state s for read access.
//
// Errors: ErrOutOfRange when s does not address an existing state.
func (m *MDP) State(s int) (*State, error) {
	if s < 0 || s >= len(m.states) {
		return nil, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, s, len(m.states))
	}

	return &m.states[s], nil
}

// AddTransition inserts a transition sample (from, action, to, p, r) into
// the model, auto-extending states and actions as needed. Repeated
// (from, action, to) triples merge per Transition.Add.
//
// Errors: ErrInvalidParameter on negative identifiers or probability.
func (m *MDP) AddTransition(from, action, to int, probability, reward float64) error {
	if from < 0 || action < 0 {
		return fmt.Errorf("%w: state %d action %d", ErrInvalidParameter, from, action)
	}
	// Make sure both endpoints exist; 'to' may be terminal (no actions).
	m.grow(max(from, to) + 1)
	st := &m.states[from]
	for len(st.actions) <= action {
		st.actions = append(st.actions, RegularAction{})
	}

	return st.actions[action].transition.Add(to, probability, reward)
}

// SetReward overwrites the reward of sample i of (state, action).
//
// Errors: ErrOutOfRange when any identifier is missing.
func (m *MDP) SetReward(state, action, i int, reward float64) error {
	a, err := m.action(state, action)
	if err != nil {
		return err
	}

	return a.transition.SetReward(i, reward)
}

// Normalize rescales every (state, action) row to sum to 1; zero-mass
// rows are left terminal.
func (m *MDP) Normalize() {
	for s := range m.states {
		for a := range m.states[s].actions {
			m.states[s].actions[a].transition.Normalize()
		}
	}
}

// Validate checks that every transition row is normalized (mass 0 or 1).
// Solvers call it before the first sweep.
//
// Errors: ErrNotNormalized naming the offending (state, action).
func (m *MDP) Validate() error {
	for s := range m.states {
		for a := range m.states[s].actions {
			if !m.states[s].actions[a].transition.Normalized() {
				return fmt.Errorf("%w: state %d action %d sums to %g",
					ErrNotNormalized, s, a, m.states[s].actions[a].transition.SumProbabilities())
			}
		}
	}

	return nil
}

// Backup performs the greedy Bellman backup for state s: the best action
// value under v and its action id. Terminal states report value 0 and
// action −1. Ties break toward the lowest action id. The nature
// distribution is always nil for a plain MDP.
func (m *MDP) Backup(s int, v []float64, discount float64) (float64, int, []float64, error) {
	if s < 0 || s >= len(m.states) {
		return 0, -1, nil, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, s, len(m.states))
	}
	st := &m.states[s]
	if st.Terminal() {
		return 0, -1, nil, nil
	}
	best, bestAction := st.actions[0].ExpectedValue(v, discount), 0
	for a := 1; a < len(st.actions); a++ {
		if q := st.actions[a].ExpectedValue(v, discount); q > best {
			best, bestAction = q, a
		}
	}

	return best, bestAction, nil, nil
}

// Evaluate computes the value of the fixed action in state s. The nature
// argument is ignored for a plain MDP. Terminal states evaluate to 0
// regardless of the requested action id (which is −1 by convention).
func (m *MDP) Evaluate(s, action int, _ []float64, v []float64, discount float64) (float64, error) {
	if s < 0 || s >= len(m.states) {
		return 0, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, s, len(m.states))
	}
	st := &m.states[s]
	if st.Terminal() {
		return 0, nil
	}
	a, err := st.Action(action)
	if err != nil {
		return 0, err
	}

	return a.ExpectedValue(v, discount), nil
}

// Clone returns a deep copy of the model.
func (m *MDP) Clone() *MDP {
	c := &MDP{states: make([]State, len(m.states))}
	for s := range m.states {
		actions := make([]RegularAction, len(m.states[s].actions))
		for a := range actions {
			actions[a].transition = m.states[s].actions[a].transition.Clone()
		}
		c.states[s].actions = actions
	}

	return c
}

// Grow pre-extends the model to at least n states; fresh slots are
// empty (terminal until actions are added).
func (m *MDP) Grow(n int) { m.grow(n) }

// grow extends the state container to at least n slots.
func (m *MDP) grow(n int) {
	for len(m.states) < n {
		m.states = append(m.states, State{})
	}
}

// action resolves an existing (state, action) pair.
func (m *MDP) action(state, action int) (*RegularAction, error) {
	st, err := m.State(state)
	if err != nil {
		return nil, err
	}

	return st.Action(action)
}
