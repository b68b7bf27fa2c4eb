package robust

import (
	"encoding/json"
	"fmt"

	"github.com/Elsin/CRAAM/mdp"
	"gonum.org/v1/gonum/floats"
)

// RobustState is an ordered container of L1 outcome actions; the action
// id is the position. A state with zero actions is terminal.
type RobustState struct {
	actions []L1OutcomeAction
}

// NumActions returns the number of actions in the state.
func (s *RobustState) NumActions() int { return len(s.actions) }

// Terminal reports whether the state has no actions.
func (s *RobustState) Terminal() bool { return len(s.actions) == 0 }

// Action returns action a for read access.
//
// Errors: ErrOutOfRange when a does not address an existing action.
func (s *RobustState) Action(a int) (*L1OutcomeAction, error) {
	if a < 0 || a >= len(s.actions) {
		return nil, fmt.Errorf("%w: action %d of %d", ErrOutOfRange, a, len(s.actions))
	}

	return &s.actions[a], nil
}

// RMDP is an ordered container of robust states with the same builder
// conventions as mdp.MDP: dense 0-based identifiers, auto-extension,
// empty fresh slots.
//
// The zero value is an empty, ready-to-use RMDP.
type RMDP struct {
	states []RobustState
}

// NumStates returns the number of states.
func (m *RMDP) NumStates() int { return len(m.states) }

// State returns state s for read access.
//
// Errors: ErrOutOfRange when s does not address an existing state.
func (m *RMDP) State(s int) (*RobustState, error) {
	if s < 0 || s >= len(m.states) {
		return nil, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, s, len(m.states))
	}

	return &m.states[s], nil
}

// AddTransition inserts a transition sample (from, action, outcome, to,
// p, r), auto-extending states, actions and outcomes as needed. The base
// weight of the touched outcome is increased by p, so that after
// Normalize the base distribution reflects accumulated mass.
//
// Errors: ErrInvalidParameter on negative identifiers or probability.
func (m *RMDP) AddTransition(from, action, outcome, to int, probability, reward float64) error {
	if from < 0 || action < 0 || to < 0 {
		return fmt.Errorf("%w: state %d action %d next state %d", ErrInvalidParameter, from, action, to)
	}
	if probability < 0 {
		return fmt.Errorf("%w: negative probability %g", ErrInvalidParameter, probability)
	}
	limit := from
	if to > limit {
		limit = to
	}
	m.grow(limit + 1)
	st := &m.states[from]
	for len(st.actions) <= action {
		st.actions = append(st.actions, L1OutcomeAction{})
	}
	a := &st.actions[action]
	if err := a.AddSample(outcome, to, probability, reward); err != nil {
		return err
	}

	return a.AddBaseWeight(outcome, probability)
}

// SetDistribution replaces the base distribution of (state, action).
func (m *RMDP) SetDistribution(state, action int, q []float64) error {
	a, err := m.action(state, action)
	if err != nil {
		return err
	}

	return a.SetDistribution(q)
}

// SetThreshold sets the L1 budget of a single (state, action).
func (m *RMDP) SetThreshold(state, action int, t float64) error {
	a, err := m.action(state, action)
	if err != nil {
		return err
	}

	return a.SetThreshold(t)
}

// SetThresholds sets the same L1 budget on every action of the model.
func (m *RMDP) SetThresholds(t float64) error {
	for s := range m.states {
		for a := range m.states[s].actions {
			if err := m.states[s].actions[a].SetThreshold(t); err != nil {
				return err
			}
		}
	}

	return nil
}

// Normalize normalizes every action: base distributions rescaled to sum
// to 1, every outcome transition normalized.
func (m *RMDP) Normalize() {
	for s := range m.states {
		for a := range m.states[s].actions {
			m.states[s].actions[a].Normalize()
		}
	}
}

// Validate checks the solving invariants of every action.
func (m *RMDP) Validate() error {
	for s := range m.states {
		for a := range m.states[s].actions {
			if err := m.states[s].actions[a].validate(); err != nil {
				return fmt.Errorf("state %d action %d: %w", s, a, err)
			}
		}
	}

	return nil
}

// Clone returns a deep copy of the model.
func (m *RMDP) Clone() *RMDP {
	c := &RMDP{states: make([]RobustState, len(m.states))}
	for s := range m.states {
		actions := make([]L1OutcomeAction, len(m.states[s].actions))
		for a := range actions {
			src := &m.states[s].actions[a]
			outcomes := make([]mdp.Transition, len(src.outcomes))
			for o := range src.outcomes {
				outcomes[o] = src.outcomes[o].Clone()
			}
			actions[a] = L1OutcomeAction{
				outcomes:  outcomes,
				dist:      append([]float64(nil), src.dist...),
				threshold: src.threshold,
			}
		}
		c.states[s].actions = actions
	}

	return c
}

// Under binds an uncertainty mode to the model, producing a view that
// satisfies solver.Process. The kernel is selected here, once, so the
// per-state backup carries no mode switch.
//
// Errors: ErrUnknownUncertainty.
func (m *RMDP) Under(u Uncertainty) (*View, error) {
	var kernel func(a *L1OutcomeAction, v []float64, discount float64) (float64, []float64, error)
	switch u {
	case Average:
		kernel = func(a *L1OutcomeAction, v []float64, discount float64) (float64, []float64, error) {
			return a.averageValue(v, discount)
		}
	case Robust:
		kernel = func(a *L1OutcomeAction, v []float64, discount float64) (float64, []float64, error) {
			return a.robustValue(v, discount)
		}
	case Optimistic:
		kernel = func(a *L1OutcomeAction, v []float64, discount float64) (float64, []float64, error) {
			return a.optimisticValue(v, discount)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownUncertainty, int(u))
	}

	return &View{m: m, mode: u, kernel: kernel}, nil
}

// View is an RMDP bound to one uncertainty mode; it satisfies
// solver.Process.
type View struct {
	m      *RMDP
	mode   Uncertainty
	kernel func(a *L1OutcomeAction, v []float64, discount float64) (float64, []float64, error)
}

// Mode returns the bound uncertainty mode.
func (w *View) Mode() Uncertainty { return w.mode }

// NumStates returns the number of states of the underlying RMDP.
func (w *View) NumStates() int { return w.m.NumStates() }

// Validate delegates to the underlying RMDP.
func (w *View) Validate() error { return w.m.Validate() }

// Backup performs the greedy backup for state s under the bound mode:
// best action value, action id and the realized outcome distribution.
// Terminal states report value 0, action −1 and nil nature. Ties break
// toward the lowest action id.
func (w *View) Backup(s int, v []float64, discount float64) (float64, int, []float64, error) {
	if s < 0 || s >= len(w.m.states) {
		return 0, -1, nil, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, s, len(w.m.states))
	}
	st := &w.m.states[s]
	if st.Terminal() {
		return 0, -1, nil, nil
	}

	best, bestAction, bestNature := 0.0, -1, []float64(nil)
	for a := range st.actions {
		val, nat, err := w.kernel(&st.actions[a], v, discount)
		if err != nil {
			return 0, -1, nil, fmt.Errorf("state %d action %d: %w", s, a, err)
		}
		if bestAction == -1 || val > best {
			best, bestAction, bestNature = val, a, nat
		}
	}

	return best, bestAction, bestNature, nil
}

// Evaluate computes the value of the fixed action in state s. A non-nil
// nature fixes the outcome distribution (the second, "nature" policy of
// robust fixed-point evaluation); a nil nature lets the bound kernel
// re-optimize against v. Terminal states evaluate to 0.
func (w *View) Evaluate(s, action int, nature []float64, v []float64, discount float64) (float64, error) {
	if s < 0 || s >= len(w.m.states) {
		return 0, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, s, len(w.m.states))
	}
	st := &w.m.states[s]
	if st.Terminal() {
		return 0, nil
	}
	a, err := st.Action(action)
	if err != nil {
		return 0, err
	}
	if nature == nil {
		val, _, kerr := w.kernel(a, v, discount)

		return val, kerr
	}
	if len(nature) != len(a.outcomes) {
		return 0, fmt.Errorf("%w: %d nature weights for %d outcomes",
			ErrShapeMismatch, len(nature), len(a.outcomes))
	}
	z := a.outcomeValues(nil, v, discount)

	return floats.Dot(nature, z), nil
}

// Grow pre-extends the model to at least n states; fresh slots are
// empty (terminal until actions are added).
func (m *RMDP) Grow(n int) { m.grow(n) }

// action resolves an existing (state, action) pair.
func (m *RMDP) action(state, action int) (*L1OutcomeAction, error) {
	st, err := m.State(state)
	if err != nil {
		return nil, err
	}

	return st.Action(action)
}

// grow extends the state container to at least n slots.
func (m *RMDP) grow(n int) {
	for len(m.states) < n {
		m.states = append(m.states, RobustState{})
	}
}

// MarshalJSON emits the state→action→outcome→transition tree for
// inspection.
func (m *RMDP) MarshalJSON() ([]byte, error) {
	type outcomeJSON struct {
		ID         int             `json:"id"`
		Weight     float64         `json:"weight"`
		Transition json.RawMessage `json:"transition"`
	}
	type actionJSON struct {
		ID        int           `json:"id"`
		Threshold float64       `json:"threshold"`
		Outcomes  []outcomeJSON `json:"outcomes"`
	}
	type stateJSON struct {
		ID      int          `json:"id"`
		Actions []actionJSON `json:"actions"`
	}

	states := make([]stateJSON, len(m.states))
	for s := range m.states {
		actions := make([]actionJSON, len(m.states[s].actions))
		for a := range actions {
			act := &m.states[s].actions[a]
			outcomes := make([]outcomeJSON, len(act.outcomes))
			for o := range act.outcomes {
				raw, err := json.Marshal(&act.outcomes[o])
				if err != nil {
					return nil, err
				}
				outcomes[o] = outcomeJSON{ID: o, Weight: act.dist[o], Transition: raw}
			}
			actions[a] = actionJSON{ID: a, Threshold: act.threshold, Outcomes: outcomes}
		}
		states[s] = stateJSON{ID: s, Actions: actions}
	}

	return json.Marshal(struct {
		States []stateJSON `json:"states"`
	}{States: states})
}
