package robust

import (
	"fmt"

	"github.com/Elsin/CRAAM/mdp"
)

// Robustify lifts a nominal MDP into an L1-robust RMDP. Every nominal
// action becomes an L1 outcome action whose outcomes are deterministic
// single-state transitions, so nature redistributes probability between
// successor states directly:
//
//   - allowZeros=true: one outcome per state k of the whole model;
//     outcome k jumps to k with the nominal reward for k (0 when k is
//     outside the nominal support). The base distribution carries the
//     nominal probability of k — zero off-support. Nature can therefore
//     move mass onto states the nominal model never reaches.
//   - allowZeros=false: outcomes only for the nominal support, in the
//     support's ascending state order; q matches the nominal mass.
//
// Every threshold starts at 0 — a pure nominal model — and is raised by
// the caller through SetThresholds.
//
// Errors: ErrOutOfRange when the nominal model references a state it
// does not contain (builder extension guarantees it never does).
func Robustify(m *mdp.MDP, allowZeros bool) (*RMDP, error) {
	n := m.NumStates()
	out := &RMDP{}
	out.grow(n)

	for s := 0; s < n; s++ {
		st, err := m.State(s)
		if err != nil {
			return nil, fmt.Errorf("robust: %w", err)
		}
		actions := make([]L1OutcomeAction, st.NumActions())
		for a := range actions {
			var na *mdp.RegularAction
			if na, err = st.Action(a); err != nil {
				return nil, fmt.Errorf("robust: %w", err)
			}
			if actions[a], err = robustifyAction(na.Transition(), n, allowZeros); err != nil {
				return nil, err
			}
		}
		out.states[s].actions = actions
	}

	return out, nil
}

// robustifyAction expands one nominal transition row into an outcome-
// per-next-state L1 action with threshold 0.
func robustifyAction(t *mdp.Transition, numStates int, allowZeros bool) (L1OutcomeAction, error) {
	var a L1OutcomeAction
	if t.Len() == 0 {
		// Unpopulated nominal action; keep the robust action empty too.
		return a, nil
	}
	if allowZeros {
		// One outcome per state of the model; off-support outcomes carry
		// reward 0 and base weight 0.
		q := make([]float64, numStates)
		for k := 0; k < numStates; k++ {
			if err := a.AddSample(k, k, 1, 0); err != nil {
				return L1OutcomeAction{}, err
			}
		}
		for i := 0; i < t.Len(); i++ {
			k := t.Index(i)
			if k >= numStates {
				return L1OutcomeAction{}, fmt.Errorf("%w: state %d of %d", ErrOutOfRange, k, numStates)
			}
			q[k] = t.Probability(i)
			if err := a.outcomes[k].SetReward(0, t.Reward(i)); err != nil {
				return L1OutcomeAction{}, fmt.Errorf("robust: %w", err)
			}
		}

		return a, a.SetDistribution(q)
	}

	// Support only: outcome order follows the row's ascending state order.
	q := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if err := a.AddSample(i, t.Index(i), 1, t.Reward(i)); err != nil {
			return L1OutcomeAction{}, err
		}
		q = append(q, t.Probability(i))
	}

	return a, a.SetDistribution(q)
}
