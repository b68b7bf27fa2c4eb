package mdp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultIgnoreThreshold is the sparsity filter applied by FromMatrices:
// probabilities at or below it are discarded.
const DefaultIgnoreThreshold = 1e-10

// FromMatrices builds an MDP from dense gonum matrices: transitions[a]
// is the |S|×|S| kernel of action a (row = source state, column = next
// state) and rewards is |S|×|A| with the per-(state, action) reward.
// Any probability ≤ ignoreThreshold is discarded; pass
// DefaultIgnoreThreshold unless a different cutoff is needed.
//
// Errors: ErrShapeMismatch when any matrix dimension disagrees with |S|
// or |A|; ErrInvalidParameter on a negative probability above the cutoff.
//
// Complexity: O(|A|·|S|²).
func FromMatrices(transitions []*mat.Dense, rewards *mat.Dense, ignoreThreshold float64) (*MDP, error) {
	numActions := len(transitions)
	if numActions == 0 {
		return nil, fmt.Errorf("%w: no transition matrices", ErrShapeMismatch)
	}
	numStates, cols := transitions[0].Dims()
	if numStates != cols {
		return nil, fmt.Errorf("%w: transition matrix is %d×%d", ErrShapeMismatch, numStates, cols)
	}
	rr, rc := rewards.Dims()
	if rr != numStates || rc != numActions {
		return nil, fmt.Errorf("%w: reward matrix is %d×%d, want %d×%d",
			ErrShapeMismatch, rr, rc, numStates, numActions)
	}

	m := &MDP{}
	m.grow(numStates)
	for a, tm := range transitions {
		if r, c := tm.Dims(); r != numStates || c != numStates {
			return nil, fmt.Errorf("%w: transition matrix %d is %d×%d, want %d×%d",
				ErrShapeMismatch, a, r, c, numStates, numStates)
		}
		for s := 0; s < numStates; s++ {
			for next := 0; next < numStates; next++ {
				p := tm.At(s, next)
				if p <= ignoreThreshold {
					continue
				}
				if err := m.AddTransition(s, a, next, p, rewards.At(s, a)); err != nil {
					return nil, err
				}
			}
		}
	}

	return m, nil
}

// ToMatrices is the inverse of FromMatrices. It requires a uniform action
// count across states and returns per-action dense kernels plus the
// reward matrix R[s,a] = Σₛ′ T[s,s′,a]·r(s,a,s′).
//
// Errors: ErrUnsupported on a ragged MDP; ErrShapeMismatch on an empty one.
func (m *MDP) ToMatrices() ([]*mat.Dense, *mat.Dense, error) {
	numStates := len(m.states)
	if numStates == 0 {
		return nil, nil, fmt.Errorf("%w: empty model", ErrShapeMismatch)
	}
	numActions := m.states[0].NumActions()
	for s := range m.states {
		if m.states[s].NumActions() != numActions {
			return nil, nil, fmt.Errorf("%w: state %d has %d actions, state 0 has %d",
				ErrUnsupported, s, m.states[s].NumActions(), numActions)
		}
	}

	transitions := make([]*mat.Dense, numActions)
	rewards := mat.NewDense(numStates, max(numActions, 1), nil)
	for a := 0; a < numActions; a++ {
		transitions[a] = mat.NewDense(numStates, numStates, nil)
		for s := 0; s < numStates; s++ {
			tr := &m.states[s].actions[a].transition
			for i := 0; i < tr.Len(); i++ {
				transitions[a].Set(s, tr.Index(i), tr.Probability(i))
			}
			rewards.Set(s, a, tr.MeanReward())
		}
	}

	return transitions, rewards, nil
}
