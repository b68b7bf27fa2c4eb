package robust

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FromMatrices builds an RMDP from dense gonum matrices. Each layer
// transitions[l] is an |S|×|S| kernel populating the (actions[l],
// outcomes[l]) slot of every source state; rewards is |S|×L with the
// per-(state, layer) reward. Probabilities at or below ignoreThreshold
// are discarded (use mdp.DefaultIgnoreThreshold).
//
// (action, outcome) pairs must be unique across layers — a duplicate is
// rejected rather than silently overwritten.
//
// Base distributions are set uniform over each action's outcomes;
// callers reshape them with SetDistribution. Thresholds start at 0.
//
// Errors: ErrShapeMismatch on inconsistent dimensions,
// ErrInvalidParameter on duplicate (action, outcome) pairs, negative
// identifiers or negative probabilities above the cutoff.
//
// Complexity: O(L·|S|²).
func FromMatrices(transitions []*mat.Dense, rewards *mat.Dense, actions, outcomes []int, ignoreThreshold float64) (*RMDP, error) {
	layers := len(transitions)
	if layers == 0 {
		return nil, fmt.Errorf("%w: no transition matrices", ErrShapeMismatch)
	}
	if len(actions) != layers || len(outcomes) != layers {
		return nil, fmt.Errorf("%w: %d layers, %d actions, %d outcomes",
			ErrShapeMismatch, layers, len(actions), len(outcomes))
	}
	numStates, cols := transitions[0].Dims()
	if numStates != cols {
		return nil, fmt.Errorf("%w: transition matrix is %d×%d", ErrShapeMismatch, numStates, cols)
	}
	if rr, rc := rewards.Dims(); rr != numStates || rc != layers {
		return nil, fmt.Errorf("%w: reward matrix is %d×%d, want %d×%d",
			ErrShapeMismatch, rr, rc, numStates, layers)
	}

	seen := make(map[[2]int]bool, layers)
	m := &RMDP{}
	m.grow(numStates)
	for l, tm := range transitions {
		if actions[l] < 0 || outcomes[l] < 0 {
			return nil, fmt.Errorf("%w: layer %d targets action %d outcome %d",
				ErrInvalidParameter, l, actions[l], outcomes[l])
		}
		pair := [2]int{actions[l], outcomes[l]}
		if seen[pair] {
			return nil, fmt.Errorf("%w: duplicate (action %d, outcome %d) pair",
				ErrInvalidParameter, actions[l], outcomes[l])
		}
		seen[pair] = true

		if r, c := tm.Dims(); r != numStates || c != numStates {
			return nil, fmt.Errorf("%w: transition matrix %d is %d×%d, want %d×%d",
				ErrShapeMismatch, l, r, c, numStates, numStates)
		}
		for s := 0; s < numStates; s++ {
			for next := 0; next < numStates; next++ {
				p := tm.At(s, next)
				if p <= ignoreThreshold {
					continue
				}
				if err := m.AddTransition(s, actions[l], outcomes[l], next, p, rewards.At(s, l)); err != nil {
					return nil, err
				}
			}
		}
	}

	// Uniform base distributions; accumulated builder weights are replaced.
	for s := range m.states {
		for a := range m.states[s].actions {
			act := &m.states[s].actions[a]
			if n := act.NumOutcomes(); n > 0 {
				q := make([]float64, n)
				for i := range q {
					q[i] = 1 / float64(n)
				}
				if err := act.SetDistribution(q); err != nil {
					return nil, err
				}
			}
		}
	}

	return m, nil
}
