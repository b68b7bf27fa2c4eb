package implement

import (
	"errors"
	"fmt"

	"github.com/Elsin/CRAAM/mdp"
)

var (
	// ErrShapeMismatch indicates an observation map or initial distribution
	// whose length differs from the number of states.
	ErrShapeMismatch = errors.New("implement: dimension does not match the model")
	// ErrInvalidParameter indicates a nonsensical input, e.g. a negative
	// observation id or threshold.
	ErrInvalidParameter = errors.New("implement: invalid parameter")
	// ErrNoAdmissibleAction indicates an observation class whose
	// non-terminal states share no common action.
	ErrNoAdmissibleAction = errors.New("implement: observation class has no admissible action")
)

// Precision of the fixed-policy evaluations performed by the solvers.
const evalPrecision = 1e-8

// Problem bundles an MDP with its observation mapping and initial
// distribution.
type Problem struct {
	m            *mdp.MDP
	observations []int
	initial      []float64
	numObs       int
}

// NewProblem validates and bundles the inputs: observations[s] is the
// observation id of state s (dense, non-negative), initial a dense
// probability vector over states.
//
// Errors: ErrShapeMismatch on length disagreements, ErrInvalidParameter
// on a negative observation id, distribution errors from the mdp package.
func NewProblem(m *mdp.MDP, observations []int, initial []float64) (*Problem, error) {
	n := m.NumStates()
	if len(observations) != n {
		return nil, fmt.Errorf("%w: %d observations for %d states", ErrShapeMismatch, len(observations), n)
	}
	if len(initial) != n {
		return nil, fmt.Errorf("%w: initial distribution has %d entries for %d states",
			ErrShapeMismatch, len(initial), n)
	}
	if err := mdp.CheckDistribution(initial); err != nil {
		return nil, fmt.Errorf("implement: %w", err)
	}
	numObs := 0
	for s, o := range observations {
		if o < 0 {
			return nil, fmt.Errorf("%w: state %d has observation %d", ErrInvalidParameter, s, o)
		}
		if o+1 > numObs {
			numObs = o + 1
		}
	}

	return &Problem{
		m:            m,
		observations: append([]int(nil), observations...),
		initial:      append([]float64(nil), initial...),
		numObs:       numObs,
	}, nil
}

// MDP returns the underlying model.
func (p *Problem) MDP() *mdp.MDP { return p.m }

// NumObservations returns the number of observation classes.
func (p *Problem) NumObservations() int { return p.numObs }

// Observation returns φ(s).
func (p *Problem) Observation(s int) int { return p.observations[s] }

// members returns, per observation, the member state ids in ascending order.
func (p *Problem) members() [][]int {
	out := make([][]int, p.numObs)
	for s, o := range p.observations {
		out[o] = append(out[o], s)
	}

	return out
}

// admissibleActions returns, per observation, the number of actions
// available in every non-terminal member state (action ids are dense, so
// the intersection is the minimum count). Classes with only terminal
// members report 0.
func (p *Problem) admissibleActions() ([]int, error) {
	counts := make([]int, p.numObs)
	for i := range counts {
		counts[i] = -1
	}
	for s, o := range p.observations {
		st, err := p.m.State(s)
		if err != nil {
			return nil, fmt.Errorf("implement: %w", err)
		}
		if st.Terminal() {
			continue
		}
		if counts[o] == -1 || st.NumActions() < counts[o] {
			counts[o] = st.NumActions()
		}
	}
	for o, c := range counts {
		switch {
		case c == -1:
			counts[o] = 0 // all members terminal
		case c == 0:
			return nil, fmt.Errorf("%w: observation %d", ErrNoAdmissibleAction, o)
		}
	}

	return counts, nil
}

// StatePolicy broadcasts an observation policy to states: π[s] =
// πᴼ[φ(s)], with −1 for terminal states.
//
// Errors: ErrShapeMismatch when len(obsPolicy) ≠ NumObservations.
func (p *Problem) StatePolicy(obsPolicy []int) ([]int, error) {
	if len(obsPolicy) != p.numObs {
		return nil, fmt.Errorf("%w: %d policy entries for %d observations",
			ErrShapeMismatch, len(obsPolicy), p.numObs)
	}
	out := make([]int, p.m.NumStates())
	for s, o := range p.observations {
		st, err := p.m.State(s)
		if err != nil {
			return nil, fmt.Errorf("implement: %w", err)
		}
		if st.Terminal() {
			out[s] = -1
			continue
		}
		out[s] = obsPolicy[o]
	}

	return out, nil
}
