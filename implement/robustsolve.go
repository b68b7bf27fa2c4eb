package implement

import (
	"fmt"

	"github.com/Elsin/CRAAM/robust"
	"github.com/Elsin/CRAAM/solver"
)

// SolveRobust searches for an observation policy through a robust
// aggregate model. The MDP is collapsed onto its observations: for every
// observation o and admissible action a, an L1 outcome action is built
// with one outcome per non-terminal member state of o — the member's
// nominal transition with next states mapped through φ. The base
// distribution weights the members by the initial distribution
// (uniform when the class carries no initial mass), and nature may
// shift up to threshold τ of L1 mass toward the worst member. The
// robust decision policy of the aggregate is an observation policy by
// construction.
//
// Returns the observation policy and the state-level fixed-policy
// solution of its broadcast on the original MDP (1e-8 precision).
//
// Errors: ErrInvalidParameter on a negative threshold or discount
// outside [0,1); ErrNoAdmissibleAction; builder and solver errors.
func SolveRobust(p *Problem, threshold float64, opts Options) ([]int, solver.Solution, error) {
	if opts.Discount < 0 || opts.Discount >= 1 {
		return nil, solver.Solution{}, fmt.Errorf("%w: discount %g", ErrInvalidParameter, opts.Discount)
	}
	if threshold < 0 {
		return nil, solver.Solution{}, fmt.Errorf("%w: threshold %g", ErrInvalidParameter, threshold)
	}

	rm, err := p.aggregate()
	if err != nil {
		return nil, solver.Solution{}, err
	}
	if err = rm.SetThresholds(threshold); err != nil {
		return nil, solver.Solution{}, err
	}
	view, err := rm.Under(robust.Robust)
	if err != nil {
		return nil, solver.Solution{}, err
	}
	aggSol, err := solver.SolveGS(view, solver.Options{
		Discount:    opts.Discount,
		MaxResidual: evalPrecision,
	})
	if err != nil {
		return nil, solver.Solution{}, err
	}

	obsPolicy := aggSol.Policy
	statePolicy, err := p.StatePolicy(obsPolicy)
	if err != nil {
		return nil, solver.Solution{}, err
	}
	sol, err := solver.Evaluate(p.m, statePolicy, nil, solver.Options{
		Discount:    opts.Discount,
		MaxResidual: evalPrecision,
	})
	if err != nil {
		return nil, solver.Solution{}, err
	}

	return obsPolicy, sol, nil
}

// aggregate builds the robust observation-level model described in
// SolveRobust.
func (p *Problem) aggregate() (*robust.RMDP, error) {
	admissible, err := p.admissibleActions()
	if err != nil {
		return nil, err
	}
	memberStates := p.members()

	rm := &robust.RMDP{}
	// Every observation id is a state of the aggregate, even when all of
	// its members are terminal.
	rm.Grow(p.numObs)
	for o, states := range memberStates {
		if admissible[o] == 0 {
			continue
		}
		// Member weights from the initial distribution, uniform fallback.
		weights := make([]float64, 0, len(states))
		nonTerminal := make([]int, 0, len(states))
		var mass float64
		for _, s := range states {
			st, serr := p.m.State(s)
			if serr != nil {
				return nil, fmt.Errorf("implement: %w", serr)
			}
			if st.Terminal() {
				continue
			}
			nonTerminal = append(nonTerminal, s)
			weights = append(weights, p.initial[s])
			mass += p.initial[s]
		}
		for i := range weights {
			if mass > 0 {
				weights[i] /= mass
			} else {
				weights[i] = 1 / float64(len(weights))
			}
		}

		for a := 0; a < admissible[o]; a++ {
			for j, s := range nonTerminal {
				st, _ := p.m.State(s)
				act, aerr := st.Action(a)
				if aerr != nil {
					return nil, fmt.Errorf("implement: %w", aerr)
				}
				t := act.Transition()
				for i := 0; i < t.Len(); i++ {
					next := p.observations[t.Index(i)]
					if terr := rm.AddTransition(o, a, j, next, t.Probability(i), t.Reward(i)); terr != nil {
						return nil, fmt.Errorf("implement: %w", terr)
					}
				}
			}
			if derr := rm.SetDistribution(o, a, weights); derr != nil {
				return nil, fmt.Errorf("implement: %w", derr)
			}
		}
	}
	return rm, nil
}
