package implement

import (
	"fmt"
	"math"

	"github.com/Elsin/CRAAM/solver"
)

// Options configures the implementable-policy solvers.
//
// Fields:
//   - Discount   — γ ∈ [0,1).
//   - Iterations — outer iterations (reweighting rounds for
//     SolveReweighted); DefaultIterations when 0.
type Options struct {
	Discount   float64
	Iterations int
}

// DefaultIterations caps the reweighting rounds.
const DefaultIterations = 50

// SolveReweighted searches for an observation policy by alternating
// (i) fixed-policy evaluation of the current broadcast policy,
// (ii) computation of the discounted state occupancy it induces, and
// (iii) per-observation re-selection of the admissible action with the
// highest occupancy-weighted sum of state Q-values. The loop stops when
// the observation policy is stable or after opts.Iterations rounds.
//
// Returns the observation policy and the state-level fixed-policy
// solution of its broadcast (1e-8 precision).
//
// Errors: ErrNoAdmissibleAction, solver errors, validation errors.
func SolveReweighted(p *Problem, opts Options) ([]int, solver.Solution, error) {
	if opts.Discount < 0 || opts.Discount >= 1 {
		return nil, solver.Solution{}, fmt.Errorf("%w: discount %g", ErrInvalidParameter, opts.Discount)
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	admissible, err := p.admissibleActions()
	if err != nil {
		return nil, solver.Solution{}, err
	}
	memberStates := p.members()

	// Start from the lowest admissible action everywhere.
	obsPolicy := make([]int, p.numObs)
	for o := range obsPolicy {
		if admissible[o] == 0 {
			obsPolicy[o] = -1
		}
	}

	var sol solver.Solution
	for iter := 0; iter < opts.Iterations; iter++ {
		statePolicy, serr := p.StatePolicy(obsPolicy)
		if serr != nil {
			return nil, solver.Solution{}, serr
		}
		sol, err = solver.Evaluate(p.m, statePolicy, nil, solver.Options{
			Discount:    opts.Discount,
			MaxResidual: evalPrecision,
		})
		if err != nil {
			return nil, solver.Solution{}, err
		}
		occupancy, oerr := p.occupancy(statePolicy, opts.Discount)
		if oerr != nil {
			return nil, solver.Solution{}, oerr
		}

		changed := false
		for o, states := range memberStates {
			if admissible[o] == 0 {
				continue
			}
			best, bestAction := math.Inf(-1), obsPolicy[o]
			for a := 0; a < admissible[o]; a++ {
				var score float64
				for _, s := range states {
					st, aerr := p.m.State(s)
					if aerr != nil {
						return nil, solver.Solution{}, fmt.Errorf("implement: %w", aerr)
					}
					if st.Terminal() {
						continue
					}
					act, aerr2 := st.Action(a)
					if aerr2 != nil {
						return nil, solver.Solution{}, fmt.Errorf("implement: %w", aerr2)
					}
					score += occupancy[s] * act.ExpectedValue(sol.Values, opts.Discount)
				}
				if score > best {
					best, bestAction = score, a
				}
			}
			if bestAction != obsPolicy[o] {
				obsPolicy[o] = bestAction
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	// Final evaluation of the settled policy.
	statePolicy, serr := p.StatePolicy(obsPolicy)
	if serr != nil {
		return nil, solver.Solution{}, serr
	}
	sol, err = solver.Evaluate(p.m, statePolicy, nil, solver.Options{
		Discount:    opts.Discount,
		MaxResidual: evalPrecision,
	})
	if err != nil {
		return nil, solver.Solution{}, err
	}

	return obsPolicy, sol, nil
}

// ReturnValue evaluates an observation policy: the initial-distribution-
// weighted return of its broadcast under the given discount, computed to
// 1e-8 precision.
func (p *Problem) ReturnValue(obsPolicy []int, discount float64) (float64, error) {
	statePolicy, err := p.StatePolicy(obsPolicy)
	if err != nil {
		return 0, err
	}
	sol, err := solver.Evaluate(p.m, statePolicy, nil, solver.Options{
		Discount:    discount,
		MaxResidual: evalPrecision,
	})
	if err != nil {
		return 0, err
	}

	return sol.Returns(p.initial)
}

// occupancy computes the discounted state-occupancy of a fixed policy by
// power iteration: d ← initial + γ·Pπᵀ·d until the update drops below
// the evaluation precision.
func (p *Problem) occupancy(statePolicy []int, discount float64) ([]float64, error) {
	n := p.m.NumStates()
	d := append([]float64(nil), p.initial...)
	next := make([]float64, n)

	for iter := 0; iter < solver.DefaultIterations; iter++ {
		copy(next, p.initial)
		for s := 0; s < n; s++ {
			if d[s] == 0 || statePolicy[s] < 0 {
				continue
			}
			st, err := p.m.State(s)
			if err != nil {
				return nil, fmt.Errorf("implement: %w", err)
			}
			act, err := st.Action(statePolicy[s])
			if err != nil {
				return nil, fmt.Errorf("implement: %w", err)
			}
			t := act.Transition()
			for i := 0; i < t.Len(); i++ {
				next[t.Index(i)] += discount * d[s] * t.Probability(i)
			}
		}
		var residual float64
		for s := range next {
			if diff := math.Abs(next[s] - d[s]); diff > residual {
				residual = diff
			}
		}
		d, next = next, d
		if residual <= evalPrecision {
			break
		}
	}

	return d, nil
}
