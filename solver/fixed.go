package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Evaluate runs fixed-policy value iteration (Jacobi): every sweep
// evaluates only the chosen action per state — no maximization. For
// robust processes a nature policy may be supplied: nature[s] is the
// realized outcome distribution the adversary is held to in state s
// (usually taken from a prior Solution); nil means the process
// re-optimizes the outcome distribution against the current values under
// its own uncertainty mode.
//
// Terminal states carry action −1 and evaluate to 0.
//
// Errors: those of prepare, ErrShapeMismatch when len(policy) or a
// non-nil len(nature) differs from the number of states, and whatever
// Process.Evaluate surfaces.
func Evaluate(p Process, policy []int, nature [][]float64, opts Options) (Solution, error) {
	prev, err := prepare(p, &opts)
	if err != nil {
		return Solution{}, err
	}

	n := p.NumStates()
	if len(policy) != n {
		return Solution{}, fmt.Errorf("%w: policy has %d entries for %d states",
			ErrShapeMismatch, len(policy), n)
	}
	if nature != nil && len(nature) != n {
		return Solution{}, fmt.Errorf("%w: nature policy has %d entries for %d states",
			ErrShapeMismatch, len(nature), n)
	}

	next := make([]float64, n)
	var (
		residual   float64
		iterations int
	)
	for iterations = 0; iterations < opts.Iterations; iterations++ {
		if err = sweepEvaluate(p, prev, next, policy, nature, opts.Discount, opts.Parallel); err != nil {
			return Solution{}, err
		}
		residual = floats.Distance(next, prev, math.Inf(1))
		prev, next = next, prev
		if converged(residual, opts.MaxResidual) {
			iterations++
			break
		}
	}

	out := Solution{
		Values:     prev,
		Policy:     append([]int(nil), policy...),
		Residual:   residual,
		Iterations: iterations,
	}
	if nature != nil {
		out.Nature = nature
	}

	return out, nil
}
