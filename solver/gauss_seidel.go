package solver

import "math"

// SolveGS runs value iteration with Gauss–Seidel sweeps: states are
// updated in-place in ascending id order, so later states inside a sweep
// already see the updated values of earlier ones. The update order is
// part of the contract — convergence speed depends on it.
//
// Errors: those of prepare (ErrNilProcess, ErrInvalidDiscount,
// ErrShapeMismatch) and whatever Process.Backup surfaces. The input
// options are never partially applied: on error the returned Solution is
// zero-valued.
//
// Complexity: O(Iterations · Σₛ backup(s)); memory O(|S|).
func SolveGS(p Process, opts Options) (Solution, error) {
	v, err := prepare(p, &opts)
	if err != nil {
		return Solution{}, err
	}

	n := p.NumStates()
	policy := make([]int, n)
	nature := make([][]float64, n)

	var (
		residual   float64
		iterations int
	)
	for iterations = 0; iterations < opts.Iterations; iterations++ {
		residual = 0
		for s := 0; s < n; s++ {
			val, action, nat, berr := p.Backup(s, v, opts.Discount)
			if berr != nil {
				return Solution{}, berr
			}
			if d := math.Abs(val - v[s]); d > residual {
				residual = d
			}
			v[s], policy[s], nature[s] = val, action, nat
		}
		if converged(residual, opts.MaxResidual) {
			iterations++
			break
		}
	}

	return Solution{Values: v, Policy: policy, Nature: nature, Residual: residual, Iterations: iterations}, nil
}
