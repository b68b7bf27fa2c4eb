package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SolveMPI runs Modified Policy Iteration with Jacobi sweeps. Each outer
// iteration performs one greedy policy improvement (a full Bellman
// sweep), then holds the improved policy — and, for robust processes,
// the realized nature distribution — fixed for up to opts.IterationsPE
// partial-evaluation sweeps at tolerance opts.ResidualPE (defaulting to
// MaxResidual/2). The outer loop stops when the improvement residual
// reaches MaxResidual or after opts.Iterations improvements.
//
// Progress: with opts.ShowProgress the driver reports each improvement
// through LogProgress; opts.Progress overrides the reporter. The
// callback is synchronous.
//
// Errors: those of prepare and of the Process kernels.
func SolveMPI(p Process, opts Options) (Solution, error) {
	prev, err := prepare(p, &opts)
	if err != nil {
		return Solution{}, err
	}
	if opts.IterationsPE <= 0 {
		opts.IterationsPE = DefaultIterationsPE
	}
	residualPE := opts.ResidualPE
	if residualPE <= 0 {
		residualPE = opts.MaxResidual / 2
	}
	progress := opts.Progress
	if progress == nil && opts.ShowProgress {
		progress = LogProgress
	}

	n := p.NumStates()
	next := make([]float64, n)
	policy := make([]int, n)
	nature := make([][]float64, n)

	var (
		residual   float64
		iterations int
	)
	for iterations = 0; iterations < opts.Iterations; iterations++ {
		// Greedy policy improvement: one full Bellman sweep.
		if err = sweepBackup(p, prev, next, policy, nature, opts.Discount, opts.Parallel); err != nil {
			return Solution{}, err
		}
		residual = floats.Distance(next, prev, math.Inf(1))
		prev, next = next, prev
		if progress != nil {
			progress(iterations+1, residual)
		}
		if converged(residual, opts.MaxResidual) {
			iterations++
			break
		}

		// Partial evaluation of the improved policy.
		for pe := 0; pe < opts.IterationsPE; pe++ {
			if err = sweepEvaluate(p, prev, next, policy, nature, opts.Discount, opts.Parallel); err != nil {
				return Solution{}, err
			}
			inner := floats.Distance(next, prev, math.Inf(1))
			prev, next = next, prev
			if converged(inner, residualPE) {
				break
			}
		}
	}

	return Solution{Values: prev, Policy: policy, Nature: nature, Residual: residual, Iterations: iterations}, nil
}
