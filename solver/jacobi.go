package solver

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// SolveJacobi runs value iteration with Jacobi sweeps: every state in a
// sweep reads the previous value function and writes into a fresh one,
// so per-state backups are independent. With opts.Parallel the sweep is
// partitioned across runtime.NumCPU() workers.
//
// Errors: those of prepare and of Process.Backup.
//
// Complexity: O(Iterations · Σₛ backup(s)); memory O(|S|).
func SolveJacobi(p Process, opts Options) (Solution, error) {
	prev, err := prepare(p, &opts)
	if err != nil {
		return Solution{}, err
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
		if err = sweepBackup(p, prev, next, policy, nature, opts.Discount, opts.Parallel); err != nil {
			return Solution{}, err
		}
		residual = floats.Distance(next, prev, math.Inf(1))
		prev, next = next, prev
		if converged(residual, opts.MaxResidual) {
			iterations++
			break
		}
	}

	// prev holds the result of the last completed sweep.
	return Solution{Values: prev, Policy: policy, Nature: nature, Residual: residual, Iterations: iterations}, nil
}

// sweepBackup computes one greedy Jacobi sweep src→dst, recording the
// chosen action and nature distribution per state. The backup kernel is
// pure with respect to src, which is what makes the partition safe.
func sweepBackup(p Process, src, dst []float64, policy []int, nature [][]float64, discount float64, parallel bool) error {
	n := len(src)
	if !parallel {
		for s := 0; s < n; s++ {
			val, action, nat, err := p.Backup(s, src, discount)
			if err != nil {
				return err
			}
			dst[s], policy[s], nature[s] = val, action, nat
		}

		return nil
	}

	var g errgroup.Group
	for _, c := range chunks(n, runtime.NumCPU()) {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			for s := lo; s < hi; s++ {
				val, action, nat, err := p.Backup(s, src, discount)
				if err != nil {
					return err
				}
				dst[s], policy[s], nature[s] = val, action, nat
			}

			return nil
		})
	}

	return g.Wait()
}

// sweepEvaluate computes one fixed-policy Jacobi sweep src→dst. The
// nature slice may be nil (plain MDPs).
func sweepEvaluate(p Process, src, dst []float64, policy []int, nature [][]float64, discount float64, parallel bool) error {
	n := len(src)
	natureAt := func(s int) []float64 {
		if nature == nil {
			return nil
		}

		return nature[s]
	}
	if !parallel {
		for s := 0; s < n; s++ {
			val, err := p.Evaluate(s, policy[s], natureAt(s), src, discount)
			if err != nil {
				return err
			}
			dst[s] = val
		}

		return nil
	}

	var g errgroup.Group
	for _, c := range chunks(n, runtime.NumCPU()) {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			for s := lo; s < hi; s++ {
				val, err := p.Evaluate(s, policy[s], natureAt(s), src, discount)
				if err != nil {
					return err
				}
				dst[s] = val
			}

			return nil
		})
	}

	return g.Wait()
}

// chunks partitions [0,n) into at most k contiguous half-open [lo,hi)
// ranges that cover it without overlap.
func chunks(n, k int) [][2]int {
	if k < 1 {
		k = 1
	}
	size := (n + k - 1) / k
	if size < 1 {
		size = 1
	}
	out := make([][2]int, 0, k)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}

	return out
}
