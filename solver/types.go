package solver

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNilProcess indicates a nil Process argument.
	ErrNilProcess = errors.New("solver: nil process")
	// ErrInvalidDiscount indicates a discount outside [0,1].
	ErrInvalidDiscount = errors.New("solver: discount must lie in [0,1]")
	// ErrShapeMismatch indicates an initial value function or policy whose
	// length differs from the number of states.
	ErrShapeMismatch = errors.New("solver: vector length does not match the process")
)

// Default iteration caps and tolerances.
const (
	// DefaultIterations caps the number of sweeps (outer iterations for MPI).
	DefaultIterations = 500

	// DefaultIterationsPE caps the partial-evaluation sweeps inside one MPI
	// outer iteration.
	DefaultIterationsPE = 50
)

// Process is the per-state backup surface the drivers iterate over.
// mdp.MDP implements it directly; robust.RMDP implements it through
// uncertainty-mode views (see robust.RMDP.Under).
type Process interface {
	// NumStates returns the number of states.
	NumStates() int

	// Validate rejects a model that is not ready to solve (e.g. transition
	// rows that are neither terminal nor normalized). Drivers call it once
	// before the first sweep.
	Validate() error

	// Backup performs the greedy backup for state s under the value
	// function v: the best action value, the chosen action id (−1 for a
	// terminal state) and, for robust processes, the realized worst-case
	// outcome distribution (nil otherwise). Backup must not mutate v.
	Backup(s int, v []float64, discount float64) (value float64, action int, nature []float64, err error)

	// Evaluate computes the value of the fixed action (and, for robust
	// processes, the fixed nature distribution) in state s.
	Evaluate(s, action int, nature []float64, v []float64, discount float64) (float64, error)
}

// ProgressFunc receives the outer iteration number and its residual.
// MPI invokes it synchronously after every policy improvement.
type ProgressFunc func(iteration int, residual float64)

// LogProgress is the default ProgressFunc installed by ShowProgress: it
// reports through logrus at debug level.
func LogProgress(iteration int, residual float64) {
	logrus.WithFields(logrus.Fields{
		"iteration": iteration,
		"residual":  residual,
	}).Debug("mpi: policy improvement")
}

// Options configures all drivers.
//
// Fields:
//   - Discount      — γ ∈ [0,1].
//   - Iterations    — sweep cap (outer iterations for MPI); DefaultIterations when 0.
//   - MaxResidual   — stop once the sweep residual is ≤ this value; a
//     non-positive value disables early stopping (run exactly Iterations sweeps).
//   - InitialValues — starting value function; zeros when nil.
//   - Parallel      — enable the per-state work partition inside Jacobi-family
//     sweeps. Gauss–Seidel ignores it (sequential by definition).
//   - IterationsPE  — MPI only: partial-evaluation sweeps per outer iteration;
//     DefaultIterationsPE when 0.
//   - ResidualPE    — MPI only: partial-evaluation tolerance; MaxResidual/2 when 0.
//   - ShowProgress  — MPI only: install LogProgress unless Progress is set.
//   - Progress      — MPI only: custom progress callback.
type Options struct {
	Discount      float64
	Iterations    int
	MaxResidual   float64
	InitialValues []float64
	Parallel      bool
	IterationsPE  int
	ResidualPE    float64
	ShowProgress  bool
	Progress      ProgressFunc
}

// DefaultOptions returns the documented defaults for the given discount:
// 500 iterations, residual 1e-9, sequential sweeps.
func DefaultOptions(discount float64) Options {
	return Options{
		Discount:    discount,
		Iterations:  DefaultIterations,
		MaxResidual: 1e-9,
	}
}

// Solution is the output of every driver.
type Solution struct {
	// Values is the value function; states never visited by iteration keep 0.
	Values []float64
	// Policy holds the chosen action id per state; −1 for terminal states.
	Policy []int
	// Nature holds the realized worst-case outcome distribution per state
	// for robust processes; entries are nil for plain MDPs and terminal states.
	Nature [][]float64
	// Residual is the L∞ value change of the last completed sweep.
	Residual float64
	// Iterations counts completed sweeps (outer iterations for MPI).
	Iterations int
}

// Returns computes the initial-distribution-weighted value Σₛ initial[s]·V[s].
//
// Errors: ErrShapeMismatch when len(initial) differs from len(Values).
func (s *Solution) Returns(initial []float64) (float64, error) {
	if len(initial) != len(s.Values) {
		return 0, fmt.Errorf("%w: initial distribution has %d entries, value function %d",
			ErrShapeMismatch, len(initial), len(s.Values))
	}
	var total float64
	for i, w := range initial {
		total += w * s.Values[i]
	}

	return total, nil
}

// prepare validates the process and options and materializes the working
// value function. It never mutates opts.InitialValues.
func prepare(p Process, opts *Options) ([]float64, error) {
	if p == nil {
		return nil, ErrNilProcess
	}
	if opts.Discount < 0 || opts.Discount > 1 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidDiscount, opts.Discount)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}

	n := p.NumStates()
	v := make([]float64, n)
	if opts.InitialValues != nil {
		if len(opts.InitialValues) != n {
			return nil, fmt.Errorf("%w: %d initial values for %d states",
				ErrShapeMismatch, len(opts.InitialValues), n)
		}
		copy(v, opts.InitialValues)
	}

	return v, nil
}

// converged reports whether residual satisfies the early-stop rule.
func converged(residual, maxResidual float64) bool {
	return maxResidual > 0 && residual <= maxResidual
}
