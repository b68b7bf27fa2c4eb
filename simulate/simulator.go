package simulate

import (
	"fmt"
	"math/rand"

	"github.com/Elsin/CRAAM/mdp"
)

// Options configures a simulation.
//
// Fields:
//   - Runs      — number of episodes (default 1).
//   - Horizon   — maximum steps per episode (default 100).
//   - ProbTerm  — per-step termination probability in [0,1] (default 0).
//   - TranLimit — global cut-off on the total number of recorded
//     transitions across all runs; 0 means unlimited.
//   - Seed      — RNG seed; 0 selects the fixed default.
type Options struct {
	Runs      int
	Horizon   int
	ProbTerm  float64
	TranLimit int
	Seed      int64
}

// DefaultOptions returns the documented defaults: one run of up to 100
// steps, no random termination, no transition cap.
func DefaultOptions() Options {
	return Options{Runs: 1, Horizon: 100}
}

// validate applies defaults and rejects nonsensical values.
func (o *Options) validate() error {
	if o.Runs <= 0 {
		o.Runs = 1
	}
	if o.Horizon <= 0 {
		o.Horizon = 100
	}
	if o.ProbTerm < 0 || o.ProbTerm > 1 {
		return fmt.Errorf("%w: termination probability %g", ErrInvalidParameter, o.ProbTerm)
	}
	if o.TranLimit < 0 {
		return fmt.Errorf("%w: transition limit %d", ErrInvalidParameter, o.TranLimit)
	}

	return nil
}

// Simulate rolls out opts.Runs episodes of m under pol, starting each
// episode from a state drawn from the dense initial distribution.
// Every transition is recorded as a weight-1 Sample; each episode's
// start state is logged separately. Episodes end at a terminal state,
// at Horizon steps, or — with probability ProbTerm — after any step;
// the whole simulation stops once TranLimit transitions are recorded.
//
// The MDP is borrowed immutably for the duration of the call.
//
// Errors: ErrShapeMismatch when len(initial) ≠ |S|, distribution and
// option validation errors, and policy errors.
func Simulate(m *mdp.MDP, initial []float64, pol Policy, opts Options) (*Samples, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(initial) != m.NumStates() {
		return nil, fmt.Errorf("%w: initial distribution has %d entries for %d states",
			ErrShapeMismatch, len(initial), m.NumStates())
	}
	if err := mdp.CheckDistribution(initial); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	rng := rngFromSeed(opts.Seed)
	out := &Samples{}
	for run := 0; run < opts.Runs; run++ {
		state := sampleIndex(initial, rng)
		out.AddInitial(state)

		for step := 0; step < opts.Horizon; step++ {
			st, err := m.State(state)
			if err != nil {
				return nil, err
			}
			if st.Terminal() {
				break
			}
			action, err := pol.Action(state)
			if err != nil {
				return nil, err
			}
			a, err := st.Action(action)
			if err != nil {
				return nil, fmt.Errorf("%w: action %d in state %d", ErrNoAction, action, state)
			}
			next, reward, err := sampleTransition(a.Transition(), rng)
			if err != nil {
				return nil, err
			}
			out.Add(Sample{From: state, Action: action, To: next, Reward: reward, Weight: 1, Step: step, Run: run})
			state = next

			if opts.TranLimit > 0 && out.Len() >= opts.TranLimit {
				return out, nil
			}
			if opts.ProbTerm > 0 && rng.Float64() < opts.ProbTerm {
				break
			}
		}
	}

	return out, nil
}

// ReturnsPolicy simulates like Simulate and folds each run into its
// discounted return Σ γᵗ·rₜ. It returns the start state and the return
// of every run, index-aligned.
func ReturnsPolicy(m *mdp.MDP, initial []float64, pol Policy, discount float64, opts Options) ([]int, []float64, error) {
	if discount < 0 || discount > 1 {
		return nil, nil, fmt.Errorf("%w: discount %g", ErrInvalidParameter, discount)
	}
	samples, err := Simulate(m, initial, pol, opts)
	if err != nil {
		return nil, nil, err
	}

	states := make([]int, samples.NumInitial())
	for i := range states {
		states[i] = samples.InitialAt(i)
	}
	returns := make([]float64, samples.NumInitial())
	for i := 0; i < samples.Len(); i++ {
		s := samples.At(i)
		returns[s.Run] += pow(discount, s.Step) * s.Reward
	}

	return states, returns, nil
}

// sampleIndex draws an index from a dense distribution by cumulative scan.
func sampleIndex(dist []float64, rng *rand.Rand) int {
	u := rng.Float64()
	var cum float64
	for i, p := range dist {
		cum += p
		if u < cum {
			return i
		}
	}

	// Rounding left u above the cumulative sum; return the last positive entry.
	for i := len(dist) - 1; i >= 0; i-- {
		if dist[i] > 0 {
			return i
		}
	}

	return len(dist) - 1
}

// sampleTransition draws (next, reward) from a sparse row according to
// its probability weights.
//
// Errors: ErrOutOfRange on an empty row (the caller filters terminal
// states, so an empty row here means an unpopulated action).
func sampleTransition(t *mdp.Transition, rng *rand.Rand) (int, float64, error) {
	if t.Len() == 0 {
		return -1, 0, fmt.Errorf("%w: sampling from an empty transition", ErrOutOfRange)
	}
	u := rng.Float64() * t.SumProbabilities()
	var cum float64
	for i := 0; i < t.Len(); i++ {
		cum += t.Probability(i)
		if u < cum {
			return t.Index(i), t.Reward(i), nil
		}
	}
	last := t.Len() - 1

	return t.Index(last), t.Reward(last), nil
}

// pow computes discountᵏ by repeated multiplication; exponents are small
// (bounded by the horizon).
func pow(base float64, k int) float64 {
	out := 1.0
	for ; k > 0; k-- {
		out *= base
	}

	return out
}
