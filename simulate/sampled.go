package simulate

import (
	"fmt"

	"github.com/Elsin/CRAAM/mdp"
)

// SampledMDP is an incremental maximum-likelihood estimator of an MDP
// from Samples. It keeps an in-progress (unnormalized) MDP whose
// transition entries accumulate sample weight, a per-(state, action)
// running weight total, and a histogram of initial states. Adding
// samples never discards prior ones.
type SampledMDP struct {
	m       mdp.MDP
	weights [][]float64
	initial []float64
}

// NewSampledMDP returns an empty estimator.
func NewSampledMDP() *SampledMDP { return &SampledMDP{} }

// Add folds one transition tuple into the estimate: the (From, Action)
// row's entry for To grows by Weight, the row's running total grows by
// Weight, and the entry's reward becomes the weighted mean of all
// rewards observed for (From, Action, To). Containers auto-extend.
//
// Errors: ErrInvalidParameter on a negative weight; builder errors pass
// through.
func (e *SampledMDP) Add(s Sample) error {
	if s.Weight < 0 {
		return fmt.Errorf("%w: negative weight %g", ErrInvalidParameter, s.Weight)
	}
	// Transition.Add accumulates probability mass and keeps the reward a
	// probability-weighted mean, which for weighted counts is exactly the
	// weighted-mean reward update.
	if err := e.m.AddTransition(s.From, s.Action, s.To, s.Weight, s.Reward); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	for len(e.weights) <= s.From {
		e.weights = append(e.weights, nil)
	}
	for len(e.weights[s.From]) <= s.Action {
		e.weights[s.From] = append(e.weights[s.From], 0)
	}
	e.weights[s.From][s.Action] += s.Weight

	return nil
}

// AddInitial folds one initial-state observation into the histogram.
//
// Errors: ErrInvalidParameter on a negative state id.
func (e *SampledMDP) AddInitial(state int) error {
	if state < 0 {
		return fmt.Errorf("%w: state %d", ErrInvalidParameter, state)
	}
	for len(e.initial) <= state {
		e.initial = append(e.initial, 0)
	}
	e.initial[state]++

	return nil
}

// AddSamples folds a whole store: every transition tuple and every
// initial observation.
func (e *SampledMDP) AddSamples(ss *Samples) error {
	for i := 0; i < ss.Len(); i++ {
		if err := e.Add(ss.At(i)); err != nil {
			return err
		}
	}
	for i := 0; i < ss.NumInitial(); i++ {
		if err := e.AddInitial(ss.InitialAt(i)); err != nil {
			return err
		}
	}

	return nil
}

// MDP extracts the current maximum-likelihood estimate: a deep copy in
// which every (state, action) row is divided by its cumulative weight,
// so per-row probabilities sum to 1 wherever weight was observed. The
// estimator itself stays unnormalized and keeps accepting samples.
func (e *SampledMDP) MDP() *mdp.MDP {
	out := e.m.Clone()
	for s := 0; s < out.NumStates() && s < len(e.weights); s++ {
		st, err := out.State(s)
		if err != nil {
			continue
		}
		for a := 0; a < st.NumActions() && a < len(e.weights[s]); a++ {
			if w := e.weights[s][a]; w > 0 {
				act, aerr := st.Action(a)
				if aerr != nil {
					continue
				}
				act.Transition().Scale(1 / w)
			}
		}
	}

	return out
}

// InitialDistribution returns the normalized initial-state histogram
// over the states of the current estimate; zeros when no initial
// observation was recorded.
func (e *SampledMDP) InitialDistribution() []float64 {
	out := make([]float64, e.m.NumStates())
	var total float64
	for s := 0; s < len(e.initial) && s < len(out); s++ {
		total += e.initial[s]
	}
	if total == 0 {
		return out
	}
	for s := 0; s < len(e.initial) && s < len(out); s++ {
		out[s] = e.initial[s] / total
	}

	return out
}
