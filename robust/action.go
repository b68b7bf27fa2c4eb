package robust

import (
	"fmt"
	"math"

	"github.com/Elsin/CRAAM/mdp"
	"gonum.org/v1/gonum/floats"
)

// L1OutcomeAction owns an ordered vector of outcomes (each an
// independent sparse transition), a base distribution q over those
// outcomes, and an L1 budget. Nature redistributes probability across
// outcomes within the budget; the outcomes themselves stay fixed.
//
// Builder calls keep q unnormalized (it accumulates weight per outcome);
// Normalize or SetDistribution establishes the solving invariant that q
// sums to 1.
type L1OutcomeAction struct {
	outcomes  []mdp.Transition
	dist      []float64
	threshold float64
}

// NumOutcomes returns the number of outcomes.
func (a *L1OutcomeAction) NumOutcomes() int { return len(a.outcomes) }

// Outcome returns outcome i for read access.
//
// Errors: ErrOutOfRange when i does not address an existing outcome.
func (a *L1OutcomeAction) Outcome(i int) (*mdp.Transition, error) {
	if i < 0 || i >= len(a.outcomes) {
		return nil, fmt.Errorf("%w: outcome %d of %d", ErrOutOfRange, i, len(a.outcomes))
	}

	return &a.outcomes[i], nil
}

// Distribution returns a copy of the base distribution q.
func (a *L1OutcomeAction) Distribution() []float64 {
	return append([]float64(nil), a.dist...)
}

// Threshold returns the L1 budget.
func (a *L1OutcomeAction) Threshold() float64 { return a.threshold }

// SetThreshold sets the L1 budget. Budgets above 2 are legal (the ball
// then covers the whole simplex).
//
// Errors: ErrInvalidParameter on a negative or non-finite budget.
func (a *L1OutcomeAction) SetThreshold(t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return fmt.Errorf("%w: L1 budget %g", ErrInvalidParameter, t)
	}
	a.threshold = t

	return nil
}

// SetDistribution replaces the base distribution over outcomes.
//
// Errors: ErrShapeMismatch when len(q) differs from the outcome count,
// ErrInvalidDistribution when q is not a distribution.
func (a *L1OutcomeAction) SetDistribution(q []float64) error {
	if len(q) != len(a.outcomes) {
		return fmt.Errorf("%w: %d weights for %d outcomes", ErrShapeMismatch, len(q), len(a.outcomes))
	}
	if err := checkDistribution(q); err != nil {
		return err
	}
	a.dist = append(a.dist[:0], q...)

	return nil
}

// AddSample inserts (to, probability, reward) into outcome's transition,
// auto-extending the outcome vector; fresh outcomes start with base
// weight 0.
//
// Errors: ErrInvalidParameter on a negative outcome id; transition
// errors pass through.
func (a *L1OutcomeAction) AddSample(outcome, to int, probability, reward float64) error {
	if outcome < 0 {
		return fmt.Errorf("%w: outcome %d", ErrInvalidParameter, outcome)
	}
	for len(a.outcomes) <= outcome {
		a.outcomes = append(a.outcomes, mdp.Transition{})
		a.dist = append(a.dist, 0)
	}

	return a.outcomes[outcome].Add(to, probability, reward)
}

// AddBaseWeight accumulates base-distribution weight on an outcome; the
// builder uses it so that q can be normalized after construction.
//
// Errors: ErrOutOfRange when the outcome does not exist,
// ErrInvalidParameter on a negative weight.
func (a *L1OutcomeAction) AddBaseWeight(outcome int, weight float64) error {
	if outcome < 0 || outcome >= len(a.dist) {
		return fmt.Errorf("%w: outcome %d of %d", ErrOutOfRange, outcome, len(a.dist))
	}
	if weight < 0 {
		return fmt.Errorf("%w: negative weight %g", ErrInvalidParameter, weight)
	}
	a.dist[outcome] += weight

	return nil
}

// Normalize rescales the base distribution to sum to 1 and normalizes
// every outcome transition. A zero-mass distribution is left untouched.
func (a *L1OutcomeAction) Normalize() {
	if sum := floats.Sum(a.dist); sum > 0 {
		floats.Scale(1/sum, a.dist)
	}
	for i := range a.outcomes {
		a.outcomes[i].Normalize()
	}
}

// validate checks the solving invariants of the action.
func (a *L1OutcomeAction) validate() error {
	if len(a.outcomes) == 0 {
		// An empty action evaluates to 0; nothing to check.
		return nil
	}
	for i := range a.outcomes {
		if !a.outcomes[i].Normalized() {
			return fmt.Errorf("%w: outcome %d sums to %g",
				ErrNotNormalized, i, a.outcomes[i].SumProbabilities())
		}
	}

	return checkDistribution(a.dist)
}

// outcomeValues computes zᵢ = outcomeᵢ.ExpectedValue(v, discount) into dst.
func (a *L1OutcomeAction) outcomeValues(dst, v []float64, discount float64) []float64 {
	dst = dst[:0]
	for i := range a.outcomes {
		dst = append(dst, a.outcomes[i].ExpectedValue(v, discount))
	}

	return dst
}

// averageValue is the Average kernel: qᵀz with the base distribution
// itself as the realized distribution.
func (a *L1OutcomeAction) averageValue(v []float64, discount float64) (float64, []float64, error) {
	if len(a.outcomes) == 0 {
		return 0, nil, nil
	}
	z := a.outcomeValues(nil, v, discount)

	return floats.Dot(a.dist, z), a.Distribution(), nil
}

// robustValue is the Robust kernel: the L1 worst case against v.
func (a *L1OutcomeAction) robustValue(v []float64, discount float64) (float64, []float64, error) {
	if len(a.outcomes) == 0 {
		return 0, nil, nil
	}
	z := a.outcomeValues(nil, v, discount)

	p, val, err := WorstCaseL1(z, a.dist, a.threshold)
	if err != nil {
		return 0, nil, err
	}

	return val, p, nil
}

// optimisticValue is the Optimistic kernel: the L1 best case, i.e. the
// worst case of the negated values.
func (a *L1OutcomeAction) optimisticValue(v []float64, discount float64) (float64, []float64, error) {
	if len(a.outcomes) == 0 {
		return 0, nil, nil
	}
	z := a.outcomeValues(nil, v, discount)
	for i := range z {
		z[i] = -z[i]
	}

	p, val, err := WorstCaseL1(z, a.dist, a.threshold)
	if err != nil {
		return 0, nil, err
	}

	return -val, p, nil
}
