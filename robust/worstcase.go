package robust

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WorstCaseL1 solves the inner adversarial problem exactly:
//
//	min pᵀz   subject to   ‖p−q‖₁ ≤ t,  1ᵀp = 1,  p ≥ 0
//
// z holds the outcome values, q the base distribution, t the L1 budget.
// Budgets above 2 are equivalent to 2 (the diameter of the simplex) and
// are clamped.
//
// The optimum moves mass greedily: let k = argmin z. Shifting δ mass
// from any entry into k costs 2δ of L1 deviation, so up to t/2 total
// mass flows from the largest-z entries (drained to 0 in decreasing-z
// order) into k. This greedy exchange is exact because the feasible set
// is a polytope whose vertices differ from q by such exchanges.
// Tie-breaking is deterministic: equal z values drain in ascending index
// order, and the destination k is the first minimizer.
//
// Returns the minimizing distribution and its objective pᵀz.
//
// Errors: ErrShapeMismatch on unequal or empty inputs,
// ErrInvalidParameter on a negative or non-finite budget,
// ErrInvalidDistribution when q is not a distribution.
//
// Complexity: O(n log n) time for the sort, O(n) space.
func WorstCaseL1(z, q []float64, t float64) ([]float64, float64, error) {
	n := len(z)
	if n == 0 || n != len(q) {
		return nil, 0, fmt.Errorf("%w: %d values, %d probabilities", ErrShapeMismatch, n, len(q))
	}
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return nil, 0, fmt.Errorf("%w: L1 budget %g", ErrInvalidParameter, t)
	}
	if err := checkDistribution(q); err != nil {
		return nil, 0, err
	}
	if t > 2 {
		t = 2
	}

	// Destination: first index of the minimal value.
	k := 0
	for i := 1; i < n; i++ {
		if z[i] < z[k] {
			k = i
		}
	}

	// Donors in decreasing-z order; stable sort keeps index order on ties.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return z[order[a]] > z[order[b]] })

	p := append([]float64(nil), q...)
	eps := t / 2
	for _, i := range order {
		if eps <= 0 {
			break
		}
		if i == k {
			continue
		}
		d := math.Min(p[i], eps)
		p[i] -= d
		p[k] += d
		eps -= d
	}

	return p, floats.Dot(p, z), nil
}

// checkDistribution validates q: non-negative entries summing to 1
// within a 1e-3 tolerance.
func checkDistribution(q []float64) error {
	var sum float64
	for _, v := range q {
		if v < 0 {
			return fmt.Errorf("%w: negative entry %g", ErrInvalidDistribution, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-3 {
		return fmt.Errorf("%w: sum %g", ErrInvalidDistribution, sum)
	}

	return nil
}
