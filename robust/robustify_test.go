package robust_test

import (
	"testing"

	"github.com/Elsin/CRAAM/mdp"
	"github.com/Elsin/CRAAM/robust"
	"github.com/Elsin/CRAAM/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toggle builds the two-state stay/flip model used across the solver
// tests: optimal values (10, 9) at γ=0.9.
func toggle(t *testing.T) *mdp.MDP {
	t.Helper()
	var m mdp.MDP
	require.NoError(t, m.AddTransition(0, 0, 0, 1.0, 1.0))
	require.NoError(t, m.AddTransition(0, 1, 1, 1.0, 0.0))
	require.NoError(t, m.AddTransition(1, 0, 1, 1.0, 0.0))
	require.NoError(t, m.AddTransition(1, 1, 0, 1.0, 0.0))

	return &m
}

// TestRobustify_OutcomeLayout verifies the outcome-per-next-state
// construction in both allowZeros modes.
func TestRobustify_OutcomeLayout(t *testing.T) {
	var m mdp.MDP
	require.NoError(t, m.AddTransition(0, 0, 0, 0.3, 1.0))
	require.NoError(t, m.AddTransition(0, 0, 2, 0.7, 2.0))
	require.NoError(t, m.AddTransition(1, 0, 2, 1.0, 0.0))
	m.Grow(3)

	full, err := robust.Robustify(&m, true)
	require.NoError(t, err)
	st, err := full.State(0)
	require.NoError(t, err)
	act, err := st.Action(0)
	require.NoError(t, err)
	require.Equal(t, 3, act.NumOutcomes(), "allowZeros: one outcome per state of the model")
	q := act.Distribution()
	assert.InDelta(t, 0.3, q[0], 1e-12)
	assert.InDelta(t, 0.0, q[1], 1e-12, "off-support outcomes carry zero base mass")
	assert.InDelta(t, 0.7, q[2], 1e-12)
	out1, err := act.Outcome(1)
	require.NoError(t, err)
	require.Equal(t, 1, out1.Len())
	assert.Equal(t, 1, out1.Index(0), "outcome k jumps deterministically to k")
	assert.InDelta(t, 1.0, out1.Probability(0), 1e-12)

	support, err := robust.Robustify(&m, false)
	require.NoError(t, err)
	st, err = support.State(0)
	require.NoError(t, err)
	act, err = st.Action(0)
	require.NoError(t, err)
	require.Equal(t, 2, act.NumOutcomes(), "support only: one outcome per nominal successor")
	assert.InDelta(t, []float64{0.3, 0.7}[0], act.Distribution()[0], 1e-12)
	assert.Zero(t, act.Threshold(), "robustified thresholds start at 0")
}

// TestRobustify_ZeroThresholdMatchesNominal verifies that a robustified
// model at threshold 0 solved under Robust reproduces the nominal solve.
func TestRobustify_ZeroThresholdMatchesNominal(t *testing.T) {
	m := toggle(t)
	nominal, err := solver.SolveGS(m, solver.DefaultOptions(0.9))
	require.NoError(t, err)

	for _, allowZeros := range []bool{true, false} {
		rm, rerr := robust.Robustify(m, allowZeros)
		require.NoError(t, rerr)
		require.NoError(t, rm.SetThresholds(0))
		view, verr := rm.Under(robust.Robust)
		require.NoError(t, verr)

		sol, serr := solver.SolveGS(view, solver.DefaultOptions(0.9))
		require.NoError(t, serr)
		for s := range nominal.Values {
			assert.InDelta(t, nominal.Values[s], sol.Values[s], 1e-6, "allowZeros=%v state %d", allowZeros, s)
		}
		assert.Equal(t, nominal.Policy, sol.Policy, "allowZeros=%v", allowZeros)
	}
}

// TestRobustify_AverageMatchesNominal verifies that the Average mode
// reproduces the nominal solve at any threshold.
func TestRobustify_AverageMatchesNominal(t *testing.T) {
	m := toggle(t)
	nominal, err := solver.SolveJacobi(m, solver.DefaultOptions(0.9))
	require.NoError(t, err)

	rm, err := robust.Robustify(m, true)
	require.NoError(t, err)
	require.NoError(t, rm.SetThresholds(1.3)) // irrelevant under Average
	view, err := rm.Under(robust.Average)
	require.NoError(t, err)

	sol, err := solver.SolveJacobi(view, solver.DefaultOptions(0.9))
	require.NoError(t, err)
	for s := range nominal.Values {
		assert.InDelta(t, nominal.Values[s], sol.Values[s], 1e-6, "state %d", s)
	}
}

// TestRobustify_ThresholdMonotonicity verifies that the robust value is
// non-increasing and the optimistic value non-decreasing in the budget.
func TestRobustify_ThresholdMonotonicity(t *testing.T) {
	m := toggle(t)
	rm, err := robust.Robustify(m, true)
	require.NoError(t, err)

	prevRobust, prevOpt := make([]float64, 0), make([]float64, 0)
	for _, threshold := range []float64{0, 0.25, 0.5, 1, 2} {
		require.NoError(t, rm.SetThresholds(threshold))

		rView, verr := rm.Under(robust.Robust)
		require.NoError(t, verr)
		rSol, serr := solver.SolveGS(rView, solver.DefaultOptions(0.9))
		require.NoError(t, serr)

		oView, verr2 := rm.Under(robust.Optimistic)
		require.NoError(t, verr2)
		oSol, serr2 := solver.SolveGS(oView, solver.DefaultOptions(0.9))
		require.NoError(t, serr2)

		if len(prevRobust) > 0 {
			for s := range rSol.Values {
				assert.LessOrEqual(t, rSol.Values[s], prevRobust[s]+1e-9,
					"robust value must not grow with the budget (state %d, t=%g)", s, threshold)
				assert.GreaterOrEqual(t, oSol.Values[s], prevOpt[s]-1e-9,
					"optimistic value must not shrink with the budget (state %d, t=%g)", s, threshold)
			}
		}
		prevRobust = append(prevRobust[:0], rSol.Values...)
		prevOpt = append(prevOpt[:0], oSol.Values...)
	}
}
