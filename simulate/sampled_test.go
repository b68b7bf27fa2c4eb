package simulate_test

import (
	"testing"

	"github.com/Elsin/CRAAM/mdp"
	"github.com/Elsin/CRAAM/simulate"
	"github.com/Elsin/CRAAM/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSampledMDP_WeightedRewardMean verifies the incremental weighted
// reward update per (state, action, next).
func TestSampledMDP_WeightedRewardMean(t *testing.T) {
	est := simulate.NewSampledMDP()
	require.NoError(t, est.Add(simulate.Sample{From: 0, Action: 0, To: 1, Reward: 2, Weight: 1}))
	require.NoError(t, est.Add(simulate.Sample{From: 0, Action: 0, To: 1, Reward: 6, Weight: 3}))
	require.NoError(t, est.Add(simulate.Sample{From: 0, Action: 0, To: 2, Reward: 1, Weight: 4}))

	m := est.MDP()
	st, err := m.State(0)
	require.NoError(t, err)
	act, err := st.Action(0)
	require.NoError(t, err)
	tr := act.Transition()
	require.Equal(t, 2, tr.Len())

	assert.InDelta(t, 0.5, tr.Probability(0), 1e-12, "4 of 8 weight on next state 1")
	assert.InDelta(t, (2.0*1+6.0*3)/4, tr.Reward(0), 1e-12, "weighted mean reward")
	assert.InDelta(t, 0.5, tr.Probability(1), 1e-12)
	assert.True(t, tr.Normalized(), "extracted rows divide by the cumulative weight")

	assert.ErrorIs(t, est.Add(simulate.Sample{Weight: -1}), simulate.ErrInvalidParameter)
}

// TestSampledMDP_InitialDistribution verifies the normalized histogram.
func TestSampledMDP_InitialDistribution(t *testing.T) {
	est := simulate.NewSampledMDP()
	require.NoError(t, est.Add(simulate.Sample{From: 0, Action: 0, To: 2, Reward: 0, Weight: 1}))
	require.NoError(t, est.AddInitial(0))
	require.NoError(t, est.AddInitial(0))
	require.NoError(t, est.AddInitial(2))
	assert.ErrorIs(t, est.AddInitial(-1), simulate.ErrInvalidParameter)

	dist := est.InitialDistribution()
	require.Len(t, dist, 3)
	assert.InDelta(t, 2.0/3, dist[0], 1e-12)
	assert.InDelta(t, 1.0/3, dist[2], 1e-12)
}

// TestSampledMDP_RoundTrip generates a large sample set from a known
// 5-state, 2-action MDP and checks that the estimated transition
// probabilities land within 1e-2 of the truth and that solving the
// estimate reproduces the true values closely.
func TestSampledMDP_RoundTrip(t *testing.T) {
	// A 5-state ring with two actions: a noisy step forward and a noisy
	// step backward, rewards depending on the state.
	var truth mdp.MDP
	const n = 5
	for s := 0; s < n; s++ {
		fwd, bwd := (s+1)%n, (s+n-1)%n
		require.NoError(t, truth.AddTransition(s, 0, fwd, 0.8, float64(s)))
		require.NoError(t, truth.AddTransition(s, 0, s, 0.2, 0.0))
		require.NoError(t, truth.AddTransition(s, 1, bwd, 0.7, 1.0))
		require.NoError(t, truth.AddTransition(s, 1, s, 0.3, 0.5))
	}
	initial := []float64{0.2, 0.2, 0.2, 0.2, 0.2}

	samples, err := simulate.Simulate(&truth, initial,
		simulate.NewRandomPolicy(&truth, 17),
		simulate.Options{Runs: 1000, Horizon: 100, Seed: 17})
	require.NoError(t, err)
	require.GreaterOrEqual(t, samples.Len(), 90000, "enough data for 1e-2 accuracy")

	est := simulate.NewSampledMDP()
	require.NoError(t, est.AddSamples(samples))
	m := est.MDP()
	require.NoError(t, m.Validate(), "every visited row must be normalized")

	for s := 0; s < n; s++ {
		trueSt, serr := truth.State(s)
		require.NoError(t, serr)
		estSt, serr2 := m.State(s)
		require.NoError(t, serr2)
		for a := 0; a < 2; a++ {
			trueAct, aerr := trueSt.Action(a)
			require.NoError(t, aerr)
			estAct, aerr2 := estSt.Action(a)
			require.NoError(t, aerr2)

			trueDense, derr := trueAct.Transition().ProbabilityVector(n)
			require.NoError(t, derr)
			estDense, derr2 := estAct.Transition().ProbabilityVector(n)
			require.NoError(t, derr2)
			for next := 0; next < n; next++ {
				assert.InDelta(t, trueDense[next], estDense[next], 1e-2,
					"P(%d|%d,%d)", next, s, a)
			}
		}
	}

	// The solved estimate tracks the true optimum.
	wantSol, err := solver.SolveGS(&truth, solver.DefaultOptions(0.9))
	require.NoError(t, err)
	gotSol, err := solver.SolveGS(m, solver.DefaultOptions(0.9))
	require.NoError(t, err)
	for s := range wantSol.Values {
		assert.InDelta(t, wantSol.Values[s], gotSol.Values[s], 0.5, "state %d", s)
	}
}
