package implement_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/Elsin/CRAAM/implement"
	"github.com/Elsin/CRAAM/mdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aggregated builds the 4-state, 2-observation reference problem:
// states {0,1} share observation 0, terminal states {2,3} observation 1.
// Both actions jump to a terminal state, so returns depend only on the
// common action chosen for observation 0:
//
//	state 0: action 0 → r=1, action 1 → r=2
//	state 1: action 0 → r=2, action 1 → r=0
func aggregated(t *testing.T, initial []float64) *implement.Problem {
	t.Helper()
	var m mdp.MDP
	require.NoError(t, m.AddTransition(0, 0, 2, 1.0, 1.0))
	require.NoError(t, m.AddTransition(0, 1, 3, 1.0, 2.0))
	require.NoError(t, m.AddTransition(1, 0, 2, 1.0, 2.0))
	require.NoError(t, m.AddTransition(1, 1, 3, 1.0, 0.0))

	p, err := implement.NewProblem(&m, []int{0, 0, 1, 1}, initial)
	require.NoError(t, err)

	return p
}

// bruteForce finds the best observation-0 action by enumeration.
func bruteForce(t *testing.T, p *implement.Problem, discount float64) (int, float64) {
	t.Helper()
	bestAction, bestValue := -1, math.Inf(-1)
	for a := 0; a < 2; a++ {
		val, err := p.ReturnValue([]int{a, -1}, discount)
		require.NoError(t, err)
		if val > bestValue {
			bestAction, bestValue = a, val
		}
	}

	return bestAction, bestValue
}

// TestSolveReweighted_MatchesBruteForce compares against exhaustive
// search on both initial weightings (the optimum flips between them).
func TestSolveReweighted_MatchesBruteForce(t *testing.T) {
	const discount = 0.9
	for _, initial := range [][]float64{
		{0.3, 0.7, 0, 0}, // action 0 optimal: 0.3·1 + 0.7·2 = 1.7
		{0.7, 0.3, 0, 0}, // action 1 optimal: 0.7·2 = 1.4
	} {
		p := aggregated(t, initial)
		wantAction, wantValue := bruteForce(t, p, discount)

		obsPolicy, sol, err := implement.SolveReweighted(p, implement.Options{Discount: discount})
		require.NoError(t, err)
		require.Len(t, obsPolicy, 2)
		assert.Equal(t, wantAction, obsPolicy[0], "initial %v", initial)
		assert.Equal(t, -1, obsPolicy[1], "all-terminal classes carry no action")

		got, rerr := sol.Returns(initial)
		require.NoError(t, rerr)
		assert.InDelta(t, wantValue, got, 1e-6, "initial %v", initial)
	}
}

// TestSolveRobust_SmallThresholdMatchesBruteForce verifies that the
// robust method at a near-zero threshold reproduces the nominal
// (occupancy-weighted) optimum.
func TestSolveRobust_SmallThresholdMatchesBruteForce(t *testing.T) {
	const discount = 0.9
	for _, initial := range [][]float64{
		{0.3, 0.7, 0, 0},
		{0.7, 0.3, 0, 0},
	} {
		p := aggregated(t, initial)
		wantAction, _ := bruteForce(t, p, discount)

		obsPolicy, _, err := implement.SolveRobust(p, 0, implement.Options{Discount: discount})
		require.NoError(t, err)
		assert.Equal(t, wantAction, obsPolicy[0], "initial %v", initial)
	}
}

// TestSolveRobust_LargeThresholdGuardsWorstMember verifies the
// robustness semantics: at the full budget the adversary picks the
// worst member of the class, so the max-min action wins even when the
// nominal weighting prefers the other one.
func TestSolveRobust_LargeThresholdGuardsWorstMember(t *testing.T) {
	const discount = 0.9
	// Nominal optimum is action 1 here (see the reweighted test), but its
	// worst member value is 0 while action 0 guarantees 1.
	p := aggregated(t, []float64{0.7, 0.3, 0, 0})

	obsPolicy, _, err := implement.SolveRobust(p, 2, implement.Options{Discount: discount})
	require.NoError(t, err)
	assert.Equal(t, 0, obsPolicy[0], "max-min action under the full budget")
}

// TestStatePolicy_BroadcastIsConstantOnFibers verifies admissibility of
// the broadcast: the same action throughout an observation class.
func TestStatePolicy_BroadcastIsConstantOnFibers(t *testing.T) {
	p := aggregated(t, []float64{0.5, 0.5, 0, 0})

	statePolicy, err := p.StatePolicy([]int{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, -1, -1}, statePolicy)

	_, err = p.StatePolicy([]int{0})
	assert.ErrorIs(t, err, implement.ErrShapeMismatch)
}

// TestNewProblem_Validation exercises the constructor error surface.
func TestNewProblem_Validation(t *testing.T) {
	var m mdp.MDP
	require.NoError(t, m.AddTransition(0, 0, 1, 1.0, 0))

	_, err := implement.NewProblem(&m, []int{0}, []float64{1, 0})
	assert.ErrorIs(t, err, implement.ErrShapeMismatch, "observation map too short")

	_, err = implement.NewProblem(&m, []int{0, -2}, []float64{1, 0})
	assert.ErrorIs(t, err, implement.ErrInvalidParameter, "negative observation id")

	_, err = implement.NewProblem(&m, []int{0, 0}, []float64{0.4, 0.4})
	assert.ErrorIs(t, err, mdp.ErrInvalidDistribution)

	_, err = implement.NewProblem(&m, []int{0, 0}, []float64{1, 0, 0})
	assert.ErrorIs(t, err, implement.ErrShapeMismatch, "initial length must match states")
}

// TestWriteCSV verifies the three exported tables, header included.
func TestWriteCSV(t *testing.T) {
	p := aggregated(t, []float64{0.25, 0.75, 0, 0})

	var mdpBuf, obsBuf, initialBuf bytes.Buffer
	require.NoError(t, p.WriteCSV(&mdpBuf, &obsBuf, &initialBuf, true))

	assert.Equal(t,
		"idstatefrom,idaction,idstateto,probability,reward\n"+
			"0,0,2,1,1\n"+
			"0,1,3,1,2\n"+
			"1,0,2,1,2\n"+
			"1,1,3,1,0\n",
		mdpBuf.String())
	assert.Equal(t,
		"idstate,idobservation\n0,0\n1,0\n2,1\n3,1\n",
		obsBuf.String())
	assert.Equal(t,
		"idstate,probability\n0,0.25\n1,0.75\n2,0\n3,0\n",
		initialBuf.String())

	// Headerless export drops exactly the first row of each table.
	mdpBuf.Reset()
	obsBuf.Reset()
	initialBuf.Reset()
	require.NoError(t, p.WriteCSV(&mdpBuf, &obsBuf, &initialBuf, false))
	assert.NotContains(t, mdpBuf.String(), "idstatefrom")
	assert.Contains(t, obsBuf.String(), "0,0\n")
}
