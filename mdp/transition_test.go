package mdp_test

import (
	"testing"

	"github.com/Elsin/CRAAM/mdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransition_AddKeepsAscendingOrder verifies that out-of-order and
// duplicate inserts end up as unique, strictly ascending indices.
func TestTransition_AddKeepsAscendingOrder(t *testing.T) {
	var tr mdp.Transition
	require.NoError(t, tr.Add(5, 0.2, 1))
	require.NoError(t, tr.Add(1, 0.3, 2))
	require.NoError(t, tr.Add(3, 0.5, 3))
	require.NoError(t, tr.Add(1, 0.0, 9)) // duplicate with zero mass

	require.Equal(t, 3, tr.Len(), "duplicate index must merge, not append")
	prev := -1
	for i := 0; i < tr.Len(); i++ {
		assert.Greater(t, tr.Index(i), prev, "indices must be strictly ascending")
		assert.GreaterOrEqual(t, tr.Probability(i), 0.0, "probabilities must be non-negative")
		prev = tr.Index(i)
	}
	assert.InDelta(t, 1.0, tr.SumProbabilities(), 1e-9)
	assert.True(t, tr.Normalized())
}

// TestTransition_RewardMerging checks the probability-weighted reward
// average: (p1·r1 + p2·r2)/(p1+p2).
func TestTransition_RewardMerging(t *testing.T) {
	var tr mdp.Transition
	require.NoError(t, tr.Add(2, 0.25, 4.0))
	require.NoError(t, tr.Add(2, 0.75, 8.0))

	require.Equal(t, 1, tr.Len())
	assert.InDelta(t, 1.0, tr.Probability(0), 1e-12)
	assert.InDelta(t, (0.25*4.0+0.75*8.0)/1.0, tr.Reward(0), 1e-12, "reward must be the probability-weighted mean")
}

// TestTransition_ZeroProbabilityKeepsReward verifies that a
// zero-probability append is legal and its reward is retained without
// affecting expected values.
func TestTransition_ZeroProbabilityKeepsReward(t *testing.T) {
	var tr mdp.Transition
	require.NoError(t, tr.Add(0, 1.0, 2.0))
	require.NoError(t, tr.Add(7, 0.0, 99.0))

	require.Equal(t, 2, tr.Len())
	assert.Equal(t, 99.0, tr.Reward(1))

	v := []float64{1, 0, 0, 0, 0, 0, 0, 1000}
	assert.InDelta(t, 1.0*(2.0+0.5*1.0), tr.ExpectedValue(v, 0.5), 1e-12,
		"zero-probability entries must not contribute")
}

// TestTransition_InvalidInputs exercises the builder error surface.
func TestTransition_InvalidInputs(t *testing.T) {
	var tr mdp.Transition
	assert.ErrorIs(t, tr.Add(-1, 0.5, 0), mdp.ErrInvalidParameter, "negative state id")
	assert.ErrorIs(t, tr.Add(0, -0.5, 0), mdp.ErrInvalidParameter, "negative probability")

	_, err := mdp.NewTransition([]int{0, 1}, []float64{0.5}, []float64{0, 0})
	assert.ErrorIs(t, err, mdp.ErrShapeMismatch, "unequal parallel slices")

	assert.ErrorIs(t, tr.SetReward(3, 1.0), mdp.ErrOutOfRange, "reward slot must exist")
}

// TestTransition_ProbabilityVector expands a sparse row densely.
func TestTransition_ProbabilityVector(t *testing.T) {
	tr, err := mdp.NewTransition([]int{0, 3}, []float64{0.4, 0.6}, []float64{0, 0})
	require.NoError(t, err)

	dense, err := tr.ProbabilityVector(5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0, 0, 0.6, 0}, dense)

	_, err = tr.ProbabilityVector(2)
	assert.ErrorIs(t, err, mdp.ErrShapeMismatch, "vector too short for index 3")
}

// TestTransition_NormalizeAndScale verifies normalization semantics for
// unnormalized (estimator-style) rows.
func TestTransition_NormalizeAndScale(t *testing.T) {
	var tr mdp.Transition
	require.NoError(t, tr.Add(0, 3, 1))
	require.NoError(t, tr.Add(1, 1, 2))
	assert.False(t, tr.Normalized(), "mass 4 is neither 0 nor 1")

	tr.Normalize()
	assert.True(t, tr.Normalized())
	assert.InDelta(t, 0.75, tr.Probability(0), 1e-12)

	tr.Scale(2)
	assert.InDelta(t, 2.0, tr.SumProbabilities(), 1e-12)

	var empty mdp.Transition
	assert.True(t, empty.Normalized(), "zero-mass rows count as normalized (terminal)")
	empty.Normalize() // must not panic
}
