package mdp

import "errors"

var (
	// ErrShapeMismatch indicates a vector or matrix whose dimensions do not
	// agree with the model (value function length, dense matrix shape,
	// initial distribution length).
	ErrShapeMismatch = errors.New("mdp: dimension does not match the model")
	// ErrInvalidParameter indicates a nonsensical scalar input, e.g. a
	// negative probability or a negative state or action id.
	ErrInvalidParameter = errors.New("mdp: invalid parameter")
	// ErrInvalidDistribution indicates a distribution with negative entries
	// or a sum too far from 1.
	ErrInvalidDistribution = errors.New("mdp: distribution must be non-negative and sum to 1")
	// ErrOutOfRange indicates a state, action or sample identifier that
	// refers to a slot which cannot be auto-created (reading before writing).
	ErrOutOfRange = errors.New("mdp: identifier out of range")
	// ErrNotNormalized indicates a transition whose probabilities sum to
	// neither 0 nor 1 at a point where normalization is required.
	ErrNotNormalized = errors.New("mdp: transition probabilities not normalized")
	// ErrUnsupported indicates an operation requiring a uniform action count
	// applied to a ragged MDP.
	ErrUnsupported = errors.New("mdp: operation requires uniform action counts")
)
