package simulate

import (
	"errors"
	"math/rand"
)

var (
	// ErrShapeMismatch indicates an initial distribution or policy whose
	// length differs from the number of states.
	ErrShapeMismatch = errors.New("simulate: dimension does not match the model")
	// ErrInvalidParameter indicates a nonsensical option, e.g. a negative
	// transition limit or a termination probability outside [0,1].
	ErrInvalidParameter = errors.New("simulate: invalid parameter")
	// ErrOutOfRange indicates a sample or state identifier that does not
	// address an existing slot.
	ErrOutOfRange = errors.New("simulate: identifier out of range")
	// ErrNoAction indicates a policy that selected an action the current
	// state does not have.
	ErrNoAction = errors.New("simulate: policy selected an unavailable action")
)

// defaultSeed is the fixed seed substituted when callers pass seed==0,
// keeping default runs reproducible.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic generator; seed==0 selects
// defaultSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// Sample is one observed transition tuple.
type Sample struct {
	From   int     // source state
	Action int     // action taken in From
	To     int     // sampled next state
	Reward float64 // reward observed on the transition
	Weight float64 // sample weight (1 for simulated transitions)
	Step   int     // 0-based step within the run
	Run    int     // 0-based episode number
}

// Samples is an append-only log of transition tuples plus a separate
// append-only list of initial-state ids. Order carries no meaning; both
// logs are semantically multisets.
type Samples struct {
	samples []Sample
	initial []int
}

// Add appends one transition tuple.
func (s *Samples) Add(smp Sample) { s.samples = append(s.samples, smp) }

// AddInitial appends one initial-state observation.
func (s *Samples) AddInitial(state int) { s.initial = append(s.initial, state) }

// Len returns the number of transition tuples.
func (s *Samples) Len() int { return len(s.samples) }

// At returns transition tuple i.
func (s *Samples) At(i int) Sample { return s.samples[i] }

// NumInitial returns the number of initial-state observations.
func (s *Samples) NumInitial() int { return len(s.initial) }

// InitialAt returns initial-state observation i.
func (s *Samples) InitialAt(i int) int { return s.initial[i] }
