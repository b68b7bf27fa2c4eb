// Package simulate rolls out episodes of an MDP under a policy,
// collects the observed transitions into a Samples store, and estimates
// MDPs back from samples.
//
// 🚀 Pieces
//
//   - Policy — action selection per state: NewRandomPolicy (uniform over
//     the available actions) or NewDeterministicPolicy (array indexed by
//     state id); both are deterministic given a seed
//   - Simulate — for Runs episodes, draw s₀ from the initial
//     distribution and walk up to Horizon steps, recording
//     (s, a, s′, r, weight, step, run) tuples; per-step termination with
//     probability ProbTerm, global cut-off at TranLimit transitions
//   - ReturnsPolicy — the same rollout, folded into Σ γᵗ·rₜ per run
//   - SampledMDP — incremental maximum-likelihood estimator: accumulate
//     weighted counts per (state, action, next) and extract a normalized
//     MDP plus the initial-state histogram at any point
//
// Randomness follows the seed policy of the rest of the library: a seed
// of 0 selects a fixed default, so results are reproducible unless the
// caller explicitly varies the seed.
package simulate
