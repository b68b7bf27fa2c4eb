// Package robust implements L1-robust Markov Decision Processes: MDPs
// whose per-(state, action) distribution over outcomes is adversarially
// perturbed within an L1 ball around a base distribution.
//
// 🚀 Model
//
//	An RMDP state owns L1 outcome actions. Each action owns an ordered
//	vector of outcomes (every outcome is an independent sparse
//	transition), a base distribution q over those outcomes and an L1
//	budget t ∈ [0, 2]. Nature — the adversary — picks any outcome
//	distribution p with ‖p−q‖₁ ≤ t; the outcomes themselves (their
//	transitions and rewards) are never perturbed.
//
// ✨ Key pieces:
//   - WorstCaseL1 — the exact greedy solution of
//     min pᵀz  s.t.  ‖p−q‖₁ ≤ t, 1ᵀp = 1, p ≥ 0
//     in O(n log n), no LP solver needed
//   - three uncertainty modes — Average, Robust, Optimistic — selected
//     once per solve through RMDP.Under, which binds the mode's kernel
//     outside the hot loop
//   - Robustify — lift a nominal mdp.MDP into an RMDP with one outcome
//     per (possible) next state, so nature can shift probability mass
//     between successor states
//
// The mode views satisfy solver.Process, so every driver in the solver
// package (Gauss–Seidel, Jacobi, MPI, fixed-policy evaluation) works on
// robust models unchanged; robust solutions additionally carry the
// realized worst-case outcome distribution per state.
package robust
