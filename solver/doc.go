// Package solver implements the Bellman-style iterative drivers shared
// by plain and robust MDPs:
//
//   - SolveGS      — value iteration, Gauss–Seidel (in-place, ascending
//     state order; the order is observable through convergence speed)
//   - SolveJacobi  — value iteration, Jacobi (two buffers; per-state
//     backups are independent inside a sweep and may run in parallel)
//   - Evaluate     — fixed-policy Jacobi evaluation, with an optional
//     "nature" policy selecting a realized outcome distribution per state
//   - SolveMPI     — modified policy iteration (Jacobi): greedy
//     improvement alternating with partial policy evaluation
//
// The drivers are generic over the Process interface, implemented by
// mdp.MDP and by the uncertainty-mode views of robust.RMDP; the package
// itself carries no model types.
//
// Residual is the L∞ norm of the per-state value change across one
// sweep. Solvers stop when the residual drops to MaxResidual or the
// iteration cap is hit; a non-positive MaxResidual disables early
// stopping, and hitting the cap is not an error — the Solution carries
// whatever values, policy and residual were reached.
package solver
