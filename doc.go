// Package craam is a toolkit for specifying, solving, simulating and
// robustifying finite discrete Markov Decision Processes — including
// the L1-robust variant where transition distributions are adversarially
// perturbed within an L1 ball around a nominal distribution.
//
// 🚀 What is CRAAM?
//
//	A sparse, solver-oriented MDP library that brings together:
//		• Core primitives: sparse transitions, actions, states, builder API
//		• Dense ingestion: build models from gonum matrices, export back
//		• Solvers: value iteration (Gauss–Seidel & Jacobi), fixed-policy
//		  evaluation, modified policy iteration — optionally parallel
//		• Robustness: L1 outcome actions, exact worst-case optimization,
//		  nominal→robust lifting, Average/Robust/Optimistic modes
//		• Simulation: seeded rollouts, sample stores, maximum-likelihood
//		  model estimation
//		• Implementability: observation-constrained policies via
//		  reweighting or robust aggregation
//
// ✨ Why choose CRAAM?
//
//   - Exact inner optimization – the L1 worst case is a greedy O(n log n)
//     exchange, no LP solver in the hot path
//   - Solver-agnostic models – plain MDPs and robust views share one
//     Process interface, so every driver works on both
//   - Deterministic – seeded randomness everywhere; same inputs, same run
//
// Everything is organized under five subpackages:
//
//	mdp/       — sparse data model, builder, dense/JSON conversions
//	robust/    — L1 outcome actions, worst-case solver, robustification
//	solver/    — Bellman drivers: VI-GS, VI-Jacobi, fixed-policy, MPI
//	simulate/  — simulator, sample store, sampled-MDP estimator
//	implement/ — observation-constrained (implementable) policy solvers
//
// Quick sketch:
//
//	var m mdp.MDP
//	_ = m.AddTransition(0, 0, 1, 0.9, 5.0)
//	_ = m.AddTransition(0, 0, 0, 0.1, 0.0)
//	sol, _ := solver.SolveGS(&m, solver.DefaultOptions(0.95))
//
// See each subpackage's doc.go and example_test.go files for the details.
package craam
