// Package mdp implements the sparse data model for finite discrete
// Markov Decision Processes: transitions, actions, states and the MDP
// builder itself.
//
// 🚀 What is an MDP here?
//
//	An ordered container of states; each state owns an ordered list of
//	actions; each action owns one sparse transition row. Identifiers
//	(state id, action id) are dense 0-based integers equal to position.
//	The builder auto-extends containers when a new identifier is
//	referenced, so a model can be declared one transition at a time:
//
//	  var m mdp.MDP
//	  _ = m.AddTransition(0, 0, 1, 0.9, 5.0) // s0 --a0--> s1, p=0.9, r=5
//	  _ = m.AddTransition(0, 0, 0, 0.1, 0.0)
//
// ✨ Key features:
//   - sparse rows: parallel (index, probability, reward) triples kept in
//     ascending index order; repeated inserts merge probabilities and
//     average rewards by probability weight
//   - dense ingestion/export through gonum matrices (FromMatrices / ToMatrices)
//   - JSON export of the full state→action→transition tree
//   - greedy Bellman backup and fixed-action evaluation kernels consumed
//     by the solver package
//
// States with no actions are terminal: backups leave their value at 0
// and report policy −1.
//
// See the solver, robust, simulate and implement packages for the
// algorithms operating on this model.
package mdp
