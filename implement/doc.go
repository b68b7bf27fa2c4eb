// Package implement computes policies for MDPs that must respect
// observation-aggregation constraints: a mapping φ: S → O partitions the
// states into observation classes, and an admissible policy must choose
// the same action in every state of a class (the action must exist in
// all of them).
//
// Two solvers are provided:
//
//   - SolveReweighted — alternate between evaluating the current
//     observation policy on the underlying MDP and re-selecting, for
//     each observation, the common action with the highest
//     occupancy-weighted sum of state Q-values.
//   - SolveRobust — build an L1-robust MDP over the observations, where
//     the outcomes of an action are its member states' transitions and
//     the adversary (within threshold τ) shifts weight toward the worst
//     member; the robust decision policy is an observation policy by
//     construction. Small τ stays near the nominal member weighting,
//     large τ guards against the worst state of each class.
//
// Both return the observation policy together with the state-level
// fixed-policy solution of its broadcast, evaluated to 1e-8 precision.
package implement
