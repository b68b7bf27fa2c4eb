package mdp_test

import (
	"fmt"

	"github.com/Elsin/CRAAM/mdp"
	"github.com/Elsin/CRAAM/solver"
)

// ExampleMDP builds the two-state stay/flip model one transition at a
// time and solves it with Gauss–Seidel value iteration.
func ExampleMDP() {
	var m mdp.MDP
	_ = m.AddTransition(0, 0, 0, 1.0, 1.0) // stay at 0, reward 1
	_ = m.AddTransition(0, 1, 1, 1.0, 0.0) // flip 0→1
	_ = m.AddTransition(1, 0, 1, 1.0, 0.0) // stay at 1
	_ = m.AddTransition(1, 1, 0, 1.0, 0.0) // flip 1→0

	sol, err := solver.SolveGS(&m, solver.DefaultOptions(0.9))
	if err != nil {
		fmt.Println("solve failed:", err)
		return
	}
	fmt.Printf("V = [%.2f %.2f]\n", sol.Values[0], sol.Values[1])
	fmt.Printf("policy = %v\n", sol.Policy)
	// Output:
	// V = [10.00 9.00]
	// policy = [0 1]
}

// ExampleTransition_Add shows the merge semantics of repeated inserts.
func ExampleTransition_Add() {
	var t mdp.Transition
	_ = t.Add(3, 0.25, 4.0)
	_ = t.Add(3, 0.75, 8.0) // merges: probabilities add, rewards average

	fmt.Printf("entries=%d p=%.2f r=%.2f\n", t.Len(), t.Probability(0), t.Reward(0))
	// Output:
	// entries=1 p=1.00 r=7.00
}
