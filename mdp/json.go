package mdp

import "encoding/json"

// transitionJSON mirrors the sparse row for inspection output.
type transitionJSON struct {
	Indices       []int     `json:"indices"`
	Probabilities []float64 `json:"probabilities"`
	Rewards       []float64 `json:"rewards"`
}

type actionJSON struct {
	ID         int            `json:"id"`
	Transition transitionJSON `json:"transition"`
}

type stateJSON struct {
	ID      int          `json:"id"`
	Actions []actionJSON `json:"actions"`
}

func (t *Transition) toJSON() transitionJSON {
	return transitionJSON{
		Indices:       append([]int(nil), t.indices...),
		Probabilities: append([]float64(nil), t.probabilities...),
		Rewards:       append([]float64(nil), t.rewards...),
	}
}

// MarshalJSON emits the sparse row as parallel arrays.
func (t *Transition) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON())
}

// MarshalJSON emits the state→action→transition tree. The format is for
// inspection and debugging, not a stable interchange schema.
func (m *MDP) MarshalJSON() ([]byte, error) {
	states := make([]stateJSON, len(m.states))
	for s := range m.states {
		actions := make([]actionJSON, len(m.states[s].actions))
		for a := range actions {
			actions[a] = actionJSON{ID: a, Transition: m.states[s].actions[a].transition.toJSON()}
		}
		states[s] = stateJSON{ID: s, Actions: actions}
	}

	return json.Marshal(struct {
		States []stateJSON `json:"states"`
	}{States: states})
}
