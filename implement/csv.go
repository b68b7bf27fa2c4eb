package implement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes the implementable problem as three CSV tables: the
// MDP (idstatefrom, idaction, idstateto, probability, reward), the
// state→observation map (idstate, idobservation) and the initial
// distribution (idstate, probability). With header=true each table
// starts with its column names.
//
// Zero-probability rows are written as-is; downstream ingestion applies
// its own sparsity filter.
func (p *Problem) WriteCSV(mdpW, obsW, initialW io.Writer, header bool) error {
	mw := csv.NewWriter(mdpW)
	if header {
		if err := mw.Write([]string{"idstatefrom", "idaction", "idstateto", "probability", "reward"}); err != nil {
			return fmt.Errorf("implement: %w", err)
		}
	}
	for s := 0; s < p.m.NumStates(); s++ {
		st, err := p.m.State(s)
		if err != nil {
			return fmt.Errorf("implement: %w", err)
		}
		for a := 0; a < st.NumActions(); a++ {
			act, err := st.Action(a)
			if err != nil {
				return fmt.Errorf("implement: %w", err)
			}
			t := act.Transition()
			for i := 0; i < t.Len(); i++ {
				row := []string{
					strconv.Itoa(s),
					strconv.Itoa(a),
					strconv.Itoa(t.Index(i)),
					formatFloat(t.Probability(i)),
					formatFloat(t.Reward(i)),
				}
				if err = mw.Write(row); err != nil {
					return fmt.Errorf("implement: %w", err)
				}
			}
		}
	}
	mw.Flush()
	if err := mw.Error(); err != nil {
		return fmt.Errorf("implement: %w", err)
	}

	ow := csv.NewWriter(obsW)
	if header {
		if err := ow.Write([]string{"idstate", "idobservation"}); err != nil {
			return fmt.Errorf("implement: %w", err)
		}
	}
	for s, o := range p.observations {
		if err := ow.Write([]string{strconv.Itoa(s), strconv.Itoa(o)}); err != nil {
			return fmt.Errorf("implement: %w", err)
		}
	}
	ow.Flush()
	if err := ow.Error(); err != nil {
		return fmt.Errorf("implement: %w", err)
	}

	iw := csv.NewWriter(initialW)
	if header {
		if err := iw.Write([]string{"idstate", "probability"}); err != nil {
			return fmt.Errorf("implement: %w", err)
		}
	}
	for s, prob := range p.initial {
		if err := iw.Write([]string{strconv.Itoa(s), formatFloat(prob)}); err != nil {
			return fmt.Errorf("implement: %w", err)
		}
	}
	iw.Flush()

	return iw.Error()
}

// formatFloat renders probabilities and rewards compactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
