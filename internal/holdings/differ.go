package holdings

import "github.com/seenimoa/filingwatch/pkg/models"

// Compare diffs two snapshots of the same filer. Positions present only in
// current are new; only in previous, closed. Positions in both are reported
// as increased or decreased only when the value moved by at least
// materialityPct percent; smaller moves are omitted entirely.
//
// Pure function of its inputs: no stores, no clock, no network.
func Compare(current, previous models.HoldingsSnapshot, materialityPct float64) models.ChangeSet {
	var cs models.ChangeSet

	for key, pos := range current.Positions {
		prev, held := previous.Positions[key]
		if !held {
			cs.New = append(cs.New, pos)
			continue
		}

		var changePct float64
		if prev.ValueUSD > 0 {
			changePct = float64(pos.ValueUSD-prev.ValueUSD) / float64(prev.ValueUSD) * 100
		}
		if changePct >= materialityPct {
			cs.Increased = append(cs.Increased, models.PositionChange{
				Position:  pos,
				PrevValue: prev.ValueUSD,
				ChangePct: changePct,
			})
		} else if changePct <= -materialityPct {
			cs.Decreased = append(cs.Decreased, models.PositionChange{
				Position:  pos,
				PrevValue: prev.ValueUSD,
				ChangePct: changePct,
			})
		}
	}

	for key, prev := range previous.Positions {
		if _, held := current.Positions[key]; !held {
			cs.Closed = append(cs.Closed, prev)
		}
	}

	return cs
}
