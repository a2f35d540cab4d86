package analytics

import (
	"slices"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// Sort returns a new slice ordered by canonical time, oldest first. Equal
// instants keep their input order. Untimed trades go last, also in input
// order; callers normally drop them with Timed first.
func Sort(trades []journal.Trade) []journal.Trade {
	type keyed struct {
		t     journal.Trade
		at    time.Time
		timed bool
	}
	ks := make([]keyed, len(trades))
	for i, t := range trades {
		at, ok := CanonicalTime(t)
		ks[i] = keyed{t: t, at: at, timed: ok}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		if a.timed != b.timed {
			if a.timed {
				return -1
			}
			return 1
		}
		return a.at.Compare(b.at)
	})

	out := make([]journal.Trade, len(ks))
	for i, k := range ks {
		out[i] = k.t
	}
	return out
}

// Timed splits off the trades with no canonical time and reports how many
// were dropped.
func Timed(trades []journal.Trade) (timed []journal.Trade, excluded int) {
	timed = make([]journal.Trade, 0, len(trades))
	for _, t := range trades {
		if _, ok := CanonicalTime(t); ok {
			timed = append(timed, t)
			continue
		}
		excluded++
	}
	return timed, excluded
}
