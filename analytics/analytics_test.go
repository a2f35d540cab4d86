package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

var (
	day1 = time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC) // Monday
	day2 = time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC)  // Tuesday
)

func trade(pnl float64, at time.Time) journal.Trade {
	return journal.Trade{Symbol: "ES", Side: journal.Long, PnL: pnl, ExecutedAt: at}
}

// seq returns trades one minute apart starting at day1.
func seq(pnls ...float64) []journal.Trade {
	out := make([]journal.Trade, len(pnls))
	for i, p := range pnls {
		out[i] = trade(p, day1.Add(time.Duration(i)*time.Minute))
	}
	return out
}
