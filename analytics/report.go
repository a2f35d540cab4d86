package analytics

import "github.com/rustyeddy/tradejournal/journal"

// Report bundles the statistics and every series for one sample.
type Report struct {
	Stats       Stats              `json:"stats"`
	Equity      []EquityPoint      `json:"equity"`
	DailyEquity []DailyEquityPoint `json:"dailyEquity"`
	Daily       []DailyAggregate   `json:"daily"`
	Weekdays    []WeekdayStat      `json:"weekdays"`
	Heatmap     Heatmap            `json:"heatmap"`
	Rolling     []RollingPoint     `json:"rolling"`
	Window      int                `json:"window"`
	// Excluded counts trades that passed the filter but had no usable time.
	Excluded int `json:"excluded"`
}

// Prepare filters trades, drops the untimed ones and orders the rest.
func Prepare(trades []journal.Trade, f Filter) (sample []journal.Trade, excluded int) {
	timed, excluded := Timed(f.Apply(trades))
	return Sort(timed), excluded
}

// BuildReport runs the whole pipeline over an unordered trade collection.
func BuildReport(trades []journal.Trade, f Filter, opts Options) Report {
	sample, excluded := Prepare(trades, f)
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	return Report{
		Stats:       ComputeStats(sample, opts),
		Equity:      EquityCurve(sample),
		DailyEquity: DailyEquity(sample),
		Daily:       DailyPnl(sample),
		Weekdays:    WeekdayAverages(sample),
		Heatmap:     HourWeekdayHeatmap(sample),
		Rolling:     Rolling(sample, window),
		Window:      window,
		Excluded:    excluded,
	}
}
