package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// EquityPoint is one step of the trade-indexed performance curve.
type EquityPoint struct {
	Index         int       `json:"index"`
	Time          time.Time `json:"time"`
	DayKey        string    `json:"dayKey"`
	PeriodPnl     float64   `json:"periodPnl"`
	CumulativePnl float64   `json:"cumulativePnl"`
}

// DailyEquityPoint is one step of the day-indexed curve. Index 0 is the
// synthetic "Start" anchor at zero.
type DailyEquityPoint struct {
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	PnL     float64 `json:"pnl"`
	Balance float64 `json:"balance"`
}

// StartLabel labels the anchor point of DailyEquity.
const StartLabel = "Start"

// DailyAggregate is the net PnL and trade count of one UTC day.
type DailyAggregate struct {
	Index      int     `json:"index"`
	DayKey     string  `json:"dayKey"`
	NetPnl     float64 `json:"netPnl"`
	TradeCount int     `json:"tradeCount"`
}

// WeekdayStat is the average PnL of trades executed on one UTC weekday.
type WeekdayStat struct {
	Weekday  time.Weekday `json:"weekday"`
	Name     string       `json:"name"`
	AvgPnl   float64      `json:"avgPnl"`
	TotalPnl float64      `json:"totalPnl"`
	Count    int          `json:"count"`
}

// HeatCell is one (UTC weekday, UTC hour) bucket.
type HeatCell struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	AvgPnl  float64      `json:"avgPnl"`
	Count   int          `json:"count"`
}

// Heatmap holds the non-empty cells, ordered by weekday then hour, and the
// largest absolute cell mean for intensity scaling.
type Heatmap struct {
	Cells      []HeatCell `json:"cells"`
	MaxAbsMean float64    `json:"maxAbsMean"`
}

// EquityCurve returns the cumulative PnL after each trade, starting from 0.
func EquityCurve(sample []journal.Trade) []EquityPoint {
	out := make([]EquityPoint, 0, len(sample))
	var cum float64
	for i, t := range sample {
		p := pnl(t)
		cum += p
		at, _ := CanonicalTime(t)
		pt := EquityPoint{Index: i + 1, Time: at, PeriodPnl: p, CumulativePnl: cum}
		if !at.IsZero() {
			pt.DayKey = DayKey(at)
		}
		out = append(out, pt)
	}
	return out
}

// DailyPnl returns one aggregate per UTC day that has trades, in day order.
// Index is 1-based.
func DailyPnl(sample []journal.Trade) []DailyAggregate {
	byDay := make(map[string]*DailyAggregate)
	for _, t := range sample {
		at, ok := CanonicalTime(t)
		if !ok {
			continue
		}
		k := DayKey(at)
		d, seen := byDay[k]
		if !seen {
			d = &DailyAggregate{DayKey: k}
			byDay[k] = d
		}
		d.NetPnl += pnl(t)
		d.TradeCount++
	}

	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]DailyAggregate, len(keys))
	for i, k := range keys {
		out[i] = *byDay[k]
		out[i].Index = i + 1
	}
	return out
}

// DailyEquity returns the running balance at the close of each trading day,
// preceded by a zero "Start" anchor. An empty sample yields an empty slice.
func DailyEquity(sample []journal.Trade) []DailyEquityPoint {
	daily := DailyPnl(sample)
	if len(daily) == 0 {
		return []DailyEquityPoint{}
	}
	out := make([]DailyEquityPoint, 0, len(daily)+1)
	out = append(out, DailyEquityPoint{Index: 0, Label: StartLabel})
	var bal float64
	for _, d := range daily {
		bal += d.NetPnl
		out = append(out, DailyEquityPoint{Index: d.Index, Label: d.DayKey, PnL: d.NetPnl, Balance: bal})
	}
	return out
}

// WeekdayAverages returns the mean PnL per UTC weekday, Sunday first.
// Weekdays without trades are omitted.
func WeekdayAverages(sample []journal.Trade) []WeekdayStat {
	var buckets [7]WeekdayStat
	for _, t := range sample {
		at, ok := CanonicalTime(t)
		if !ok {
			continue
		}
		b := &buckets[at.Weekday()]
		b.TotalPnl += pnl(t)
		b.Count++
	}

	out := make([]WeekdayStat, 0, 7)
	for wd, b := range buckets {
		if b.Count == 0 {
			continue
		}
		b.Weekday = time.Weekday(wd)
		b.Name = b.Weekday.String()
		b.AvgPnl = b.TotalPnl / float64(b.Count)
		out = append(out, b)
	}
	return out
}

// HourWeekdayHeatmap buckets the sample by UTC weekday and hour of day.
func HourWeekdayHeatmap(sample []journal.Trade) Heatmap {
	type acc struct {
		sum   float64
		count int
	}
	var grid [7][24]acc
	for _, t := range sample {
		at, ok := CanonicalTime(t)
		if !ok {
			continue
		}
		c := &grid[at.Weekday()][at.Hour()]
		c.sum += pnl(t)
		c.count++
	}

	hm := Heatmap{Cells: []HeatCell{}}
	for wd := range grid {
		for h, c := range grid[wd] {
			if c.count == 0 {
				continue
			}
			mean := c.sum / float64(c.count)
			hm.Cells = append(hm.Cells, HeatCell{
				Weekday: time.Weekday(wd),
				Hour:    h,
				AvgPnl:  mean,
				Count:   c.count,
			})
			hm.MaxAbsMean = math.Max(hm.MaxAbsMean, math.Abs(mean))
		}
	}
	return hm
}
