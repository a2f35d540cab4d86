package analytics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MonthRef names a UTC calendar month.
type MonthRef struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CurrentMonth returns the UTC month containing now.
func CurrentMonth(now time.Time) MonthRef {
	now = now.UTC()
	return MonthRef{Year: now.Year(), Month: now.Month()}
}

var monthRef = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ParseMonthRef parses YYYY-MM.
func ParseMonthRef(s string) (MonthRef, error) {
	m := monthRef.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return MonthRef{}, fmt.Errorf("month %q: want YYYY-MM", s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if mo < 1 || mo > 12 {
		return MonthRef{}, fmt.Errorf("month %q: month out of range", s)
	}
	return MonthRef{Year: y, Month: time.Month(mo)}, nil
}

func (m MonthRef) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First is UTC midnight of the first day of the month.
func (m MonthRef) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Prev is the month before m; January rolls back to December.
func (m MonthRef) Prev() MonthRef {
	return CurrentMonth(m.First().AddDate(0, -1, 0))
}

// Next is the month after m; December rolls over to January.
func (m MonthRef) Next() MonthRef {
	return CurrentMonth(m.First().AddDate(0, 1, 0))
}

// CalendarDay is a real day of the displayed month. Days without trades
// have zero NetPnl and TradeCount.
type CalendarDay struct {
	Day        int     `json:"day"`
	DayKey     string  `json:"dayKey"`
	NetPnl     float64 `json:"netPnl"`
	TradeCount int     `json:"tradeCount"`
}

// CalendarMonth is a Sunday-first grid of full weeks. Cells outside the
// month are nil. MaxAbsPnl is the largest absolute daily net over the whole
// daily series, not just this month, so colors stay comparable while
// paging.
type CalendarMonth struct {
	Year      int              `json:"year"`
	Month     time.Month       `json:"month"`
	Weeks     [][]*CalendarDay `json:"weeks"`
	MaxAbsPnl float64          `json:"maxAbsPnl"`
}

// Calendar lays out ref's days and attaches the matching daily aggregates.
func Calendar(daily []DailyAggregate, ref MonthRef) CalendarMonth {
	byKey := make(map[string]DailyAggregate, len(daily))
	cal := CalendarMonth{Year: ref.Year, Month: ref.Month}
	for _, d := range daily {
		byKey[d.DayKey] = d
		cal.MaxAbsPnl = math.Max(cal.MaxAbsPnl, math.Abs(finiteOr0(d.NetPnl)))
	}

	first := ref.First()
	days := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	cells := make([]*CalendarDay, lead, lead+days+6)
	for d := 1; d <= days; d++ {
		key := DayKey(first.AddDate(0, 0, d-1))
		day := &CalendarDay{Day: d, DayKey: key}
		if agg, ok := byKey[key]; ok {
			day.NetPnl = finiteOr0(agg.NetPnl)
			day.TradeCount = agg.TradeCount
		}
		cells = append(cells, day)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	cal.Weeks = make([][]*CalendarDay, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		cal.Weeks = append(cal.Weeks, cells[i:i+7])
	}
	return cal
}
