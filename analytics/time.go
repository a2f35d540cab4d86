// Package analytics turns an owner's raw trades into performance statistics
// and chart series. Every function is pure: inputs are never mutated, nothing
// is logged, and empty or degenerate samples produce zeroed results.
package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
)

// DayKeyLayout is the fixed-width UTC day key format. Lexical order of keys
// equals chronological order.
const DayKeyLayout = "2006-01-02"

// CanonicalTime resolves the instant analytics use for t: ExecutedAt, then
// CreatedAt, then the legacy Date and Timestamp fields. ok is false when the
// trade carries no usable time.
func CanonicalTime(t journal.Trade) (time.Time, bool) {
	for _, c := range [...]time.Time{t.ExecutedAt, t.CreatedAt, t.Date, t.Timestamp} {
		if !c.IsZero() {
			return c.UTC(), true
		}
	}
	return time.Time{}, false
}

// DayKey returns the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

var dateOnly = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// ParseDate parses a strict YYYY-MM-DD string into UTC midnight. Out of
// range components roll over the way time.Date normalizes them, so
// 2024-02-30 becomes March 1st.
func ParseDate(s string) (time.Time, bool) {
	m := dateOnly.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), true
}

// ParseInstant parses a loosely typed timestamp from imported or posted
// data. See journal.ParseTime for the accepted forms.
func ParseInstant(s string) (time.Time, bool) {
	return journal.ParseTime(s)
}

// endOfDay is the last representable instant of d's UTC day.
func endOfDay(d time.Time) time.Time {
	return d.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
