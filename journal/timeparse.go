package journal

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried by ParseTime, most specific first. Values without a zone
// are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime decodes the loosely typed timestamps found in imported rows:
// RFC3339, Postgres text timestamps, zone-less date-times, date-only values
// and integer Unix seconds or milliseconds. ok is false when nothing parses.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) > 8 {
		// 13 digits covers millisecond epochs from 2001 onward.
		if len(strings.TrimPrefix(s, "-")) >= 13 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
