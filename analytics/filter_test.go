package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

func TestFilterApply(t *testing.T) {
	t.Parallel()

	endOfMar5 := time.Date(2024, 3, 5, 23, 59, 59, 999_000_000, time.UTC)
	trades := []journal.Trade{
		{ID: "mnq-upper", Symbol: "MNQ", Market: "FUTURES", Side: journal.Long, ExecutedAt: day1},
		{ID: "mnq-lower", Symbol: "mnq", Market: "futures", Side: journal.Short, ExecutedAt: day2},
		{ID: "nq", Symbol: "NQ", Market: "FUTURES", Side: journal.Long, ExecutedAt: endOfMar5},
		{ID: "aapl", Symbol: "AAPL", Market: "STOCK", Side: journal.Short, ExecutedAt: day1.AddDate(0, 0, -10)},
		{ID: "untimed", Symbol: "MNQ", Side: journal.Long},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter", Filter{}, []string{"mnq-upper", "mnq-lower", "nq", "aapl", "untimed"}},
		{"symbol is case-insensitive exact", Filter{Symbol: "MNQ"}, []string{"mnq-upper", "mnq-lower", "untimed"}},
		{"symbol lower input", Filter{Symbol: " mnq "}, []string{"mnq-upper", "mnq-lower", "untimed"}},
		{"symbol contains", Filter{Symbol: "nq", SymbolMatch: MatchContains}, []string{"mnq-upper", "mnq-lower", "nq", "untimed"}},
		{"market", Filter{Market: "stock"}, []string{"aapl"}},
		{"side", Filter{Side: "short"}, []string{"mnq-lower", "aapl"}},
		{"to includes end of day", Filter{From: "2024-03-05", To: "2024-03-05"}, []string{"mnq-lower", "nq"}},
		{"from only drops untimed", Filter{From: "2024-03-01"}, []string{"mnq-upper", "mnq-lower", "nq"}},
		{"malformed from ignored", Filter{From: "03/01/2024", Symbol: "AAPL"}, []string{"aapl"}},
		{"combined", Filter{To: "2024-03-04", Side: "LONG"}, []string{"mnq-upper"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(trades)))
		})
	}
}

func TestFilterExactSymbolIgnoresCase(t *testing.T) {
	t.Parallel()

	trades := []journal.Trade{
		{Symbol: "MNQ", ExecutedAt: day1},
		{Symbol: "mnq", ExecutedAt: day2},
		{Symbol: "MNQU4", ExecutedAt: day2},
	}
	assert.Len(t, Filter{Symbol: "MNQ"}.Apply(trades), 2)
}

func TestFilterIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Filter{}.IsZero())
	assert.True(t, Filter{SymbolMatch: MatchContains}.IsZero())
	assert.False(t, Filter{Side: "LONG"}.IsZero())
}

func TestParseMatchMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchExact, m)

	m, err = ParseMatchMode("Contains")
	require.NoError(t, err)
	assert.Equal(t, MatchContains, m)

	_, err = ParseMatchMode("fuzzy")
	assert.Error(t, err)
}
