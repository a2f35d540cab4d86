package analytics

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// MatchMode selects how Filter.Symbol is compared.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchContains MatchMode = "contains"
)

// ParseMatchMode accepts "exact" or "contains"; empty means exact.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchContains:
		return MatchContains, nil
	}
	return "", fmt.Errorf("unknown symbol match mode %q", s)
}

// Filter narrows a trade collection. Empty fields impose no constraint.
// From and To are inclusive YYYY-MM-DD UTC days; a malformed bound is
// ignored.
type Filter struct {
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	Market      string    `json:"market,omitempty"`
	Side        string    `json:"side,omitempty"`
	SymbolMatch MatchMode `json:"symbolMatch,omitempty"`
}

// Apply returns the trades that satisfy every set predicate, in input order.
func (f Filter) Apply(trades []journal.Trade) []journal.Trade {
	from, hasFrom := ParseDate(f.From)
	to, hasTo := ParseDate(f.To)
	if hasTo {
		to = endOfDay(to)
	}
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	market := strings.ToUpper(strings.TrimSpace(f.Market))
	side := strings.ToUpper(strings.TrimSpace(f.Side))

	out := make([]journal.Trade, 0, len(trades))
	for _, t := range trades {
		if hasFrom || hasTo {
			at, ok := CanonicalTime(t)
			if !ok {
				continue
			}
			if hasFrom && at.Before(from) {
				continue
			}
			if hasTo && at.After(to) {
				continue
			}
		}
		if symbol != "" && !f.matchSymbol(strings.ToUpper(t.Symbol), symbol) {
			continue
		}
		if market != "" && strings.ToUpper(t.Market) != market {
			continue
		}
		if side != "" && strings.ToUpper(string(t.Side)) != side {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsZero reports whether every predicate field is empty.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.From) == "" && strings.TrimSpace(f.To) == "" &&
		strings.TrimSpace(f.Symbol) == "" && strings.TrimSpace(f.Market) == "" &&
		strings.TrimSpace(f.Side) == ""
}

func (f Filter) matchSymbol(have, want string) bool {
	if f.SymbolMatch == MatchContains {
		return strings.Contains(have, want)
	}
	return have == want
}
