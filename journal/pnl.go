package journal

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ComputeRealizedPnl suggests a PnL from prices at entry time:
//
//	LONG:  (exit - entry) * size * multiplier
//	SHORT: (entry - exit) * size * multiplier
//
// A nil multiplier means 1. Any missing or non-finite input, or an unknown
// side, yields 0. The stored PnL on a trade always wins over this value.
func ComputeRealizedPnl(side Side, entry, exit, size, multiplier *float64) float64 {
	if side != Long && side != Short {
		return 0
	}
	m := 1.0
	if multiplier != nil {
		m = *multiplier
	}
	if !finite(entry) || !finite(exit) || !finite(size) || !finite(&m) {
		return 0
	}

	e := decimal.NewFromFloat(*entry)
	x := decimal.NewFromFloat(*exit)
	raw := x.Sub(e)
	if side == Short {
		raw = e.Sub(x)
	}
	pnl := raw.Mul(decimal.NewFromFloat(*size)).Mul(decimal.NewFromFloat(m))
	return pnl.InexactFloat64()
}

// ParseAmount parses a user-entered money or price value. Thousands
// separators and a leading '$' are tolerated.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// ParseOptionalAmount returns nil for an empty or unparseable value.
func ParseOptionalAmount(s string) *float64 {
	v, ok := ParseAmount(s)
	if !ok {
		return nil
	}
	return &v
}

func finite(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}
