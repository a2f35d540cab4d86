package journal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRealizedPnl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		side       Side
		entry      *float64
		exit       *float64
		size       *float64
		multiplier *float64
		want       float64
	}{
		{"long winner", Long, fp(100), fp(110), fp(2), nil, 20},
		{"short winner", Short, fp(110), fp(100), fp(2), nil, 20},
		{"long loser with multiplier", Long, fp(4800), fp(4795.5), fp(1), fp(50), -225},
		{"decimal prices", Long, fp(0.1), fp(0.3), fp(10), nil, 2},
		{"missing exit", Long, fp(1), nil, fp(1), nil, 0},
		{"nan entry", Short, fp(math.NaN()), fp(1), fp(1), nil, 0},
		{"inf multiplier", Long, fp(1), fp(2), fp(1), fp(math.Inf(1)), 0},
		{"unknown side", "FLAT", fp(1), fp(2), fp(1), nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRealizedPnl(tt.side, tt.entry, tt.exit, tt.size, tt.multiplier)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{" -3 ", -3, true},
		{"$1,234.56", 1234.56, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	assert.Nil(t, ParseOptionalAmount(""))
	assert.Equal(t, 7.0, *ParseOptionalAmount("7"))
}
