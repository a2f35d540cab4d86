package analytics

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

func TestComputeStatsMixedSample(t *testing.T) {
	t.Parallel()

	sample := Sort(twoDaySample())
	s := ComputeStats(sample, Options{})

	assert.Equal(t, 3, s.TradeCount)
	assert.Equal(t, 120.0, s.TotalPnl)
	assert.Equal(t, 2, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-12)
	assert.Equal(t, 160.0, s.GrossWin)
	assert.Equal(t, 40.0, s.GrossLossAbs)
	assert.Equal(t, ProfitFactor(4), s.ProfitFactor)
	assert.Equal(t, 40.0, s.Expectancy)
	// Curve 100, 60, 120 with the peak at 100 before the loss.
	assert.Equal(t, 40.0, s.MaxDrawdownAbs)
	assert.Equal(t, 80.0, s.AvgWin)
	assert.Equal(t, -40.0, s.AvgLoss)
}

// twoDaySample has two trades on day1 and one on day2.
func twoDaySample() []journal.Trade {
	return []journal.Trade{
		trade(100, day1),
		trade(-40, day1.Add(time.Minute)),
		trade(60, day2),
	}
}

func TestComputeStatsDrawdownFromStart(t *testing.T) {
	t.Parallel()

	s := ComputeStats(seq(-50, -30, 100), Options{})
	assert.Equal(t, 80.0, s.MaxDrawdownAbs)
	assert.Equal(t, 20.0, s.TotalPnl)
	assert.Equal(t, 0.0, s.MaxDrawdownPct)
}

func TestComputeStatsEmpty(t *testing.T) {
	t.Parallel()

	s := ComputeStats(nil, Options{InitialBalance: 1000})
	assert.Equal(t, Stats{InitialBalance: 1000, EndingBalance: 1000}, s)
	assert.Equal(t, ProfitFactor(0), s.ProfitFactor)
}

func TestComputeStatsProfitFactorEdges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pnls  []float64
		want  float64
		isInf bool
	}{
		{"only wins", []float64{10, 5}, 0, true},
		{"only breakeven", []float64{0, 0}, 0, false},
		{"balanced", []float64{50, -20, -30}, 1, false},
		{"only losses", []float64{-5}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStats(seq(tt.pnls...), Options{})
			assert.Equal(t, tt.isInf, s.ProfitFactor.IsInf())
			if !tt.isInf {
				assert.InDelta(t, tt.want, float64(s.ProfitFactor), 1e-12)
			}
		})
	}
}

func TestComputeStatsBreakevenAndNaN(t *testing.T) {
	t.Parallel()

	s := ComputeStats(seq(0, math.NaN(), math.Inf(-1), 25), Options{})
	assert.Equal(t, 4, s.TradeCount)
	assert.Equal(t, 3, s.BreakevenCount)
	assert.Equal(t, 25.0, s.TotalPnl)
	assert.False(t, math.IsNaN(s.Expectancy))
	assert.Equal(t, 6.25, s.Expectancy)
}

func TestComputeStatsDrawdownBound(t *testing.T) {
	t.Parallel()

	pnls := []float64{12, -7, 3, -20, 15, -1, -4, 30, -9}
	s := ComputeStats(seq(pnls...), Options{})

	var curve, peak float64
	for _, p := range pnls {
		curve += p
		peak = math.Max(peak, curve)
		assert.GreaterOrEqual(t, s.MaxDrawdownAbs, peak-curve)
	}
	assert.Equal(t, 24.0, s.MaxDrawdownAbs)

	rising := ComputeStats(seq(1, 0, 2, 5), Options{})
	assert.Equal(t, 0.0, rising.MaxDrawdownAbs)
}

func TestComputeStatsDrawdownPct(t *testing.T) {
	t.Parallel()

	// Curve 100, 50, 250, 200: worst dollar drawdown is 50.
	sample := seq(100, -50, 200, -50)

	tests := []struct {
		name    string
		opts    Options
		wantAbs float64
		wantPct float64
	}{
		{"initial balance", Options{InitialBalance: 1000}, 50, 5},
		{"default convention", Options{InitialBalance: 500, Drawdown: ""}, 50, 10},
		{"zero balance", Options{}, 50, 0},
		// Equity 1100, 1050, 1250, 1200: 50/1100 beats 50/1250.
		{"peak equity", Options{InitialBalance: 1000, Drawdown: DrawdownOfPeakEquity}, 50, 50.0 / 1100 * 100},
		// Equity 100, 50, 250, 200 from zero: 50/100.
		{"peak equity zero balance", Options{Drawdown: DrawdownOfPeakEquity}, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStats(sample, tt.opts)
			assert.Equal(t, tt.wantAbs, s.MaxDrawdownAbs)
			assert.InDelta(t, tt.wantPct, s.MaxDrawdownPct, 1e-9)
			assert.Equal(t, tt.opts.InitialBalance+200, s.EndingBalance)
		})
	}
}

func TestComputeStatsPeakEquityUnderwater(t *testing.T) {
	t.Parallel()

	// Equity never rises above zero, so no step has a positive peak.
	s := ComputeStats(seq(-10, -20), Options{Drawdown: DrawdownOfPeakEquity})
	assert.Equal(t, 30.0, s.MaxDrawdownAbs)
	assert.Equal(t, 0.0, s.MaxDrawdownPct)
}

func TestParseDrawdownConvention(t *testing.T) {
	t.Parallel()

	c, err := ParseDrawdownConvention("")
	require.NoError(t, err)
	assert.Equal(t, DrawdownOfInitial, c)

	c, err = ParseDrawdownConvention("PEAK_EQUITY")
	require.NoError(t, err)
	assert.Equal(t, DrawdownOfPeakEquity, c)

	_, err = ParseDrawdownConvention("max")
	assert.Error(t, err)
}

func TestProfitFactorJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Stats{ProfitFactor: ProfitFactor(math.Inf(1))})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"profitFactor":"Infinity"`)

	var back Stats
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.ProfitFactor.IsInf())

	b, err = json.Marshal(ProfitFactor(2.5))
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(b))

	var pf ProfitFactor
	require.NoError(t, json.Unmarshal([]byte("1.25"), &pf))
	assert.Equal(t, ProfitFactor(1.25), pf)
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &pf))

	assert.Equal(t, "∞", ProfitFactor(math.Inf(1)).String())
	assert.Equal(t, "4.00", ProfitFactor(4).String())
}
