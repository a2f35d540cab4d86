package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// DrawdownConvention selects the denominator of Stats.MaxDrawdownPct.
type DrawdownConvention string

const (
	// DrawdownOfInitial divides the dollar drawdown by the initial balance.
	DrawdownOfInitial DrawdownConvention = "initial_balance"
	// DrawdownOfPeakEquity takes the worst step of (peak - equity) / peak
	// on the account equity curve, initial balance included.
	DrawdownOfPeakEquity DrawdownConvention = "peak_equity"
)

// ParseDrawdownConvention accepts the constant values; empty means
// DrawdownOfInitial.
func ParseDrawdownConvention(s string) (DrawdownConvention, error) {
	switch DrawdownConvention(strings.ToLower(strings.TrimSpace(s))) {
	case "", DrawdownOfInitial:
		return DrawdownOfInitial, nil
	case DrawdownOfPeakEquity:
		return DrawdownOfPeakEquity, nil
	}
	return "", fmt.Errorf("unknown drawdown convention %q", s)
}

// Options configure a report.
type Options struct {
	InitialBalance float64
	Drawdown       DrawdownConvention
	// Window is the rolling window size; <= 0 means DefaultWindow.
	Window int
}

// ProfitFactor is gross win over absolute gross loss. It is +Inf when a
// sample has wins and no losses, which JSON cannot carry as a number, so it
// encodes that case as the string "Infinity".
type ProfitFactor float64

func (p ProfitFactor) IsInf() bool {
	return math.IsInf(float64(p), 1)
}

func (p ProfitFactor) String() string {
	if p.IsInf() {
		return "∞"
	}
	return fmt.Sprintf("%.2f", float64(p))
}

func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	if p.IsInf() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(p))
}

func (p *ProfitFactor) UnmarshalJSON(b []byte) error {
	if string(b) == `"Infinity"` {
		*p = ProfitFactor(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("profit factor: %w", err)
	}
	*p = ProfitFactor(f)
	return nil
}

// MarshalYAML mirrors the JSON encoding for the CLI's YAML output.
func (p ProfitFactor) MarshalYAML() (any, error) {
	if p.IsInf() {
		return "Infinity", nil
	}
	return float64(p), nil
}

// Stats is the single-pass summary of a sample. Money values are unrounded.
type Stats struct {
	TradeCount     int          `json:"tradeCount" yaml:"trade_count"`
	TotalPnl       float64      `json:"totalPnl" yaml:"total_pnl"`
	WinCount       int          `json:"winCount" yaml:"win_count"`
	LossCount      int          `json:"lossCount" yaml:"loss_count"`
	BreakevenCount int          `json:"breakevenCount" yaml:"breakeven_count"`
	WinRate        float64      `json:"winRate" yaml:"win_rate"`
	GrossWin       float64      `json:"grossWin" yaml:"gross_win"`
	GrossLossAbs   float64      `json:"grossLossAbs" yaml:"gross_loss_abs"`
	ProfitFactor   ProfitFactor `json:"profitFactor" yaml:"profit_factor"`
	Expectancy     float64      `json:"expectancy" yaml:"expectancy"`
	MaxDrawdownAbs float64      `json:"maxDrawdownAbs" yaml:"max_drawdown_abs"`
	MaxDrawdownPct float64      `json:"maxDrawdownPct" yaml:"max_drawdown_pct"`
	AvgWin         float64      `json:"avgWin" yaml:"avg_win"`
	AvgLoss        float64      `json:"avgLoss" yaml:"avg_loss"`
	InitialBalance float64      `json:"initialBalance" yaml:"initial_balance"`
	EndingBalance  float64      `json:"endingBalance" yaml:"ending_balance"`
}

// ComputeStats summarizes an ordered sample in one pass.
func ComputeStats(sample []journal.Trade, opts Options) Stats {
	initial := finiteOr0(opts.InitialBalance)
	s := Stats{TradeCount: len(sample), InitialBalance: initial}

	var curve, peak, peakEquity, worstEquityPct float64
	peakEquity = initial
	for _, t := range sample {
		p := pnl(t)
		s.TotalPnl += p
		switch {
		case p > 0:
			s.WinCount++
			s.GrossWin += p
		case p < 0:
			s.LossCount++
			s.GrossLossAbs -= p
		default:
			s.BreakevenCount++
		}

		curve += p
		peak = math.Max(peak, curve)
		s.MaxDrawdownAbs = math.Max(s.MaxDrawdownAbs, peak-curve)

		equity := initial + curve
		peakEquity = math.Max(peakEquity, equity)
		if peakEquity > 0 {
			worstEquityPct = math.Max(worstEquityPct, (peakEquity-equity)/peakEquity*100)
		}
	}

	if s.TradeCount > 0 {
		s.WinRate = float64(s.WinCount) / float64(s.TradeCount)
		s.Expectancy = s.TotalPnl / float64(s.TradeCount)
	}
	switch {
	case s.GrossLossAbs > 0:
		s.ProfitFactor = ProfitFactor(s.GrossWin / s.GrossLossAbs)
	case s.GrossWin > 0:
		s.ProfitFactor = ProfitFactor(math.Inf(1))
	}
	if s.WinCount > 0 {
		s.AvgWin = s.GrossWin / float64(s.WinCount)
	}
	if s.LossCount > 0 {
		s.AvgLoss = -(s.GrossLossAbs / float64(s.LossCount))
	}

	switch opts.Drawdown {
	case DrawdownOfPeakEquity:
		s.MaxDrawdownPct = worstEquityPct
	default:
		if initial > 0 {
			s.MaxDrawdownPct = s.MaxDrawdownAbs / initial * 100
		}
	}
	s.EndingBalance = initial + s.TotalPnl
	return s
}

// pnl reads a trade's PnL with NaN and infinities coerced to 0.
func pnl(t journal.Trade) float64 {
	return finiteOr0(t.PnL)
}

func finiteOr0(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
