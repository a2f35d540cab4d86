package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/analytics"
)

// Format is an output encoding for a Result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatOrg  Format = "org"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML, FormatOrg:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, yaml or org)", s)
}

// Write renders r in the given format.
func Write(w io.Writer, format Format, r Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatOrg:
		return WriteOrg(w, r, OrgExtras{})
	default:
		PrintSummary(w, r)
		return nil
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// PrintSummary writes the human-readable statistics block.
func PrintSummary(w io.Writer, r Result) {
	s := r.Stats
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Trading Performance")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Owner:         %s\n", r.Owner)
	fmt.Fprintf(w, "Account:       %s\n", r.Account.Name)
	fmt.Fprintf(w, "Generated:     %s\n", r.Generated.Format(time.RFC3339))
	if desc := describeFilter(r.Filter); desc != "" {
		fmt.Fprintf(w, "Filter:        %s\n", desc)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Days:          %s\n", r.Period())
	fmt.Fprintf(w, "Trading Days:  %d\n", len(r.Daily))
	if r.Excluded > 0 {
		fmt.Fprintf(w, "Untimed:       %d (excluded)\n", r.Excluded)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.TradeCount)
	fmt.Fprintf(w, "Wins:          %d\n", s.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", s.LossCount)
	fmt.Fprintf(w, "Breakeven:     %d\n", s.BreakevenCount)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "Avg Win:       %.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      %.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Expectancy:    %.2f\n", s.Expectancy)
	fmt.Fprintf(w, "Profit Factor: %s\n", s.ProfitFactor)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", s.InitialBalance)
	fmt.Fprintf(w, "End Balance:   %.2f\n", s.EndingBalance)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.TotalPnl)
	fmt.Fprintf(w, "Max Drawdown:  %.2f\n", s.MaxDrawdownAbs)
	if s.MaxDrawdownPct > 0 {
		fmt.Fprintf(w, "Max DD %%:      %.2f%% (%s)\n", s.MaxDrawdownPct, r.Drawdown)
	}

	if len(r.Rolling) > 0 {
		last := r.Rolling[len(r.Rolling)-1]
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Rolling(%d)\n", r.Window)
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Mean:          %.2f\n", last.Mean)
		fmt.Fprintf(w, "Band:          %.2f .. %.2f\n", last.Lower, last.Upper)
	}

	if len(r.Weekdays) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "By Weekday")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, d := range r.Weekdays {
			fmt.Fprintf(w, "%-14s %8.2f avg  %3d trades\n", d.Name+":", d.AvgPnl, d.Count)
		}
	}

	fmt.Fprintln(w)
}

func describeFilter(f analytics.Filter) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("from", f.From)
	add("to", f.To)
	add("symbol", f.Symbol)
	add("market", f.Market)
	add("side", f.Side)
	if f.Symbol != "" && f.SymbolMatch == analytics.MatchContains {
		parts = append(parts, "match=contains")
	}
	return strings.Join(parts, " ")
}
