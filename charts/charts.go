// Package charts renders analytics series as PNG images.
package charts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"github.com/rustyeddy/tradejournal/analytics"
)

// ErrNoData is returned when a series has too few points to draw.
var ErrNoData = errors.New("not enough data points")

// Kind names a chart.
type Kind string

const (
	Equity      Kind = "equity"
	Daily       Kind = "daily"
	DailyEquity Kind = "daily-equity"
	Rolling     Kind = "rolling"
)

var Kinds = []Kind{Equity, Daily, DailyEquity, Rolling}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart %q (want equity, daily, daily-equity or rolling)", s)
}

const (
	width  = 1000
	height = 500
)

// Render draws one chart of r.
func Render(kind Kind, r analytics.Report) ([]byte, error) {
	switch kind {
	case Equity:
		return EquityPNG(r.Equity)
	case Daily:
		return DailyPNG(r.Daily)
	case DailyEquity:
		return DailyEquityPNG(r.DailyEquity)
	case Rolling:
		return RollingPNG(r.Rolling, r.Window)
	}
	return nil, fmt.Errorf("unknown chart %q", kind)
}

// EquityPNG draws the cumulative PnL by trade number, starting from 0.
func EquityPNG(points []analytics.EquityPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	x := make([]string, 0, len(points)+1)
	y := make([]float64, 0, len(points)+1)
	x = append(x, "0")
	y = append(y, 0)
	for _, p := range points {
		x = append(x, strconv.Itoa(p.Index))
		y = append(y, p.CumulativePnl)
	}
	last := points[len(points)-1].CumulativePnl
	return line("Equity Curve", fmt.Sprintf("%d trades | net %.2f", len(points), last), x, [][]float64{y}, nil)
}

// DailyEquityPNG draws the day-by-day balance curve.
func DailyEquityPNG(points []analytics.DailyEquityPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNoData
	}
	x := make([]string, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.Label
		y[i] = p.Balance
	}
	return line("Daily Equity", fmt.Sprintf("%d trading days", len(points)-1), x, [][]float64{y}, nil)
}

// RollingPNG draws the rolling mean with its two-standard-error band.
func RollingPNG(points []analytics.RollingPoint, window int) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNoData
	}
	x := make([]string, len(points))
	mean := make([]float64, len(points))
	upper := make([]float64, len(points))
	lower := make([]float64, len(points))
	for i, p := range points {
		x[i] = strconv.Itoa(p.Index)
		mean[i] = p.Mean
		upper[i] = p.Upper
		lower[i] = p.Lower
	}
	name := analytics.NewRollingWindow(window).Name()
	return line(name+" Expectancy", "mean ± 2 SE", x,
		[][]float64{mean, upper, lower},
		[]string{"Mean", "Upper", "Lower"})
}

// DailyPNG draws one bar per trading day.
func DailyPNG(daily []analytics.DailyAggregate) ([]byte, error) {
	if len(daily) == 0 {
		return nil, ErrNoData
	}
	x := make([]string, len(daily))
	y := make([]float64, len(daily))
	for i, d := range daily {
		x[i] = d.DayKey
		y[i] = d.NetPnl
	}
	yMin, yMax := yRange(y)
	p, err := charts.BarRender([][]float64{y},
		charts.TitleTextOptionFunc("Daily P/L", fmt.Sprintf("%d trading days", len(daily))),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, SplitNumber: split(len(x))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return p.Bytes()
}

func line(title, subtitle string, x []string, series [][]float64, names []string) ([]byte, error) {
	yMin, yMax := yRange(series...)
	opts := []charts.OptionFunc{
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: split(len(x))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(height),
	}
	if len(names) > 0 {
		opts = append(opts, charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}))
	}
	p, err := charts.LineRender(series, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// yRange pads the data range by 5% and always includes zero so gains and
// losses read against the same baseline.
func yRange(series ...[]float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, s := range series {
		for _, v := range s {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func split(n int) int {
	switch {
	case n <= 3:
		return max(n-1, 1)
	case n <= 30:
		return max(n/3, 3)
	default:
		return 10
	}
}
