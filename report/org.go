package report

import (
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
)

// OrgExtras are the hand-written parts of an org report.
type OrgExtras struct {
	EquityPNG   string
	Notes       []string
	NextActions []string
}

type orgData struct {
	Result
	OrgExtras
	FilterDesc string
}

var orgFuncs = template.FuncMap{
	"mul100":        func(x float64) float64 { return x * 100.0 },
	"money":         func(x float64) string { return fmt.Sprintf("%.2f", x) },
	"drawdownLabel": DrawdownLabel,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTmpl = template.Must(template.New("journal").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an org-mode entry.
func WriteOrg(w io.Writer, r Result, extras OrgExtras) error {
	return orgTmpl.Execute(w, orgData{Result: r, OrgExtras: extras, FilterDesc: describeFilter(r.Filter)})
}

// WriteOrgFile writes the org entry to path.
func WriteOrgFile(path string, r Result, extras OrgExtras) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOrg(f, r, extras); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DrawdownLabel names the denominator used for the drawdown percentage.
func DrawdownLabel(c analytics.DrawdownConvention) string {
	if c == analytics.DrawdownOfPeakEquity {
		return "of peak equity"
	}
	return "of initial balance"
}

const OrgTemplate = `
* JOURNAL: {{.Account.Name}} {{.Period}}
:PROPERTIES:
:OWNER:       {{.Owner}}
:ACCOUNT:     {{.Account.Name}}
:FILTER:      {{if .FilterDesc}}{{.FilterDesc}}{{else}}(none){{end}}
:START_BAL:   {{money .Stats.InitialBalance}}
:END_BAL:     {{money .Stats.EndingBalance}}
:NET_PL:      {{money .Stats.TotalPnl}}
:MAX_DD:      {{money .Stats.MaxDrawdownAbs}}
:MAX_DD_PCT:  {{money .Stats.MaxDrawdownPct}}
:TRADES:      {{.Stats.TradeCount}}
:WINS:        {{.Stats.WinCount}}
:LOSSES:      {{.Stats.LossCount}}
:WIN_RATE:    {{money (mul100 .Stats.WinRate)}}
:PROFIT_FAC:  {{.Stats.ProfitFactor}}
:EXPECTANCY:  {{money .Stats.Expectancy}}
:EXCLUDED:    {{.Excluded}}
:CREATED:     [{{(orTime .Generated).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Stats.TotalPnl}}*
- Max Drawdown:     *{{money .Stats.MaxDrawdownAbs}}* ({{money .Stats.MaxDrawdownPct}}% {{drawdownLabel .Drawdown}})
- Win Rate:         *{{money (mul100 .Stats.WinRate)}}%*
- Profit Factor:    *{{.Stats.ProfitFactor}}*
- Avg Win / Loss:   *{{money .Stats.AvgWin}}* / *{{money .Stats.AvgLoss}}*

** Equity Curve
{{- if .EquityPNG }}
[[file:{{.EquityPNG}}]]
{{- else }}
# (optional) insert an exported equity curve image here
{{- end }}

** Trade Distribution
| Outcome   | Count |
|-----------+-------|
| Wins      | {{.Stats.WinCount}} |
| Losses    | {{.Stats.LossCount}} |
| Breakeven | {{.Stats.BreakevenCount}} |
| Total     | {{.Stats.TradeCount}} |
{{- if .Daily }}

** Daily P/L
| Day        | Net P/L | Trades |
|------------+---------+--------|
{{- range .Daily }}
| {{.DayKey}} | {{money .NetPnl}} | {{.TradeCount}} |
{{- end }}
{{- end }}
{{- if .Weekdays }}

** Weekdays
| Weekday | Avg P/L | Trades |
|---------+---------+--------|
{{- range .Weekdays }}
| {{.Name}} | {{money .AvgPnl}} | {{.Count}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}

{{- if .NextActions }}

** Notes / Next Actions
{{- range .NextActions }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
