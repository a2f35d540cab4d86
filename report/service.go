// Package report loads an owner's journal from a store and runs the
// analytics pipeline over it. Every call recomputes from raw trades.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/journal"
)

// Defaults are applied when a request leaves the matching setting empty.
type Defaults struct {
	Window      int
	Drawdown    analytics.DrawdownConvention
	SymbolMatch analytics.MatchMode
}

// Service is safe for concurrent use if its store is.
type Service struct {
	store    journal.Store
	defaults Defaults
	now      func() time.Time
}

func NewService(store journal.Store, d Defaults) *Service {
	if d.Window <= 0 {
		d.Window = analytics.DefaultWindow
	}
	if d.Drawdown == "" {
		d.Drawdown = analytics.DrawdownOfInitial
	}
	if d.SymbolMatch == "" {
		d.SymbolMatch = analytics.MatchExact
	}
	return &Service{store: store, defaults: d, now: time.Now}
}

func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Result is a full analytics report plus the context it was computed in.
type Result struct {
	Owner     string                       `json:"owner" yaml:"owner"`
	Account   journal.Account              `json:"account" yaml:"account"`
	Filter    analytics.Filter             `json:"filter" yaml:"filter"`
	Drawdown  analytics.DrawdownConvention `json:"drawdownConvention" yaml:"drawdown_convention"`
	Generated time.Time                    `json:"generated" yaml:"generated"`

	analytics.Report `yaml:",inline"`
}

// Period is "first..last" over the sample's day keys.
func (r Result) Period() string {
	if len(r.Equity) == 0 {
		return "(no trades)"
	}
	first, last := r.Equity[0].DayKey, r.Equity[len(r.Equity)-1].DayKey
	if first == last {
		return first
	}
	return first + ".." + last
}

// Dashboard is the unfiltered account overview.
type Dashboard struct {
	Account     journal.Account              `json:"account"`
	Stats       analytics.Stats              `json:"stats"`
	DailyEquity []analytics.DailyEquityPoint `json:"dailyEquity"`
	Excluded    int                          `json:"excluded"`
}

// CalendarView is one month of the calendar with its neighbours.
type CalendarView struct {
	analytics.CalendarMonth
	Prev analytics.MonthRef `json:"prev"`
	Next analytics.MonthRef `json:"next"`

	sample int
}

func (s *Service) filter(f analytics.Filter) analytics.Filter {
	if f.SymbolMatch == "" {
		f.SymbolMatch = s.defaults.SymbolMatch
	}
	return f
}

// load fetches the owner's account (creating it on first use) and trades.
func (s *Service) load(ctx context.Context, owner string) (journal.Account, []journal.Trade, error) {
	acct, err := s.store.EnsureAccount(ctx, owner)
	if err != nil {
		return journal.Account{}, nil, fmt.Errorf("load account: %w", err)
	}
	trades, err := s.store.ListTrades(ctx, owner)
	if err != nil {
		return journal.Account{}, nil, fmt.Errorf("load trades: %w", err)
	}
	return acct, trades, nil
}

// Analytics builds the full report for the filtered sample. window <= 0
// uses the service default.
func (s *Service) Analytics(ctx context.Context, owner string, f analytics.Filter, window int) (res Result, err error) {
	start := time.Now()
	op := logger.StartOperation(ctx, "report.analytics", "owner", owner)
	defer func() {
		if err != nil {
			op.EndWithError(err)
			return
		}
		metrics.ObserveReport("analytics", start, res.Stats.TradeCount)
		op.End("trades", res.Stats.TradeCount, "excluded", res.Excluded)
	}()

	acct, trades, err := s.load(op.Context(), owner)
	if err != nil {
		return Result{}, err
	}
	if window <= 0 {
		window = s.defaults.Window
	}
	f = s.filter(f)
	rep := analytics.BuildReport(trades, f, analytics.Options{
		InitialBalance: acct.InitialBalance,
		Drawdown:       s.defaults.Drawdown,
		Window:         window,
	})
	return Result{
		Owner:     owner,
		Account:   acct,
		Filter:    f,
		Drawdown:  s.defaults.Drawdown,
		Generated: s.now().UTC(),
		Report:    rep,
	}, nil
}

// Dashboard summarizes every trade the owner has against the account
// balance.
func (s *Service) Dashboard(ctx context.Context, owner string) (d Dashboard, err error) {
	start := time.Now()
	op := logger.StartOperation(ctx, "report.dashboard", "owner", owner)
	defer func() {
		if err != nil {
			op.EndWithError(err)
			return
		}
		metrics.ObserveReport("dashboard", start, d.Stats.TradeCount)
		op.End("trades", d.Stats.TradeCount)
	}()

	acct, trades, err := s.load(op.Context(), owner)
	if err != nil {
		return Dashboard{}, err
	}
	sample, excluded := analytics.Prepare(trades, analytics.Filter{})
	return Dashboard{
		Account: acct,
		Stats: analytics.ComputeStats(sample, analytics.Options{
			InitialBalance: acct.InitialBalance,
			Drawdown:       s.defaults.Drawdown,
		}),
		DailyEquity: analytics.DailyEquity(sample),
		Excluded:    excluded,
	}, nil
}

// Calendar lays out ref's month for the filtered sample. A zero ref means
// the current UTC month.
func (s *Service) Calendar(ctx context.Context, owner string, f analytics.Filter, ref analytics.MonthRef) (v CalendarView, err error) {
	start := time.Now()
	op := logger.StartOperation(ctx, "report.calendar", "owner", owner)
	defer func() {
		if err != nil {
			op.EndWithError(err)
			return
		}
		metrics.ObserveReport("calendar", start, v.sample)
		op.End("month", ref.String())
	}()

	if ref.Year == 0 {
		ref = analytics.CurrentMonth(s.now())
	}
	trades, err := s.store.ListTrades(op.Context(), owner)
	if err != nil {
		return CalendarView{}, fmt.Errorf("load trades: %w", err)
	}
	sample, _ := analytics.Prepare(trades, s.filter(f))
	return CalendarView{
		CalendarMonth: analytics.Calendar(analytics.DailyPnl(sample), ref),
		Prev:          ref.Prev(),
		Next:          ref.Next(),
		sample:        len(sample),
	}, nil
}

// Trades returns the owner's trades that pass f, oldest first. Untimed
// records are kept, at the end, when f has no date bounds.
func (s *Service) Trades(ctx context.Context, owner string, f analytics.Filter) ([]journal.Trade, error) {
	trades, err := s.store.ListTrades(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return analytics.Sort(s.filter(f).Apply(trades)), nil
}
