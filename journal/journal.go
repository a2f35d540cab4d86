// journal/journal.go
package journal

import (
	"context"
	"math"
	"strings"
	"time"
)

// Side is the direction of a trade.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// ParseSide accepts "long"/"short" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Long:
		return Long, nil
	case Short:
		return Short, nil
	}
	return "", &ValidationError{Field: "side", Reason: "must be LONG or SHORT", Value: s}
}

// DefaultAccountName is the name given to lazily provisioned accounts.
const DefaultAccountName = "Main"

// Trade is a single journal entry. PnL is always the source of truth for
// analytics; the price and size fields are informational.
//
// ExecutedAt, CreatedAt, Date and Timestamp are the candidate times of a
// record, in priority order. Date and Timestamp only exist on imported
// legacy rows.
type Trade struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`

	Symbol string `json:"symbol"`
	Market string `json:"market,omitempty"`
	Side   Side   `json:"side"`

	ExecutedAt time.Time `json:"executedAt,omitzero"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	Date       time.Time `json:"date,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`

	EntryPrice *float64 `json:"entryPrice,omitempty"`
	ExitPrice  *float64 `json:"exitPrice,omitempty"`
	Size       *float64 `json:"size,omitempty"`

	PnL   float64 `json:"pnl"`
	Notes string  `json:"notes,omitempty"`
}

// Account holds the per-owner settings analytics read: the starting balance
// used for drawdown percentages and ending balance.
type Account struct {
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	InitialBalance float64   `json:"initialBalance"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store persists trades and accounts. Every call is scoped to one owner;
// implementations never return another owner's rows.
type Store interface {
	AddTrade(ctx context.Context, t Trade) (Trade, error)
	ListTrades(ctx context.Context, ownerID string) ([]Trade, error)
	GetTrade(ctx context.Context, ownerID, id string) (Trade, error)
	DeleteTrade(ctx context.Context, ownerID, id string) error

	GetAccount(ctx context.Context, ownerID string) (Account, error)
	EnsureAccount(ctx context.Context, ownerID string) (Account, error)
	UpdateInitialBalance(ctx context.Context, ownerID string, balance float64) error

	Close() error
}

// NormalizeTrade applies the entry-time conventions: upper-case symbol,
// market and side, trimmed notes, UTC times.
func NormalizeTrade(t Trade) Trade {
	t.OwnerID = strings.TrimSpace(t.OwnerID)
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))
	t.Market = strings.ToUpper(strings.TrimSpace(t.Market))
	t.Side = Side(strings.ToUpper(strings.TrimSpace(string(t.Side))))
	t.Notes = strings.TrimSpace(t.Notes)
	t.ExecutedAt = utc(t.ExecutedAt)
	t.CreatedAt = utc(t.CreatedAt)
	t.Date = utc(t.Date)
	t.Timestamp = utc(t.Timestamp)
	return t
}

// ValidateTrade checks the fields a store requires before writing.
func ValidateTrade(t Trade) error {
	if t.OwnerID == "" {
		return &ValidationError{Field: "ownerId", Reason: "is required"}
	}
	if t.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "is required"}
	}
	if t.Side != Long && t.Side != Short {
		return &ValidationError{Field: "side", Reason: "must be LONG or SHORT", Value: t.Side}
	}
	if math.IsNaN(t.PnL) || math.IsInf(t.PnL, 0) {
		return &ValidationError{Field: "pnl", Reason: "must be a finite number", Value: t.PnL}
	}
	return nil
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
