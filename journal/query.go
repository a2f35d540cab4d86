package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/internal/metrics"
)

const tradeColumns = `id, owner_id, symbol, market, side, executed_at, created_at, trade_date,
	trade_timestamp, entry_price, exit_price, size, pnl, notes`

// GetTrade returns a single trade of the owner by ID.
func (j *SQLite) GetTrade(ctx context.Context, ownerID, tradeID string) (rec Trade, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "get_trade", start, err) }()

	row := j.db.QueryRowContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE owner_id = ? AND id = ?`, ownerID, tradeID)

	rec, err = scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Trade{}, fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
		}
		return Trade{}, wrap("get trade", err)
	}
	return rec, nil
}

// ListTrades returns every trade of the owner. Rows come back in insertion
// order; callers that need chronology sort by canonical time.
func (j *SQLite) ListTrades(ctx context.Context, ownerID string) (out []Trade, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "list_trades", start, err) }()

	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC`, ownerID)
	if err != nil {
		return nil, wrap("list trades", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, wrap("list trades", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list trades", err)
	}
	return out, nil
}

// GetAccount returns the owner's account or ErrNotFound.
func (j *SQLite) GetAccount(ctx context.Context, ownerID string) (acct Account, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "get_account", start, err) }()

	err = j.db.QueryRowContext(ctx, `
		SELECT owner_id, name, initial_balance, created_at
		FROM accounts
		WHERE owner_id = ?`, ownerID).Scan(
		&acct.OwnerID,
		&acct.Name,
		&acct.InitialBalance,
		&acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, fmt.Errorf("account %q: %w", ownerID, ErrNotFound)
		}
		return Account{}, wrap("get account", err)
	}
	acct.CreatedAt = acct.CreatedAt.UTC()
	return acct, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(r rowScanner) (Trade, error) {
	var (
		rec                   Trade
		side                  string
		executed, date, stamp sql.NullTime
		entry, exit, size     sql.NullFloat64
	)
	if err := r.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Symbol,
		&rec.Market,
		&side,
		&executed,
		&rec.CreatedAt,
		&date,
		&stamp,
		&entry,
		&exit,
		&size,
		&rec.PnL,
		&rec.Notes,
	); err != nil {
		return Trade{}, err
	}

	rec.Side = Side(side)
	rec.CreatedAt = rec.CreatedAt.UTC()
	if executed.Valid {
		rec.ExecutedAt = executed.Time.UTC()
	}
	if date.Valid {
		rec.Date = date.Time.UTC()
	}
	if stamp.Valid {
		rec.Timestamp = stamp.Time.UTC()
	}
	rec.EntryPrice = floatPtr(entry)
	rec.ExitPrice = floatPtr(exit)
	rec.Size = floatPtr(size)
	return rec, nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
