package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

const sqliteBackend = "sqlite"

// SQLite is a Store backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// AddTrade normalizes and validates t, assigns an ID and creation time when
// missing, and inserts it.
func (j *SQLite) AddTrade(ctx context.Context, t Trade) (rec Trade, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "add_trade", start, err) }()

	t = NormalizeTrade(t)
	if err := ValidateTrade(t); err != nil {
		return Trade{}, err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.ID == "" {
		t.ID = id.NewAt(t.CreatedAt)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO trades
		(id, owner_id, symbol, market, side, executed_at, created_at, trade_date, trade_timestamp,
		 entry_price, exit_price, size, pnl, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Symbol, t.Market, string(t.Side),
		nullTime(t.ExecutedAt), t.CreatedAt, nullTime(t.Date), nullTime(t.Timestamp),
		nullFloat(t.EntryPrice), nullFloat(t.ExitPrice), nullFloat(t.Size),
		t.PnL, t.Notes,
	)
	if err != nil {
		return Trade{}, wrap("add trade", err)
	}
	return t, nil
}

func (j *SQLite) DeleteTrade(ctx context.Context, ownerID, tradeID string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "delete_trade", start, err) }()

	res, err := j.db.ExecContext(ctx, `DELETE FROM trades WHERE owner_id = ? AND id = ?`, ownerID, tradeID)
	if err != nil {
		return wrap("delete trade", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("delete trade", err)
	}
	if n == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, ErrNotFound)
	}
	return nil
}

// EnsureAccount returns the owner's account, creating the default one on
// first access.
func (j *SQLite) EnsureAccount(ctx context.Context, ownerID string) (acct Account, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "ensure_account", start, err) }()

	if ownerID == "" {
		return Account{}, &ValidationError{Field: "ownerId", Reason: "is required"}
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO accounts (owner_id, name, initial_balance, created_at)
		VALUES (?, ?, 0, ?)`,
		ownerID, DefaultAccountName, time.Now().UTC(),
	)
	if err != nil {
		return Account{}, wrap("ensure account", err)
	}
	return j.GetAccount(ctx, ownerID)
}

func (j *SQLite) UpdateInitialBalance(ctx context.Context, ownerID string, balance float64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(sqliteBackend, "update_balance", start, err) }()

	if !finite(&balance) {
		return &ValidationError{Field: "initialBalance", Reason: "must be a finite number", Value: balance}
	}
	if _, err := j.EnsureAccount(ctx, ownerID); err != nil {
		return err
	}
	_, err = j.db.ExecContext(ctx, `UPDATE accounts SET initial_balance = ? WHERE owner_id = ?`, balance, ownerID)
	return wrap("update balance", err)
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
