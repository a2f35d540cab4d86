package journal

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func fp(v float64) *float64 { return &v }

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','accounts')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["accounts"])
}

func TestSQLiteAddTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	exec := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec, err := j.AddTrade(ctx, Trade{
		OwnerID:    "alice",
		Symbol:     " es ",
		Market:     "futures",
		Side:       "long",
		ExecutedAt: exec,
		EntryPrice: fp(4800),
		ExitPrice:  fp(4810.5),
		Size:       fp(2),
		PnL:        1050,
		Notes:      "  opening drive  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, "ES", rec.Symbol)
	assert.Equal(t, "FUTURES", rec.Market)
	assert.Equal(t, Long, rec.Side)
	assert.Equal(t, "opening drive", rec.Notes)

	got, err := j.GetTrade(ctx, "alice", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, exec.Equal(got.ExecutedAt))
	assert.True(t, got.Date.IsZero())
	require.NotNil(t, got.ExitPrice)
	assert.InDelta(t, 4810.5, *got.ExitPrice, 1e-9)
	assert.InDelta(t, 1050.0, got.PnL, 1e-9)
}

func TestSQLiteAddTradeValidation(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		trade Trade
		field string
	}{
		{"missing owner", Trade{Symbol: "ES", Side: Long}, "ownerId"},
		{"missing symbol", Trade{OwnerID: "a", Side: Long}, "symbol"},
		{"bad side", Trade{OwnerID: "a", Symbol: "ES", Side: "FLAT"}, "side"},
		{"nan pnl", Trade{OwnerID: "a", Symbol: "ES", Side: Short, PnL: math.NaN()}, "pnl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.AddTrade(ctx, tt.trade)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSQLiteOwnerIsolation(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	rec, err := j.AddTrade(ctx, Trade{OwnerID: "alice", Symbol: "NQ", Side: Short, PnL: -20})
	require.NoError(t, err)

	_, err = j.GetTrade(ctx, "bob", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = j.DeleteTrade(ctx, "bob", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	bobs, err := j.ListTrades(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bobs)

	require.NoError(t, j.DeleteTrade(ctx, "alice", rec.ID))
	_, err = j.GetTrade(ctx, "alice", rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteAccounts(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	_, err := j.GetAccount(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	acct, err := j.EnsureAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, DefaultAccountName, acct.Name)
	assert.Equal(t, 0.0, acct.InitialBalance)

	require.NoError(t, j.UpdateInitialBalance(ctx, "alice", 10000))

	again, err := j.EnsureAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, again.InitialBalance)

	err = j.UpdateInitialBalance(ctx, "alice", math.Inf(1))
	assert.True(t, IsValidation(err))

	// Setting a balance provisions the account on first use.
	require.NoError(t, j.UpdateInitialBalance(ctx, "bob", 500))
	bob, err := j.GetAccount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 500.0, bob.InitialBalance)
}
