package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	exec := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	created := time.Date(2024, 4, 10, 15, 30, 0, 0, time.UTC)

	expected, err := j.AddTrade(ctx, Trade{
		ID:         "T123",
		OwnerID:    "alice",
		Symbol:     "EURUSD",
		Market:     "FOREX",
		Side:       Long,
		ExecutedAt: exec,
		CreatedAt:  created,
		EntryPrice: fp(1.085),
		ExitPrice:  fp(1.0875),
		Size:       fp(150000),
		PnL:        375,
		Notes:      "trend",
	})
	require.NoError(t, err)

	actual, err := j.GetTrade(ctx, "alice", "T123")
	require.NoError(t, err)

	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.OwnerID, actual.OwnerID)
	assert.Equal(t, expected.Symbol, actual.Symbol)
	assert.Equal(t, expected.Market, actual.Market)
	assert.Equal(t, expected.Side, actual.Side)
	assert.True(t, exec.Equal(actual.ExecutedAt))
	assert.True(t, created.Equal(actual.CreatedAt))
	assert.Equal(t, time.UTC, actual.ExecutedAt.Location())
	assert.InDelta(t, 1.085, *actual.EntryPrice, 1e-9)
	assert.InDelta(t, 1.0875, *actual.ExitPrice, 1e-9)
	assert.InDelta(t, 150000.0, *actual.Size, 1e-9)
	assert.Equal(t, expected.PnL, actual.PnL)
	assert.Equal(t, "trend", actual.Notes)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestListTradesInsertionOrder(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, sym := range []string{"ES", "NQ", "CL"} {
		_, err := j.AddTrade(ctx, Trade{
			OwnerID:   "alice",
			Symbol:    sym,
			Side:      Short,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			PnL:       float64(i),
		})
		require.NoError(t, err)
	}

	trades, err := j.ListTrades(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, "ES", trades[0].Symbol)
	assert.Equal(t, "NQ", trades[1].Symbol)
	assert.Equal(t, "CL", trades[2].Symbol)
	assert.Nil(t, trades[0].EntryPrice)
	assert.True(t, trades[0].ExecutedAt.IsZero())
}

func TestListTradesEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	trades, err := j.ListTrades(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, trades)
}
