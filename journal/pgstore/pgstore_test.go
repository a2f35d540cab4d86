package pgstore

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

func TestRowConversion(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	exec := time.Date(2024, 5, 6, 13, 30, 0, 0, time.UTC)
	entry := 101.5
	in := journal.Trade{
		ID:         "T1",
		OwnerID:    owner.String(),
		Symbol:     "AAPL",
		Market:     "STOCK",
		Side:       journal.Short,
		ExecutedAt: exec,
		CreatedAt:  exec.Add(time.Minute),
		EntryPrice: &entry,
		PnL:        -42.5,
		Notes:      "faded the open",
	}

	row := toRow(in, owner)
	require.NotNil(t, row.ExecutedAt)
	assert.Nil(t, row.TradeDate)
	assert.Nil(t, row.Timestamp)
	assert.Equal(t, "SHORT", row.Side)

	assert.Equal(t, in, fromRow(row))
}

func TestParseOwner(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, err := parseOwner(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseOwner("alice")
	assert.True(t, journal.IsValidation(err))
}

func TestValidationBeforeQuery(t *testing.T) {
	t.Parallel()

	// A nil handle proves validation rejects these before any query runs.
	s := &Store{}
	ctx := context.Background()

	_, err := s.AddTrade(ctx, journal.Trade{OwnerID: "not-a-uuid", Symbol: "ES", Side: journal.Long})
	assert.True(t, journal.IsValidation(err))

	_, err = s.AddTrade(ctx, journal.Trade{OwnerID: uuid.NewString(), Side: journal.Long})
	assert.True(t, journal.IsValidation(err))

	_, err = s.ListTrades(ctx, "bob")
	assert.True(t, journal.IsValidation(err))

	err = s.UpdateInitialBalance(ctx, uuid.NewString(), math.NaN())
	assert.True(t, journal.IsValidation(err))
}

// TestPostgresStore runs against a real database when TJ_TEST_PG_DSN is set,
// e.g. "host=localhost user=postgres dbname=tradejournal_test sslmode=disable".
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TJ_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TJ_TEST_PG_DSN not set")
	}

	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	alice := uuid.NewString()
	bob := uuid.NewString()

	acct, err := s.EnsureAccount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, journal.DefaultAccountName, acct.Name)

	again, err := s.EnsureAccount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, acct.CreatedAt.Unix(), again.CreatedAt.Unix())

	require.NoError(t, s.UpdateInitialBalance(ctx, alice, 25000))
	acct, err = s.GetAccount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, acct.InitialBalance)

	rec, err := s.AddTrade(ctx, journal.Trade{OwnerID: alice, Symbol: "mes", Side: "long", PnL: 12.5})
	require.NoError(t, err)
	assert.Equal(t, "MES", rec.Symbol)

	got, err := s.GetTrade(ctx, alice, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.PnL)

	_, err = s.GetTrade(ctx, bob, rec.ID)
	assert.ErrorIs(t, err, journal.ErrNotFound)

	list, err := s.ListTrades(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteTrade(ctx, alice, rec.ID))
	assert.ErrorIs(t, s.DeleteTrade(ctx, alice, rec.ID), journal.ErrNotFound)
}
