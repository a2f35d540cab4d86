package rediscache

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	failing bool
	closed  bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failing {
		return nil, errors.New("connection refused")
	}
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("connection refused")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("connection refused")
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) Close() error {
	m.closed = true
	return nil
}

func (m *memKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func newCached(t *testing.T) (*Store, *journal.SQLite, *memKV) {
	t.Helper()
	db, err := journal.NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	kv := newMemKV()
	s := New(db, kv, time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	return s, db, kv
}

func TestListTradesReadThrough(t *testing.T) {
	t.Parallel()

	s, db, kv := newCached(t)
	ctx := context.Background()

	_, err := s.AddTrade(ctx, journal.Trade{OwnerID: "alice", Symbol: "ES", Side: journal.Long, PnL: 10})
	require.NoError(t, err)

	first, err := s.ListTrades(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, kv.has(tradesKey("alice")))

	// A write behind the cache's back is invisible until invalidation.
	_, err = db.AddTrade(ctx, journal.Trade{OwnerID: "alice", Symbol: "NQ", Side: journal.Short, PnL: -5})
	require.NoError(t, err)
	cached, err := s.ListTrades(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.Equal(t, first[0].ID, cached[0].ID)
	assert.True(t, first[0].CreatedAt.Equal(cached[0].CreatedAt))

	// Writes through the cache drop the owner's list.
	_, err = s.AddTrade(ctx, journal.Trade{OwnerID: "alice", Symbol: "CL", Side: journal.Long, PnL: 1})
	require.NoError(t, err)
	assert.False(t, kv.has(tradesKey("alice")))

	fresh, err := s.ListTrades(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, fresh, 3)

	require.NoError(t, s.DeleteTrade(ctx, "alice", fresh[0].ID))
	assert.False(t, kv.has(tradesKey("alice")))
}

func TestAccountCaching(t *testing.T) {
	t.Parallel()

	s, _, kv := newCached(t)
	ctx := context.Background()

	_, err := s.GetAccount(ctx, "bob")
	assert.ErrorIs(t, err, journal.ErrNotFound)
	assert.False(t, kv.has(accountKey("bob")))

	acct, err := s.EnsureAccount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, journal.DefaultAccountName, acct.Name)
	assert.True(t, kv.has(accountKey("bob")))

	require.NoError(t, s.UpdateInitialBalance(ctx, "bob", 7500))
	assert.False(t, kv.has(accountKey("bob")))

	acct, err = s.GetAccount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 7500.0, acct.InitialBalance)
}

func TestCacheFailureFallsBack(t *testing.T) {
	t.Parallel()

	s, _, kv := newCached(t)
	ctx := context.Background()
	kv.failing = true

	rec, err := s.AddTrade(ctx, journal.Trade{OwnerID: "carol", Symbol: "ES", Side: journal.Long, PnL: 3})
	require.NoError(t, err)

	list, err := s.ListTrades(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)

	got, err := s.GetTrade(ctx, "carol", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ES", got.Symbol)
}

func TestCorruptEntryIsDropped(t *testing.T) {
	t.Parallel()

	s, _, kv := newCached(t)
	ctx := context.Background()
	kv.data[tradesKey("dave")] = []byte("{not json")

	list, err := s.ListTrades(ctx, "dave")
	require.NoError(t, err)
	assert.Empty(t, list)
	// Replaced by the fresh (empty) result.
	assert.Equal(t, "null", string(kv.data[tradesKey("dave")]))
}

func TestCloseClosesBoth(t *testing.T) {
	t.Parallel()

	db, err := journal.NewSQLite(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	kv := newMemKV()
	require.NoError(t, New(db, kv, time.Minute).Close())
	assert.True(t, kv.closed)
}
