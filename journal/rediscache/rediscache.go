// Package rediscache puts a read-through Redis cache in front of any
// journal.Store. Trade lists and accounts are cached per owner and dropped
// on every write for that owner. A failing cache never fails a request: the
// error is logged and the wrapped store answers.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/journal"
)

// ErrMiss is returned by KV.Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// KV is the subset of Redis the cache needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// RedisKV adapts a go-redis client to KV.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects and pings the server.
func NewRedisKV(ctx context.Context, addr, password string, db int) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisKV{client: client}, nil
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisKV) Close() error {
	return r.client.Close()
}

// Store decorates a journal.Store with the cache.
type Store struct {
	next journal.Store
	kv   KV
	ttl  time.Duration
}

var _ journal.Store = (*Store)(nil)

// New wraps next. Closing the returned Store closes both next and kv.
func New(next journal.Store, kv KV, ttl time.Duration) *Store {
	return &Store{next: next, kv: kv, ttl: ttl}
}

func tradesKey(owner string) string  { return "tj:trades:" + owner }
func accountKey(owner string) string { return "tj:account:" + owner }

func (s *Store) AddTrade(ctx context.Context, t journal.Trade) (journal.Trade, error) {
	rec, err := s.next.AddTrade(ctx, t)
	if err == nil {
		s.invalidate(ctx, tradesKey(rec.OwnerID))
	}
	return rec, err
}

func (s *Store) ListTrades(ctx context.Context, ownerID string) ([]journal.Trade, error) {
	var out []journal.Trade
	if s.lookup(ctx, "trades", tradesKey(ownerID), &out) {
		return out, nil
	}
	out, err := s.next.ListTrades(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, tradesKey(ownerID), out)
	return out, nil
}

func (s *Store) GetTrade(ctx context.Context, ownerID, id string) (journal.Trade, error) {
	return s.next.GetTrade(ctx, ownerID, id)
}

func (s *Store) DeleteTrade(ctx context.Context, ownerID, id string) error {
	err := s.next.DeleteTrade(ctx, ownerID, id)
	if err == nil {
		s.invalidate(ctx, tradesKey(ownerID))
	}
	return err
}

func (s *Store) GetAccount(ctx context.Context, ownerID string) (journal.Account, error) {
	var acct journal.Account
	if s.lookup(ctx, "account", accountKey(ownerID), &acct) {
		return acct, nil
	}
	acct, err := s.next.GetAccount(ctx, ownerID)
	if err != nil {
		return journal.Account{}, err
	}
	s.store(ctx, accountKey(ownerID), acct)
	return acct, nil
}

func (s *Store) EnsureAccount(ctx context.Context, ownerID string) (journal.Account, error) {
	var acct journal.Account
	if s.lookup(ctx, "account", accountKey(ownerID), &acct) {
		return acct, nil
	}
	acct, err := s.next.EnsureAccount(ctx, ownerID)
	if err != nil {
		return journal.Account{}, err
	}
	s.store(ctx, accountKey(ownerID), acct)
	return acct, nil
}

func (s *Store) UpdateInitialBalance(ctx context.Context, ownerID string, balance float64) error {
	err := s.next.UpdateInitialBalance(ctx, ownerID, balance)
	if err == nil {
		s.invalidate(ctx, accountKey(ownerID))
	}
	return err
}

func (s *Store) Close() error {
	return errors.Join(s.next.Close(), s.kv.Close())
}

// lookup decodes a cached value into dst and reports whether it hit.
func (s *Store) lookup(ctx context.Context, kind, key string, dst any) bool {
	b, err := s.kv.Get(ctx, key)
	switch {
	case errors.Is(err, ErrMiss):
		metrics.CacheRequestsTotal.WithLabelValues(kind, "miss").Inc()
		return false
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues(kind, "error").Inc()
		logger.Warn(ctx, "cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues(kind, "error").Inc()
		logger.Warn(ctx, "cache entry undecodable", "key", key, "error", err)
		s.invalidate(ctx, key)
		return false
	}
	metrics.CacheRequestsTotal.WithLabelValues(kind, "hit").Inc()
	return true
}

func (s *Store) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Warn(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, b, s.ttl); err != nil {
		logger.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if err := s.kv.Del(ctx, keys...); err != nil {
		logger.Warn(ctx, "cache invalidate failed", "keys", keys, "error", err)
	}
}
