// Package pgstore is a journal.Store on Postgres, accessed through gorm.
// Owner ids are the UUIDs issued by the identity provider; every query is
// scoped by owner_id.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/journal"
)

const backend = "postgres"

type tradeRow struct {
	ID         string     `gorm:"primaryKey;size:64"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_trades_owner,priority:1"`
	Symbol     string     `gorm:"size:32;not null"`
	Market     string     `gorm:"size:16;not null;default:''"`
	Side       string     `gorm:"size:5;not null"`
	ExecutedAt *time.Time `gorm:"index:idx_trades_owner,priority:2"`
	CreatedAt  time.Time  `gorm:"not null"`
	TradeDate  *time.Time
	Timestamp  *time.Time
	EntryPrice *float64
	ExitPrice  *float64
	Size       *float64
	PnL        float64 `gorm:"column:pnl;not null"`
	Notes      string  `gorm:"type:text;not null;default:''"`
}

func (tradeRow) TableName() string { return "trades" }

type accountRow struct {
	OwnerID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"size:64;not null"`
	InitialBalance float64   `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (accountRow) TableName() string { return "accounts" }

// Store implements journal.Store.
type Store struct {
	db *gorm.DB
}

var _ journal.Store = (*Store)(nil)

// Open connects through lib/pq and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:        dsn,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// New wraps an open gorm handle and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&tradeRow{}, &accountRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) AddTrade(ctx context.Context, t journal.Trade) (rec journal.Trade, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "add_trade", start, err) }()

	t = journal.NormalizeTrade(t)
	if err := journal.ValidateTrade(t); err != nil {
		return journal.Trade{}, err
	}
	owner, err := parseOwner(t.OwnerID)
	if err != nil {
		return journal.Trade{}, err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	row := toRow(t, owner)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return journal.Trade{}, storeErr("add trade", err)
	}
	return t, nil
}

func (s *Store) ListTrades(ctx context.Context, ownerID string) (out []journal.Trade, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "list_trades", start, err) }()

	owner, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	var rows []tradeRow
	err = s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("list trades", err)
	}
	out = make([]journal.Trade, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out, nil
}

func (s *Store) GetTrade(ctx context.Context, ownerID, id string) (rec journal.Trade, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "get_trade", start, err) }()

	owner, err := parseOwner(ownerID)
	if err != nil {
		return journal.Trade{}, err
	}
	var row tradeRow
	err = s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", owner, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return journal.Trade{}, fmt.Errorf("trade %q: %w", id, journal.ErrNotFound)
	}
	if err != nil {
		return journal.Trade{}, storeErr("get trade", err)
	}
	return fromRow(row), nil
}

func (s *Store) DeleteTrade(ctx context.Context, ownerID, id string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "delete_trade", start, err) }()

	owner, err := parseOwner(ownerID)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", owner, id).Delete(&tradeRow{})
	if res.Error != nil {
		return storeErr("delete trade", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("trade %q: %w", id, journal.ErrNotFound)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, ownerID string) (acct journal.Account, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "get_account", start, err) }()

	owner, err := parseOwner(ownerID)
	if err != nil {
		return journal.Account{}, err
	}
	var row accountRow
	err = s.db.WithContext(ctx).Where("owner_id = ?", owner).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return journal.Account{}, fmt.Errorf("account %q: %w", ownerID, journal.ErrNotFound)
	}
	if err != nil {
		return journal.Account{}, storeErr("get account", err)
	}
	return journal.Account{
		OwnerID:        row.OwnerID.String(),
		Name:           row.Name,
		InitialBalance: row.InitialBalance,
		CreatedAt:      row.CreatedAt.UTC(),
	}, nil
}

// EnsureAccount inserts the default account unless one exists, then reads
// it back. Concurrent first requests race on the primary key harmlessly.
func (s *Store) EnsureAccount(ctx context.Context, ownerID string) (acct journal.Account, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "ensure_account", start, err) }()

	owner, err := parseOwner(ownerID)
	if err != nil {
		return journal.Account{}, err
	}
	row := accountRow{
		OwnerID:   owner,
		Name:      journal.DefaultAccountName,
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return journal.Account{}, storeErr("ensure account", err)
	}
	return s.GetAccount(ctx, ownerID)
}

func (s *Store) UpdateInitialBalance(ctx context.Context, ownerID string, balance float64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore(backend, "update_balance", start, err) }()

	if math.IsNaN(balance) || math.IsInf(balance, 0) {
		return &journal.ValidationError{Field: "initialBalance", Reason: "must be a finite number", Value: balance}
	}
	owner, err := parseOwner(ownerID)
	if err != nil {
		return err
	}
	if _, err := s.EnsureAccount(ctx, ownerID); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Model(&accountRow{}).
		Where("owner_id = ?", owner).
		Update("initial_balance", balance).Error
	if err != nil {
		return storeErr("update balance", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseOwner(ownerID string) (uuid.UUID, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return uuid.Nil, &journal.ValidationError{Field: "ownerId", Reason: "must be a UUID", Value: ownerID}
	}
	return id, nil
}

func storeErr(op string, err error) error {
	return &journal.StoreError{Op: op, Err: err}
}

func toRow(t journal.Trade, owner uuid.UUID) tradeRow {
	return tradeRow{
		ID:         t.ID,
		OwnerID:    owner,
		Symbol:     t.Symbol,
		Market:     t.Market,
		Side:       string(t.Side),
		ExecutedAt: timePtr(t.ExecutedAt),
		CreatedAt:  t.CreatedAt,
		TradeDate:  timePtr(t.Date),
		Timestamp:  timePtr(t.Timestamp),
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Size:       t.Size,
		PnL:        t.PnL,
		Notes:      t.Notes,
	}
}

func fromRow(r tradeRow) journal.Trade {
	return journal.Trade{
		ID:         r.ID,
		OwnerID:    r.OwnerID.String(),
		Symbol:     r.Symbol,
		Market:     r.Market,
		Side:       journal.Side(r.Side),
		ExecutedAt: deref(r.ExecutedAt),
		CreatedAt:  r.CreatedAt.UTC(),
		Date:       deref(r.TradeDate),
		Timestamp:  deref(r.Timestamp),
		EntryPrice: r.EntryPrice,
		ExitPrice:  r.ExitPrice,
		Size:       r.Size,
		PnL:        r.PnL,
		Notes:      r.Notes,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
