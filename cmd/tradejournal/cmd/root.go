package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/journal/pgstore"
	"github.com/rustyeddy/tradejournal/journal/rediscache"
	"github.com/rustyeddy/tradejournal/report"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A trading journal with performance analytics",
	Long: `Tradejournal records discretionary trades and turns them into performance
analytics.

It provides tools for:
  - Logging trades with manually entered P/L
  - Equity curve, drawdown, profit factor and expectancy
  - Rolling expectancy with a two standard error band
  - Daily, weekday, hour-of-day and calendar breakdowns
  - PNG charts, CSV import/export and org-mode reports
  - A JSON HTTP API with Prometheus metrics

Configuration is read from --config (YAML or JSON), then .env and TJ_*
environment variables.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var (
	cfgFile string
	ownerID string

	cfg *config.Config
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "owner id (default from config or TJ_OWNER)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c
	return logger.InitWithConfig(logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Detailed: cfg.Log.Detailed,
		Tracing:  cfg.Log.Tracing,
	})
}

func owner() (string, error) {
	if ownerID != "" {
		return ownerID, nil
	}
	if cfg != nil && cfg.Owner != "" {
		return cfg.Owner, nil
	}
	return "", errors.New("no owner: pass --owner or set owner in the config (TJ_OWNER)")
}

// openStore opens the configured journal backend, behind the Redis cache
// when it is enabled.
func openStore(ctx context.Context) (journal.Store, error) {
	var (
		store journal.Store
		err   error
	)
	switch cfg.Journal.Driver {
	case "postgres":
		store, err = pgstore.Open(cfg.Journal.Postgres.DSN())
	default:
		store, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if !cfg.Cache.Enabled {
		return store, nil
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cache ttl: %w", err)
	}
	kv, err := rediscache.NewRedisKV(ctx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	if err != nil {
		// The cache is optional; run without it.
		logger.Warn(ctx, "cache unavailable", "addr", cfg.Cache.Addr, "error", err)
		return store, nil
	}
	return rediscache.New(store, kv, ttl), nil
}

func newService(store journal.Store) *report.Service {
	return report.NewService(store, report.Defaults{
		Window:      cfg.Analytics.Window,
		Drawdown:    cfg.Analytics.Drawdown(),
		SymbolMatch: cfg.Analytics.MatchMode(),
	})
}
