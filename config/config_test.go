package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/analytics"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Journal.Driver)
	assert.Equal(t, analytics.DefaultWindow, cfg.Analytics.Window)
	assert.Equal(t, analytics.DrawdownOfInitial, cfg.Analytics.Drawdown())
	assert.Equal(t, analytics.MatchExact, cfg.Analytics.MatchMode())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Journal.Driver = "csv" },
			wantErr: true,
			errMsg:  "journal.driver must be 'sqlite' or 'postgres'",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Journal.DBPath = "" },
			wantErr: true,
			errMsg:  "journal.db_path required",
		},
		{
			name: "postgres without dbname",
			mutate: func(c *Config) {
				c.Journal.Driver = "postgres"
				c.Journal.Postgres.DBName = ""
			},
			wantErr: true,
			errMsg:  "host and dbname required",
		},
		{
			name:   "postgres valid",
			mutate: func(c *Config) { c.Journal.Driver = "postgres" },
		},
		{
			name: "cache bad ttl",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.TTL = "soon"
			},
			wantErr: true,
			errMsg:  "cache.ttl",
		},
		{
			name: "cache disabled ignores ttl",
			mutate: func(c *Config) {
				c.Cache.TTL = "soon"
			},
		},
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.Analytics.Window = 0 },
			wantErr: true,
			errMsg:  "analytics.window must be positive",
		},
		{
			name:    "bad drawdown convention",
			mutate:  func(c *Config) { c.Analytics.DrawdownPct = "max" },
			wantErr: true,
			errMsg:  "analytics.drawdown_pct",
		},
		{
			name:    "bad symbol match",
			mutate:  func(c *Config) { c.Analytics.SymbolMatch = "fuzzy" },
			wantErr: true,
			errMsg:  "analytics.symbol_match",
		},
		{
			name:    "missing server addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Owner = "alice"
			cfg.Analytics.Window = 50
			cfg.Analytics.DrawdownPct = string(analytics.DrawdownOfPeakEquity)
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("owner: bob\nanalytics:\n  window: 10\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Owner)
	assert.Equal(t, 10, cfg.Analytics.Window)
	assert.Equal(t, "sqlite", cfg.Journal.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadAppliesEnv(t *testing.T) {
	t.Setenv("TJ_OWNER", "carol")
	t.Setenv("TJ_DB_DRIVER", "postgres")
	t.Setenv("TJ_PG_HOST", "db.internal")
	t.Setenv("TJ_PG_PORT", "6543")
	t.Setenv("TJ_CACHE_ENABLED", "true")
	t.Setenv("TJ_REDIS_ADDR", "cache:6379")
	t.Setenv("TJ_WINDOW", "100")
	t.Setenv("TJ_SYMBOL_MATCH", "contains")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.Owner)
	assert.Equal(t, "postgres", cfg.Journal.Driver)
	assert.Equal(t, 6543, cfg.Journal.Postgres.Port)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "cache:6379", cfg.Cache.Addr)
	assert.Equal(t, 100, cfg.Analytics.Window)
	assert.Equal(t, analytics.MatchContains, cfg.Analytics.MatchMode())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Contains(t, cfg.Journal.Postgres.DSN(), "host=db.internal port=6543")
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("TJ_WINDOW", "thirty")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TJ_WINDOW")
}

func TestCacheTTLDuration(t *testing.T) {
	d, err := CacheConfig{}.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	d, err = CacheConfig{TTL: "30s"}.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestPostgresDSN(t *testing.T) {
	p := Default().Journal.Postgres
	assert.Equal(t, "host=localhost port=5432 user=tradejournal dbname=tradejournal sslmode=disable", p.DSN())

	p.Password = "s3cret"
	assert.Contains(t, p.DSN(), "password=s3cret")
}
