package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradejournal/analytics"
)

// Config is the complete tradejournal configuration.
type Config struct {
	// Owner is the default owner id for CLI commands.
	Owner     string          `json:"owner,omitempty" yaml:"owner,omitempty"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Analytics AnalyticsConfig `json:"analytics" yaml:"analytics"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// JournalConfig selects the trade store.
type JournalConfig struct {
	Driver   string         `json:"driver" yaml:"driver"` // "sqlite" or "postgres"
	DBPath   string         `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Postgres PostgresConfig `json:"postgres" yaml:"postgres"`
}

type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DBName   string `json:"dbname" yaml:"dbname"`
	SSLMode  string `json:"sslmode" yaml:"sslmode"`
}

// DSN renders the keyword/value connection string lib/pq and pgx accept.
func (p PostgresConfig) DSN() string {
	parts := []string{
		"host=" + p.Host,
		"port=" + strconv.Itoa(p.Port),
		"user=" + p.User,
		"dbname=" + p.DBName,
		"sslmode=" + p.SSLMode,
	}
	if p.Password != "" {
		parts = append(parts, "password="+p.Password)
	}
	return strings.Join(parts, " ")
}

// CacheConfig enables the Redis read-through cache in front of the store.
type CacheConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db" yaml:"db"`
	TTL      string `json:"ttl" yaml:"ttl"` // e.g. "5m"
}

// TTLDuration parses TTL; an empty value means 5 minutes.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 5 * time.Minute, nil
	}
	return time.ParseDuration(c.TTL)
}

// AnalyticsConfig holds report defaults.
type AnalyticsConfig struct {
	Window      int    `json:"window" yaml:"window"`
	DrawdownPct string `json:"drawdown_pct" yaml:"drawdown_pct"` // initial_balance or peak_equity
	SymbolMatch string `json:"symbol_match" yaml:"symbol_match"` // exact or contains
}

func (a AnalyticsConfig) Drawdown() analytics.DrawdownConvention {
	c, err := analytics.ParseDrawdownConvention(a.DrawdownPct)
	if err != nil {
		return analytics.DrawdownOfInitial
	}
	return c
}

func (a AnalyticsConfig) MatchMode() analytics.MatchMode {
	m, err := analytics.ParseMatchMode(a.SymbolMatch)
	if err != nil {
		return analytics.MatchExact
	}
	return m
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level    string `json:"level" yaml:"level"`
	Format   string `json:"format" yaml:"format"` // json or console
	Detailed bool   `json:"detailed" yaml:"detailed"`
	Tracing  bool   `json:"tracing" yaml:"tracing"`
}

// Load builds the effective configuration: variables from an optional .env
// file, then the config file at path (or Default when path is empty), then
// environment overrides, then validation.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = parseFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads and validates a configuration file. Fields the file
// leaves out keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from TJ_* and LOG_* environment variables.
func (c *Config) ApplyEnv() error {
	envString("TJ_OWNER", &c.Owner)
	envString("TJ_DB_DRIVER", &c.Journal.Driver)
	envString("TJ_DB_PATH", &c.Journal.DBPath)
	envString("TJ_PG_HOST", &c.Journal.Postgres.Host)
	envString("TJ_PG_USER", &c.Journal.Postgres.User)
	envString("TJ_PG_PASSWORD", &c.Journal.Postgres.Password)
	envString("TJ_PG_DBNAME", &c.Journal.Postgres.DBName)
	envString("TJ_PG_SSLMODE", &c.Journal.Postgres.SSLMode)
	envString("TJ_REDIS_ADDR", &c.Cache.Addr)
	envString("TJ_REDIS_PASSWORD", &c.Cache.Password)
	envString("TJ_CACHE_TTL", &c.Cache.TTL)
	envString("TJ_DRAWDOWN_PCT", &c.Analytics.DrawdownPct)
	envString("TJ_SYMBOL_MATCH", &c.Analytics.SymbolMatch)
	envString("TJ_SERVER_ADDR", &c.Server.Addr)
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	for _, e := range []struct {
		key string
		dst *int
	}{
		{"TJ_PG_PORT", &c.Journal.Postgres.Port},
		{"TJ_REDIS_DB", &c.Cache.DB},
		{"TJ_WINDOW", &c.Analytics.Window},
	} {
		if err := envInt(e.key, e.dst); err != nil {
			return err
		}
	}

	for _, e := range []struct {
		key string
		dst *bool
	}{
		{"TJ_CACHE_ENABLED", &c.Cache.Enabled},
		{"LOG_DETAILED", &c.Log.Detailed},
		{"LOG_TRACING_ENABLED", &c.Log.Tracing},
	} {
		if err := envBool(e.key, e.dst); err != nil {
			return err
		}
	}
	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Journal.Driver {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite driver")
		}
	case "postgres":
		if c.Journal.Postgres.Host == "" || c.Journal.Postgres.DBName == "" {
			return fmt.Errorf("journal.postgres host and dbname required for postgres driver")
		}
		if c.Journal.Postgres.Port <= 0 {
			return fmt.Errorf("journal.postgres.port must be positive")
		}
	default:
		return fmt.Errorf("journal.driver must be 'sqlite' or 'postgres'")
	}

	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			return fmt.Errorf("cache.addr is required when the cache is enabled")
		}
		ttl, err := c.Cache.TTLDuration()
		if err != nil {
			return fmt.Errorf("cache.ttl: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache.ttl must be positive")
		}
	}

	if c.Analytics.Window <= 0 {
		return fmt.Errorf("analytics.window must be positive")
	}
	if _, err := analytics.ParseDrawdownConvention(c.Analytics.DrawdownPct); err != nil {
		return fmt.Errorf("analytics.drawdown_pct: %w", err)
	}
	if _, err := analytics.ParseMatchMode(c.Analytics.SymbolMatch); err != nil {
		return fmt.Errorf("analytics.symbol_match: %w", err)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console", "text":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Driver: "sqlite",
			DBPath: "./tradejournal.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				User:    "tradejournal",
				DBName:  "tradejournal",
				SSLMode: "disable",
			},
		},
		Cache: CacheConfig{
			Addr: "localhost:6379",
			TTL:  "5m",
		},
		Analytics: AnalyticsConfig{
			Window:      analytics.DefaultWindow,
			DrawdownPct: string(analytics.DrawdownOfInitial),
			SymbolMatch: string(analytics.MatchExact),
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
