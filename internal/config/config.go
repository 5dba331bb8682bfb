// Package config handles configuration loading for FilingWatch.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Congress  CongressConfig  `mapstructure:"congress"  yaml:"congress"`
	Edgar     EdgarConfig     `mapstructure:"edgar"     yaml:"edgar"`
	Watchlist WatchlistConfig `mapstructure:"watchlist" yaml:"watchlist"`
	Holdings  HoldingsConfig  `mapstructure:"holdings"  yaml:"holdings"`
	Notify    NotifyConfig    `mapstructure:"notify"    yaml:"notify"`
	Store     StoreConfig     `mapstructure:"store"     yaml:"store"`
	Watch     WatchConfig     `mapstructure:"watch"     yaml:"watch"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// CongressConfig holds the congressional stock-watcher feed settings.
type CongressConfig struct {
	HouseURL  string `mapstructure:"house_url"  yaml:"house_url"`
	SenateURL string `mapstructure:"senate_url" yaml:"senate_url"`
	DaysBack  int    `mapstructure:"days_back"  yaml:"days_back"` // disclosure-date cutoff window
}

// EdgarConfig holds SEC EDGAR access settings.
// The SEC requires a descriptive User-Agent and caps clients at 10 req/s.
type EdgarConfig struct {
	BaseURL       string         `mapstructure:"base_url"        yaml:"base_url"`
	UserAgent     string         `mapstructure:"user_agent"      yaml:"user_agent"`
	RatePerSecond int            `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Form3         FormFeedConfig `mapstructure:"form3"   yaml:"form3"`
	Form4         FormFeedConfig `mapstructure:"form4"   yaml:"form4"`
	Form5         FormFeedConfig `mapstructure:"form5"   yaml:"form5"`
	Form13D       FormFeedConfig `mapstructure:"form13d" yaml:"form13d"`
	Form13G       FormFeedConfig `mapstructure:"form13g" yaml:"form13g"`
	Form13GA      FormFeedConfig `mapstructure:"form13ga" yaml:"form13ga"`
	Form13F       FormFeedConfig `mapstructure:"form13f" yaml:"form13f"`
}

// FormFeedConfig sets the lookback window and page size for one EDGAR
// getcurrent form-type query.
type FormFeedConfig struct {
	DaysBack int `mapstructure:"days_back" yaml:"days_back"`
	Count    int `mapstructure:"count"     yaml:"count"`
}

// WatchlistConfig holds the notable-entity list and filter keywords.
// Entities must be lowercase; matching is substring-based.
type WatchlistConfig struct {
	Entities    []string `mapstructure:"entities"     yaml:"entities"`
	VIPs        []string `mapstructure:"vips"         yaml:"vips"`
	TaxKeywords []string `mapstructure:"tax_keywords" yaml:"tax_keywords"`
}

// HoldingsConfig holds the 13F diff policy constants.
type HoldingsConfig struct {
	MaterialityPct float64 `mapstructure:"materiality_pct" yaml:"materiality_pct"`
	TopN           int     `mapstructure:"top_n"           yaml:"top_n"`
}

// NotifyConfig holds Telegram delivery settings.
type NotifyConfig struct {
	TelegramToken string `mapstructure:"telegram_token"  yaml:"telegram_token"`
	ChatID        string `mapstructure:"chat_id"         yaml:"chat_id"`
	MaxMessageLen int    `mapstructure:"max_message_len" yaml:"max_message_len"`
	ChunkSize     int    `mapstructure:"chunk_size"      yaml:"chunk_size"`
	SendDelayMs   int    `mapstructure:"send_delay_ms"   yaml:"send_delay_ms"`
}

// StoreConfig holds the persisted-state file locations.
type StoreConfig struct {
	SeenFile      string `mapstructure:"seen_file"      yaml:"seen_file"`
	SnapshotsFile string `mapstructure:"snapshots_file" yaml:"snapshots_file"`
}

// WatchConfig holds the periodic polling settings for the watch command.
type WatchConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes" yaml:"interval_minutes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.filingwatch/config.yaml (home directory)
//  3. /etc/filingwatch/config.yaml (system)
//
// Environment variables override config file values.
// Format: FILINGWATCH_<SECTION>_<KEY>, e.g., FILINGWATCH_NOTIFY_TELEGRAM_TOKEN
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".filingwatch"))
	v.AddConfigPath("/etc/filingwatch")

	v.SetEnvPrefix("FILINGWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FILINGWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Congressional feeds
	v.SetDefault("congress.house_url", "https://house-stock-watcher-data.s3-us-west-2.amazonaws.com/data/all_transactions.json")
	v.SetDefault("congress.senate_url", "https://senate-stock-watcher-data.s3-us-west-2.amazonaws.com/aggregate/all_transactions.json")
	v.SetDefault("congress.days_back", 7)

	// EDGAR
	v.SetDefault("edgar.base_url", "https://www.sec.gov/cgi-bin/browse-edgar")
	v.SetDefault("edgar.user_agent", "filingwatch/1.0 (github.com/seenimoa/filingwatch)")
	v.SetDefault("edgar.rate_per_second", 8) // under the SEC's 10 req/s cap
	v.SetDefault("edgar.form3.days_back", 3)
	v.SetDefault("edgar.form3.count", 50)
	v.SetDefault("edgar.form4.days_back", 2)
	v.SetDefault("edgar.form4.count", 100)
	v.SetDefault("edgar.form5.days_back", 3)
	v.SetDefault("edgar.form5.count", 30)
	v.SetDefault("edgar.form13d.days_back", 5)
	v.SetDefault("edgar.form13d.count", 40)
	v.SetDefault("edgar.form13g.days_back", 5)
	v.SetDefault("edgar.form13g.count", 40)
	v.SetDefault("edgar.form13ga.days_back", 5)
	v.SetDefault("edgar.form13ga.count", 60)
	v.SetDefault("edgar.form13f.days_back", 7)
	v.SetDefault("edgar.form13f.count", 200)

	// Watchlist
	v.SetDefault("watchlist.entities", DefaultNotableEntities)
	v.SetDefault("watchlist.vips", DefaultVIPs)
	v.SetDefault("watchlist.tax_keywords", DefaultTaxKeywords)

	// Holdings diff policy
	v.SetDefault("holdings.materiality_pct", 25.0)
	v.SetDefault("holdings.top_n", 8)

	// Notification
	v.SetDefault("notify.max_message_len", 4096)
	v.SetDefault("notify.chunk_size", 4000)
	v.SetDefault("notify.send_delay_ms", 1000)

	// Stores
	v.SetDefault("store.seen_file", "data/seen_filings.json")
	v.SetDefault("store.snapshots_file", "data/holdings_snapshots.json")

	// Watch loop
	v.SetDefault("watch.interval_minutes", 30)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// The bare TELEGRAM_TOKEN / CHAT_ID names are accepted too, for parity with
// the usual bot deployment environment.
func overrideFromEnv(cfg *Config) {
	if tok := os.Getenv("FILINGWATCH_NOTIFY_TELEGRAM_TOKEN"); tok != "" {
		cfg.Notify.TelegramToken = tok
	} else if tok := os.Getenv("TELEGRAM_TOKEN"); tok != "" {
		cfg.Notify.TelegramToken = tok
	}
	if id := os.Getenv("FILINGWATCH_NOTIFY_CHAT_ID"); id != "" {
		cfg.Notify.ChatID = id
	} else if id := os.Getenv("CHAT_ID"); id != "" {
		cfg.Notify.ChatID = id
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
