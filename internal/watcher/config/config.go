package config

import (
	"time"

	"golang-stock-watcher/pkg/config"
)

// Watchlist holds the locations of the persisted files.
type Watchlist struct {
	Path       string `mapstructure:"path"`
	LookupPath string `mapstructure:"lookup_path"`
}

// Monitor holds check pass scheduling configuration.
type Monitor struct {
	Cron            string        `mapstructure:"cron"`
	EventBuffer     int           `mapstructure:"event_buffer"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	HistoryRange        string        `mapstructure:"history_range"`
	InfoCacheTTL        time.Duration `mapstructure:"info_cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the stock watcher.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	Redis        config.Redis  `mapstructure:"redis"`
	API          config.API    `mapstructure:"api"`
	Watchlist    Watchlist     `mapstructure:"watchlist"`
	Monitor      Monitor       `mapstructure:"monitor"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Telegram     Telegram      `mapstructure:"telegram"`
}

// Defaults returns the value of every configuration key when neither the file
// nor the environment sets it.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":    "stock-watcher",
		"app.env":     "development",
		"app.version": "0.1.0",

		"logger.level":    "warn",
		"logger.encoding": "console",

		"redis.enabled":        false,
		"redis.host":           "localhost",
		"redis.port":           6379,
		"redis.password":       "",
		"redis.db":             0,
		"redis.pool_size":      5,
		"redis.last_price_ttl": "24h",

		"api.host": "",
		"api.port": 8080,

		"watchlist.path":        "stocks.json",
		"watchlist.lookup_path": "tw_stock_list.json",

		"monitor.cron":             "@every 5m",
		"monitor.event_buffer":     256,
		"monitor.shutdown_timeout": "30s",

		"yahoo_finance.base_url":               "https://query1.finance.yahoo.com",
		"yahoo_finance.max_request_per_minute": 60,
		"yahoo_finance.timeout":                "10s",
		"yahoo_finance.history_range":          "1d",
		"yahoo_finance.info_cache_ttl":         "30s",

		"telegram.enabled":   false,
		"telegram.bot_token": "",
		"telegram.chat_id":   0,
	}
}

// Load loads the watcher configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
