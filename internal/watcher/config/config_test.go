package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "stocks.json", cfg.Watchlist.Path)
	assert.Equal(t, "@every 5m", cfg.Monitor.Cron)
	assert.Equal(t, 30*time.Second, cfg.Monitor.ShutdownTimeout)
	assert.Equal(t, "1d", cfg.YahooFinance.HistoryRange)
	assert.Equal(t, 10*time.Second, cfg.YahooFinance.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.LastPriceTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Telegram.Enabled)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
watchlist:
  path: /data/stocks.json
monitor:
  cron: "*/10 9-13 * * 1-5"
yahoo_finance:
  history_range: 5d
telegram:
  enabled: true
  chat_id: 12345
`), 0o644))
	t.Setenv("WATCHLIST_PATH", "/env/stocks.json")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/env/stocks.json", cfg.Watchlist.Path)
	assert.Equal(t, "*/10 9-13 * * 1-5", cfg.Monitor.Cron)
	assert.Equal(t, "5d", cfg.YahooFinance.HistoryRange)
	assert.True(t, cfg.Telegram.Enabled)
	assert.Equal(t, int64(12345), cfg.Telegram.ChatID)
	assert.Equal(t, "token", cfg.Telegram.BotToken)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watchlist: [unclosed"), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}
