package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"naver", "yahoo"}, cfg.Providers())
	assert.Equal(t, 120, cfg.DataSource.LookbackDays)
	assert.Equal(t, 15*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: sqlite
  lookback_days: 200
  timeout: 3s
name_cache:
  redis_addr: localhost:6379
  ttl: 1h
watch:
  symbol: "005930"
  designation_date: "2026-03-02"
`)
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("LOOKBACK_DAYS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"sqlite"}, cfg.Providers())
	assert.Equal(t, 200, cfg.DataSource.LookbackDays)
	assert.Equal(t, 3*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, time.Hour, cfg.NameCache.TTL)
	assert.Equal(t, "localhost:6379", cfg.NameCache.RedisAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "token", cfg.Telegram.BotToken)
	assert.NoError(t, cfg.ValidateWatch())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "data_source: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.DataSource.Provider = "naver,bloomberg"
	assert.ErrorContains(t, cfg.Validate(), "bloomberg")

	cfg.DataSource.Provider = "mock"
	cfg.DataSource.LookbackDays = 30
	assert.Error(t, cfg.Validate())
}

func TestValidateWatch(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Telegram.BotToken = "t"
	cfg.Telegram.ChatID = "1"

	assert.ErrorContains(t, cfg.ValidateWatch(), "watch.symbol")

	cfg.Watch.Symbol = "005930"
	cfg.Watch.DesignationDate = "March 2nd"
	assert.ErrorContains(t, cfg.ValidateWatch(), "designation_date")

	cfg.Watch.DesignationDate = "2026-03-02"
	assert.NoError(t, cfg.ValidateWatch())
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("CONFIG_PATH", "/etc/sentinel.yaml")
	assert.Equal(t, "/etc/sentinel.yaml", Path())
}
