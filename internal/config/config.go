package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockSentinel/internal/model"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		// Provider is a comma-separated fetch chain: naver, yahoo, sqlite, mock.
		Provider     string        `yaml:"provider"`
		LookbackDays int           `yaml:"lookback_days"`
		Timeout      time.Duration `yaml:"timeout"`
		RateLimitRPS float64       `yaml:"rate_limit_rps"`
		SQLitePath   string        `yaml:"sqlite_path"`
	} `yaml:"data_source"`
	NameCache struct {
		RedisAddr string        `yaml:"redis_addr"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"name_cache"`
	Server struct {
		Addr             string   `yaml:"addr"`
		CORSAllowOrigins []string `yaml:"cors_allow_origins"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watch struct {
		Symbol          string `yaml:"symbol"`
		DesignationDate string `yaml:"designation_date"`
		Cron            string `yaml:"cron"`
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Path returns the config file location, honouring CONFIG_PATH.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.LookbackDays = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.DataSource.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.NameCache.RedisAddr = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.Server.CORSAllowOrigins = splitList(v)
	}
	if v := os.Getenv("WATCH_SYMBOL"); v != "" {
		cfg.Watch.Symbol = v
	}
	if v := os.Getenv("WATCH_DESIGNATION_DATE"); v != "" {
		cfg.Watch.DesignationDate = v
	}
	if v := os.Getenv("CRON_WATCH"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "naver,yahoo"
	}
	if cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 120
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 15 * time.Second
	}
	if cfg.DataSource.SQLitePath == "" {
		cfg.DataSource.SQLitePath = "data/stock_sentinel.db"
	}
	if cfg.NameCache.TTL == 0 {
		cfg.NameCache.TTL = 7 * 24 * time.Hour
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if len(cfg.Server.CORSAllowOrigins) == 0 {
		cfg.Server.CORSAllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	if cfg.Watch.Cron == "" {
		// Weekdays after the KRX close.
		cfg.Watch.Cron = "0 40 15 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Providers returns the configured fetch chain, in order.
func (c *Config) Providers() []string {
	return splitList(c.DataSource.Provider)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var knownProviders = map[string]bool{"naver": true, "yahoo": true, "sqlite": true, "mock": true}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	providers := c.Providers()
	if len(providers) == 0 {
		return fmt.Errorf("data_source.provider is required")
	}
	for _, p := range providers {
		if !knownProviders[p] {
			return fmt.Errorf("data_source.provider: unknown provider %q", p)
		}
	}
	if c.DataSource.LookbackDays < 60 {
		return fmt.Errorf("data_source.lookback_days must be at least 60 to cover a 40-day window")
	}
	if c.DataSource.Timeout < 0 {
		return fmt.Errorf("data_source.timeout must not be negative")
	}
	return nil
}

// ValidateWatch additionally checks what the scheduled watch job needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Watch.Symbol == "" {
		return fmt.Errorf("watch.symbol is required")
	}
	if c.Watch.DesignationDate != "" {
		if _, err := model.ParseDate(c.Watch.DesignationDate); err != nil {
			return fmt.Errorf("watch.designation_date: %w", err)
		}
	}
	return nil
}
