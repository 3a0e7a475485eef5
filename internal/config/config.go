package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"whalewatch/internal/models"
)

// Config represents the complete application configuration. It is built once
// at startup and passed by value into each component; nothing reloads it.
type Config struct {
	Hyperliquid HyperliquidConfig `mapstructure:"hyperliquid"`
	Discovery   DiscoveryConfig   `mapstructure:"discovery"`
	Scanner     ScannerConfig     `mapstructure:"scanner"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// HyperliquidConfig holds venue info-API configuration.
type HyperliquidConfig struct {
	InfoURL        string        `mapstructure:"info_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RequestsPerSec int           `mapstructure:"requests_per_sec"`
}

// DiscoveryConfig holds leaderboard scraping configuration.
type DiscoveryConfig struct {
	LeaderboardURL string        `mapstructure:"leaderboard_url"`
	Limit          int           `mapstructure:"limit"`
	Timeout        time.Duration `mapstructure:"timeout"`
	SeedAccounts   []string      `mapstructure:"seed_accounts"`
}

// ScannerConfig holds detection and scheduling behavior.
type ScannerConfig struct {
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LaunchStagger   time.Duration `mapstructure:"launch_stagger"`
	MinOrderCount   int           `mapstructure:"min_order_count"`
	Window          time.Duration `mapstructure:"window"`
	MinBalanceUSD   float64       `mapstructure:"min_balance_usd"`
	MinDepositUSD   float64       `mapstructure:"min_deposit_usd"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// StorageConfig holds the alert journal configuration.
type StorageConfig struct {
	DBPath    string `mapstructure:"db_path"`
	MaxAlerts int    `mapstructure:"max_alerts"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("WHALEWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("hyperliquid.info_url", "https://api.hyperliquid.xyz/info")
	v.SetDefault("hyperliquid.timeout", "5s")
	v.SetDefault("hyperliquid.requests_per_sec", 10)

	v.SetDefault("discovery.leaderboard_url", "https://hypurrscan.io/leaderboard")
	v.SetDefault("discovery.limit", 100)
	v.SetDefault("discovery.timeout", "10s")
	v.SetDefault("discovery.seed_accounts", []string{
		"0xb317d2bc2d3d2df5fa441b5bae0ab9d8b07283ae",
		"0x2ea18c23f72a4b6172c55b411823cdc5335923f4",
		"0xc44d87a291f54a77adbae7a22becf4522b0c708e",
	})

	v.SetDefault("scanner.poll_interval", "30s")
	v.SetDefault("scanner.refresh_interval", "1h")
	v.SetDefault("scanner.launch_stagger", "200ms")
	v.SetDefault("scanner.min_order_count", 71)
	v.SetDefault("scanner.window", "5m")
	v.SetDefault("scanner.min_balance_usd", 20_000_000)
	v.SetDefault("scanner.min_deposit_usd", 20_000_000)

	v.SetDefault("storage.db_path", "")
	v.SetDefault("storage.max_alerts", 1000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Hyperliquid.InfoURL == "" {
		return fmt.Errorf("hyperliquid.info_url is required")
	}
	if c.Hyperliquid.Timeout < time.Second {
		return fmt.Errorf("hyperliquid.timeout must be at least 1 second")
	}
	if c.Hyperliquid.RequestsPerSec < 1 {
		return fmt.Errorf("hyperliquid.requests_per_sec must be at least 1")
	}

	if c.Discovery.LeaderboardURL == "" {
		return fmt.Errorf("discovery.leaderboard_url is required")
	}
	if c.Discovery.Limit < 1 || c.Discovery.Limit > 1000 {
		return fmt.Errorf("discovery.limit must be between 1 and 1000")
	}
	if c.Discovery.Timeout < time.Second {
		return fmt.Errorf("discovery.timeout must be at least 1 second")
	}
	for _, seed := range c.Discovery.SeedAccounts {
		if err := models.Normalize(seed).Validate(); err != nil {
			return fmt.Errorf("discovery.seed_accounts contains invalid address %q: %w", seed, err)
		}
	}

	if c.Scanner.PollInterval < time.Second {
		return fmt.Errorf("scanner.poll_interval must be at least 1 second")
	}
	if c.Scanner.RefreshInterval < c.Scanner.PollInterval {
		return fmt.Errorf("scanner.refresh_interval must not be shorter than the poll interval")
	}
	if c.Scanner.LaunchStagger <= 0 {
		return fmt.Errorf("scanner.launch_stagger must be positive")
	}
	if c.Scanner.MinOrderCount < 2 {
		return fmt.Errorf("scanner.min_order_count must be at least 2")
	}
	if c.Scanner.Window < time.Second {
		return fmt.Errorf("scanner.window must be at least 1 second")
	}
	if c.Scanner.MinBalanceUSD < 0 {
		return fmt.Errorf("scanner.min_balance_usd must not be negative")
	}
	if c.Scanner.MinDepositUSD < 0 {
		return fmt.Errorf("scanner.min_deposit_usd must not be negative")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Storage.MaxAlerts < 1 {
		return fmt.Errorf("storage.max_alerts must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
