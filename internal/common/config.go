// Package common provides shared utilities for tickerd
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for tickerd
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Rankings    RankingsConfig  `toml:"rankings"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds upstream exchange client configurations
type ClientsConfig struct {
	TWSE   ClientConfig `toml:"twse"`
	TPEx   ClientConfig `toml:"tpex"`
	TAIFEX ClientConfig `toml:"taifex"`
	MOPS   ClientConfig `toml:"mops"`
}

// ClientConfig holds configuration for one upstream HTTP client
type ClientConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RankingsConfig holds ranking/classification parameters.
// Top is the cutoff used by the net-buy/sell, movers and most-actives
// lists and by the multi-day symbol-status classification.
type RankingsConfig struct {
	Top int `toml:"top"`
}

// SchedulerConfig holds cron specs for the daily refresh tasks and the
// delay inserted between report fetches within one update cycle.
type SchedulerConfig struct {
	Enabled          bool   `toml:"enabled"`
	IndexQuotesSpec  string `toml:"index_quotes_spec"`
	EquityQuotesSpec string `toml:"equity_quotes_spec"`
	MarketChipsSpec  string `toml:"market_chips_spec"`
	FetchDelay       string `toml:"fetch_delay"`
}

// GetFetchDelay parses and returns the inter-fetch delay duration
func (c *SchedulerConfig) GetFetchDelay() time.Duration {
	d, err := time.ParseDuration(c.FetchDelay)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "tickerd",
			Database:  "tickerd",
		},
		Clients: ClientsConfig{
			TWSE: ClientConfig{
				BaseURL:   "https://www.twse.com.tw",
				RateLimit: 1,
				Timeout:   "30s",
			},
			TPEx: ClientConfig{
				BaseURL:   "https://www.tpex.org.tw",
				RateLimit: 1,
				Timeout:   "30s",
			},
			TAIFEX: ClientConfig{
				BaseURL:   "https://www.taifex.com.tw",
				RateLimit: 1,
				Timeout:   "30s",
			},
			MOPS: ClientConfig{
				BaseURL:   "https://mops.twse.com.tw",
				RateLimit: 1,
				Timeout:   "30s",
			},
		},
		Rankings: RankingsConfig{
			Top: 50,
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			IndexQuotesSpec:  "30 15 * * *",
			EquityQuotesSpec: "30 16 * * *",
			MarketChipsSpec:  "30 21 * * *",
			FetchDelay:       "5s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TICKERD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TICKERD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TICKERD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TICKERD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("TICKERD_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("TICKERD_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("TICKERD_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if ns := os.Getenv("TICKERD_STORAGE_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("TICKERD_STORAGE_DATABASE"); db != "" {
		config.Storage.Database = db
	}

	if top := os.Getenv("TICKERD_RANKINGS_TOP"); top != "" {
		if n, err := strconv.Atoi(top); err == nil && n > 0 {
			config.Rankings.Top = n
		}
	}
}
