package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Discord struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"discord"`
	Universe struct {
		ListingURL string   `yaml:"listing_url"`
		Markets    []string `yaml:"markets"`
		Tickers    []string `yaml:"tickers"` // static universe; overrides the listing provider
	} `yaml:"universe"`
	Fetch struct {
		Workers        int    `yaml:"workers"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		LookbackDays   int    `yaml:"lookback_days"`
		YahooSuffix    string `yaml:"yahoo_suffix"`
	} `yaml:"fetch"`
	Screen struct {
		Mode         string  `yaml:"mode"` // rule | model | both
		SwingWindow  int     `yaml:"swing_window"`
		SwingRatio   float64 `yaml:"swing_ratio"`
		WilliamsRMax float64 `yaml:"williams_r_max"`
		RSIMax       float64 `yaml:"rsi_max"`
		TopN         int     `yaml:"top_n"`
	} `yaml:"screen"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Schedule struct {
		ScanCron  string `yaml:"scan_cron"`
		TrainCron string `yaml:"train_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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

	// Environment variable overrides
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Discord.WebhookURL = v
	}
	if v := os.Getenv("LISTING_URL"); v != "" {
		cfg.Universe.ListingURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FETCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.Workers = n
		}
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}

	// Defaults
	if len(cfg.Universe.Markets) == 0 {
		cfg.Universe.Markets = []string{"KOSPI", "KOSDAQ"}
	}
	if cfg.Fetch.Workers == 0 {
		cfg.Fetch.Workers = 10
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 20
	}
	if cfg.Fetch.LookbackDays == 0 {
		cfg.Fetch.LookbackDays = 120
	}
	if cfg.Screen.Mode == "" {
		cfg.Screen.Mode = "rule"
	}
	if cfg.Screen.SwingWindow == 0 {
		cfg.Screen.SwingWindow = 20
	}
	if cfg.Screen.SwingRatio == 0 {
		cfg.Screen.SwingRatio = 1.29
	}
	if cfg.Screen.WilliamsRMax == 0 {
		cfg.Screen.WilliamsRMax = -80
	}
	if cfg.Screen.TopN == 0 {
		cfg.Screen.TopN = 20
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "data/model.json"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 16 * * 1-5"
	}
	if cfg.Schedule.TrainCron == "" {
		cfg.Schedule.TrainCron = "0 0 6 * * 6"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Discord.WebhookURL == "" {
		return fmt.Errorf("discord.webhook_url is required")
	}
	if c.Universe.ListingURL == "" && len(c.Universe.Tickers) == 0 {
		return fmt.Errorf("universe.listing_url or universe.tickers is required")
	}
	switch c.Screen.Mode {
	case "rule", "model", "both":
	default:
		return fmt.Errorf("screen.mode must be rule, model or both")
	}
	if c.Fetch.Workers < 1 {
		return fmt.Errorf("fetch.workers must be positive")
	}
	return nil
}
