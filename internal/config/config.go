package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"SMACrossover/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"` // "alphavantage" or "yahoo"
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"data_source"`
	Analysis struct {
		Mode             string  `yaml:"mode"` // "single" or "multi"
		Symbol           string  `yaml:"symbol"`
		PrimarySymbol    string  `yaml:"primary_symbol"`
		ProtectiveSymbol string  `yaml:"protective_symbol"`
		ReferenceSymbol  string  `yaml:"reference_symbol"`
		SMAPeriod        int     `yaml:"sma_period"`
		SMASource        string  `yaml:"sma_source"` // "computed" or "fetched"
		MaxDataAgeDays   int     `yaml:"max_data_age_days"`
		StalenessAction  string  `yaml:"staleness_action"` // "warn" or "reject"
		MinValue         float64 `yaml:"min_value"`
		MaxValue         float64 `yaml:"max_value"`
		MinRatio         float64 `yaml:"min_ratio"`
		MaxRatio         float64 `yaml:"max_ratio"`
		MaxMagnitudeDiff float64 `yaml:"max_magnitude_diff"`
		Thresholds       struct {
			PrimaryBuy        float64 `yaml:"primary_buy"`
			PrimarySell       float64 `yaml:"primary_sell"`
			ProtectiveWarning float64 `yaml:"protective_warning"`
			ProtectiveDanger  float64 `yaml:"protective_danger"`
		} `yaml:"thresholds"`
	} `yaml:"analysis"`
	Email struct {
		SMTPHost string   `yaml:"smtp_host"`
		SMTPPort int      `yaml:"smtp_port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		FromName string   `yaml:"from_name"`
		To       []string `yaml:"to"`
	} `yaml:"email"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
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
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("STOCK_SYMBOL"); v != "" {
		cfg.Analysis.Symbol = v
	}
	if v := os.Getenv("SMA_PERIOD"); v != "" {
		if period, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.SMAPeriod = period
		}
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "alphavantage"
	}
	if cfg.Analysis.Mode == "" {
		cfg.Analysis.Mode = "single"
	}
	if cfg.Analysis.Symbol == "" {
		cfg.Analysis.Symbol = "TQQQ"
	}
	if cfg.Analysis.PrimarySymbol == "" {
		cfg.Analysis.PrimarySymbol = "SPY"
	}
	if cfg.Analysis.ProtectiveSymbol == "" {
		cfg.Analysis.ProtectiveSymbol = "QQQ"
	}
	if cfg.Analysis.SMAPeriod == 0 {
		cfg.Analysis.SMAPeriod = 200
	}
	if cfg.Analysis.SMASource == "" {
		cfg.Analysis.SMASource = "computed"
	}
	if cfg.Analysis.MaxDataAgeDays == 0 {
		cfg.Analysis.MaxDataAgeDays = 5
	}
	if cfg.Analysis.StalenessAction == "" {
		cfg.Analysis.StalenessAction = "warn"
	}
	if cfg.Analysis.MinValue == 0 && cfg.Analysis.MaxValue == 0 {
		b := model.DefaultBounds()
		cfg.Analysis.MinValue = b.MinValue
		cfg.Analysis.MaxValue = b.MaxValue
	}
	if cfg.Analysis.MinRatio == 0 && cfg.Analysis.MaxRatio == 0 {
		b := model.DefaultBounds()
		cfg.Analysis.MinRatio = b.MinRatio
		cfg.Analysis.MaxRatio = b.MaxRatio
	}
	if cfg.Analysis.MaxMagnitudeDiff == 0 {
		cfg.Analysis.MaxMagnitudeDiff = model.DefaultBounds().MaxMagnitudeDiff
	}
	t := &cfg.Analysis.Thresholds
	if t.PrimaryBuy == 0 && t.PrimarySell == 0 && t.ProtectiveWarning == 0 && t.ProtectiveDanger == 0 {
		d := model.DefaultThresholds()
		t.PrimaryBuy = d.PrimaryBuy
		t.PrimarySell = d.PrimarySell
		t.ProtectiveWarning = d.ProtectiveWarning
		t.ProtectiveDanger = d.ProtectiveDanger
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "SMA Crossover Alerts"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}

	return cfg, nil
}

// Validate checks the configuration and fails fast at construction time.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "alphavantage":
		if c.DataSource.APIKey == "" {
			return &model.ConfigError{Section: "data_source", Key: "api_key", Msg: "required for alphavantage provider"}
		}
	case "yahoo":
	default:
		return &model.ConfigError{Section: "data_source", Key: "provider",
			Msg: fmt.Sprintf("must be alphavantage or yahoo, got %q", c.DataSource.Provider)}
	}

	a := c.Analysis
	if a.Mode != "single" && a.Mode != "multi" {
		return &model.ConfigError{Section: "analysis", Key: "mode",
			Msg: fmt.Sprintf("must be single or multi, got %q", a.Mode)}
	}
	if a.SMAPeriod < 1 || a.SMAPeriod > 500 {
		return &model.ConfigError{Section: "analysis", Key: "sma_period",
			Msg: fmt.Sprintf("must be between 1 and 500 days, got %d", a.SMAPeriod)}
	}
	if a.SMASource != "computed" && a.SMASource != "fetched" {
		return &model.ConfigError{Section: "analysis", Key: "sma_source",
			Msg: fmt.Sprintf("must be computed or fetched, got %q", a.SMASource)}
	}
	if a.SMASource == "fetched" && c.DataSource.Provider != "alphavantage" {
		return &model.ConfigError{Section: "analysis", Key: "sma_source",
			Msg: "fetched SMA series requires the alphavantage provider"}
	}
	if a.MaxDataAgeDays < 1 {
		return &model.ConfigError{Section: "analysis", Key: "max_data_age_days",
			Msg: fmt.Sprintf("must be positive, got %d", a.MaxDataAgeDays)}
	}
	if a.StalenessAction != string(model.StalenessWarn) && a.StalenessAction != string(model.StalenessReject) {
		return &model.ConfigError{Section: "analysis", Key: "staleness_action",
			Msg: fmt.Sprintf("must be warn or reject, got %q", a.StalenessAction)}
	}
	if a.MinValue <= 0 || a.MaxValue <= a.MinValue {
		return &model.ConfigError{Section: "analysis", Key: "min_value",
			Msg: fmt.Sprintf("bounds must satisfy 0 < min < max, got %v-%v", a.MinValue, a.MaxValue)}
	}
	if a.MinRatio <= 0 || a.MaxRatio <= a.MinRatio {
		return &model.ConfigError{Section: "analysis", Key: "min_ratio",
			Msg: fmt.Sprintf("ratio bounds must satisfy 0 < min < max, got %v-%v", a.MinRatio, a.MaxRatio)}
	}
	if a.MaxMagnitudeDiff <= 0 {
		return &model.ConfigError{Section: "analysis", Key: "max_magnitude_diff",
			Msg: fmt.Sprintf("must be positive, got %v", a.MaxMagnitudeDiff)}
	}

	th := a.Thresholds
	if th.PrimaryBuy <= 0 {
		return &model.ConfigError{Section: "analysis", Key: "thresholds.primary_buy",
			Msg: fmt.Sprintf("must be positive, got %v", th.PrimaryBuy)}
	}
	if th.PrimarySell >= 0 {
		return &model.ConfigError{Section: "analysis", Key: "thresholds.primary_sell",
			Msg: fmt.Sprintf("must be negative, got %v", th.PrimarySell)}
	}
	if th.ProtectiveWarning <= 0 {
		return &model.ConfigError{Section: "analysis", Key: "thresholds.protective_warning",
			Msg: fmt.Sprintf("must be positive, got %v", th.ProtectiveWarning)}
	}
	if th.ProtectiveDanger <= th.ProtectiveWarning {
		return &model.ConfigError{Section: "analysis", Key: "thresholds.protective_danger",
			Msg: fmt.Sprintf("must exceed the warning threshold %v, got %v", th.ProtectiveWarning, th.ProtectiveDanger)}
	}

	if len(c.Email.To) == 0 && c.Telegram.BotToken == "" {
		return &model.ConfigError{Section: "email", Key: "to",
			Msg: "at least one notification channel (email or telegram) must be configured"}
	}
	if len(c.Email.To) > 0 {
		if c.Email.SMTPHost == "" {
			return &model.ConfigError{Section: "email", Key: "smtp_host", Msg: "required when recipients are set"}
		}
		if c.Email.From == "" {
			return &model.ConfigError{Section: "email", Key: "from", Msg: "required when recipients are set"}
		}
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return &model.ConfigError{Section: "telegram", Key: "chat_id", Msg: "required when bot_token is set"}
	}

	return nil
}

// Bounds assembles the validation bounds from the analysis section.
func (c *Config) Bounds() model.Bounds {
	return model.Bounds{
		MinValue:         c.Analysis.MinValue,
		MaxValue:         c.Analysis.MaxValue,
		MinRatio:         c.Analysis.MinRatio,
		MaxRatio:         c.Analysis.MaxRatio,
		MaxMagnitudeDiff: c.Analysis.MaxMagnitudeDiff,
	}
}

// Thresholds assembles the multi-ticker thresholds.
func (c *Config) Thresholds() model.Thresholds {
	return model.Thresholds{
		PrimaryBuy:        c.Analysis.Thresholds.PrimaryBuy,
		PrimarySell:       c.Analysis.Thresholds.PrimarySell,
		ProtectiveWarning: c.Analysis.Thresholds.ProtectiveWarning,
		ProtectiveDanger:  c.Analysis.Thresholds.ProtectiveDanger,
	}
}
