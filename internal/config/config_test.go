package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"BistSentinel/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if len(cfg.Scan.Tickers) != len(DefaultTickers) {
		t.Errorf("expected full universe, got %d tickers", len(cfg.Scan.Tickers))
	}
	th := cfg.Thresholds()
	if th.RSILower != 30 || th.RSIUpper != 70 || th.ATRMultiplier != 2 {
		t.Errorf("unexpected thresholds %+v", th)
	}
	if cfg.Market.CacheTTL != 5*time.Minute || cfg.DataSource.Backoff != 250*time.Millisecond {
		t.Errorf("unexpected durations ttl=%s backoff=%s", cfg.Market.CacheTTL, cfg.DataSource.Backoff)
	}
	if !cfg.AlertKinds()[model.SignalGoldenCross] {
		t.Error("expected golden cross alerts enabled by default")
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram must be off without credentials")
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
scan:
  tickers: [thyao.is, asels]
  preset: Light
  timeframe: medium
  bb_period: 25
alerts:
  enabled:
    MACD_CROSS: false
    GOLDEN_CROSS: true
  sound: chime
market:
  cache_ttl: 90s
`)
	t.Setenv("RSI_LOWER", "35")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Scan.Tickers[0] != "THYAO" || cfg.Scan.Preset != "light" {
		t.Errorf("expected normalized tickers and preset, got %v %q", cfg.Scan.Tickers, cfg.Scan.Preset)
	}
	if cfg.Scan.RSILower != 35 {
		t.Errorf("expected env override 35, got %.0f", cfg.Scan.RSILower)
	}
	if cfg.IndicatorParams().BBPeriod != 25 {
		t.Errorf("expected bb period 25, got %d", cfg.IndicatorParams().BBPeriod)
	}
	if cfg.Market.CacheTTL != 90*time.Second {
		t.Errorf("expected 90s ttl, got %s", cfg.Market.CacheTTL)
	}
	kinds := cfg.AlertKinds()
	if kinds[model.SignalMACDCross] || !kinds[model.SignalGoldenCross] {
		t.Errorf("unexpected alert switches %v", kinds)
	}
	if !cfg.TelegramEnabled() {
		t.Error("expected telegram enabled")
	}
}

func TestNormalize_Clamps(t *testing.T) {
	path := writeConfig(t, `
scan:
  rsi_lower: 5
  rsi_upper: 99
  atr_multiplier: 7
  bb_period: 3
alerts:
  log_size: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name      string
		got, want float64
	}{
		{"rsi_lower", cfg.Scan.RSILower, 20},
		{"rsi_upper", cfg.Scan.RSIUpper, 90},
		{"atr_multiplier", cfg.Scan.ATRMultiplier, 4},
		{"bb_period", float64(cfg.Scan.BBPeriod), 10},
		{"log_size", float64(cfg.Alerts.LogSize), 10},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %.1f, got %.1f", tt.name, tt.want, tt.got)
		}
	}
}

func TestNormalize_NonFiniteFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, `
scan:
  atr_multiplier: .inf
  bb_std_dev: .nan
`)
	t.Setenv("RSI_LOWER", "NaN")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name      string
		got, want float64
	}{
		{"rsi_lower", cfg.Scan.RSILower, 30},
		{"atr_multiplier", cfg.Scan.ATRMultiplier, 2},
		{"bb_std_dev", cfg.Scan.BBStdDev, 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %.1f, got %v", tt.name, tt.want, tt.got)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config after normalize, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown preset", func(c *Config) { c.Scan.Preset = "turbo" }},
		{"unknown timeframe", func(c *Config) { c.Scan.Timeframe = "weekly" }},
		{"unknown sound", func(c *Config) { c.Alerts.Sound = "horn" }},
		{"unknown ticker", func(c *Config) { c.Scan.Tickers = []string{"AAPL"} }},
		{"non-crossover alert", func(c *Config) { c.Alerts.Enabled = map[string]bool{"RSI_OVERSOLD": true} }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }},
		{"postgres without url", func(c *Config) { c.Database.Driver = "postgres" }},
		{"unknown export", func(c *Config) { c.Export.Format = "xlsx" }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }},
	}
	for _, tt := range tests {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestValidate_InvertedThresholds(t *testing.T) {
	cfg, _ := Load(filepath.Join(t.TempDir(), "none.yaml"))
	cfg.Scan.RSILower, cfg.Scan.RSIUpper = 60, 55
	if err := cfg.Validate(); !errors.Is(err, model.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
