package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BistSentinel/internal/calculator"
	"BistSentinel/internal/model"
	"BistSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	FCM struct {
		CredentialsFile string   `yaml:"credentials_file"`
		Tokens          []string `yaml:"tokens"`
	} `yaml:"fcm"`
	DataSource struct {
		Provider string        `yaml:"provider"` // yahoo | rest | mock
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Workers  int           `yaml:"workers"`
		Attempts int           `yaml:"attempts"`
		Backoff  time.Duration `yaml:"backoff"`
	} `yaml:"data_source"`
	Scan struct {
		Tickers       []string `yaml:"tickers"`
		Preset        string   `yaml:"preset"`
		Timeframe     string   `yaml:"timeframe"`
		RSILower      float64  `yaml:"rsi_lower"`
		RSIUpper      float64  `yaml:"rsi_upper"`
		ATRMultiplier float64  `yaml:"atr_multiplier"`
		BBPeriod      int      `yaml:"bb_period"`
		BBStdDev      float64  `yaml:"bb_std_dev"`
		StochK        int      `yaml:"stoch_k"`
		StochD        int      `yaml:"stoch_d"`
		StochSmooth   int      `yaml:"stoch_smooth"`
	} `yaml:"scan"`
	Alerts struct {
		Enabled map[string]bool `yaml:"enabled"`
		Sound   string          `yaml:"sound"`
		LogSize int             `yaml:"log_size"`
	} `yaml:"alerts"`
	Schedule struct {
		ScanCron         string `yaml:"scan_cron"`
		HousekeepingCron string `yaml:"housekeeping_cron"`
	} `yaml:"schedule"`
	Market struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"market"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Database struct {
		Driver      string `yaml:"driver"` // none | sqlite | postgres
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"database"`
	Export struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"` // csv | json | parquet
	} `yaml:"export"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, applies environment variable overrides,
// fills defaults and clamps out-of-range numbers.
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

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	setString("FCM_CREDENTIALS_FILE", &c.FCM.CredentialsFile)
	setString("DATA_PROVIDER", &c.DataSource.Provider)
	setString("DATA_BASE_URL", &c.DataSource.BaseURL)
	setString("DATA_API_KEY", &c.DataSource.APIKey)
	setString("HTTPS_PROXY", &c.Proxy)
	setString("SCAN_PRESET", &c.Scan.Preset)
	setString("SCAN_TIMEFRAME", &c.Scan.Timeframe)
	setString("ALERT_SOUND", &c.Alerts.Sound)
	setString("CRON_SCAN", &c.Schedule.ScanCron)
	setString("HTTP_ADDR", &c.HTTP.Addr)
	setString("DATABASE_DRIVER", &c.Database.Driver)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("DATABASE_URL", &c.Database.PostgresURL)
	setString("EXPORT_DIR", &c.Export.Dir)
	setString("EXPORT_FORMAT", &c.Export.Format)

	if v := os.Getenv("SCAN_TICKERS"); v != "" {
		c.Scan.Tickers = splitList(v)
	}
	if v := os.Getenv("FCM_TOKENS"); v != "" {
		c.FCM.Tokens = splitList(v)
	}
	if v := os.Getenv("RSI_LOWER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scan.RSILower = f
		}
	}
	if v := os.Getenv("RSI_UPPER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scan.RSIUpper = f
		}
	}
	if v := os.Getenv("ATR_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scan.ATRMultiplier = f
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Workers == 0 {
		c.DataSource.Workers = 8
	}
	if c.DataSource.Attempts == 0 {
		c.DataSource.Attempts = 2
	}
	if c.DataSource.Backoff == 0 {
		c.DataSource.Backoff = 250 * time.Millisecond
	}
	if len(c.Scan.Tickers) == 0 {
		c.Scan.Tickers = append([]string(nil), DefaultTickers...)
	}
	if c.Scan.Preset == "" {
		c.Scan.Preset = string(strategy.PresetFull)
	}
	if c.Scan.Timeframe == "" {
		c.Scan.Timeframe = string(model.TimeframeClassic)
	}
	if c.Scan.RSILower == 0 {
		c.Scan.RSILower = 30
	}
	if c.Scan.RSIUpper == 0 {
		c.Scan.RSIUpper = 70
	}
	if c.Scan.ATRMultiplier == 0 {
		c.Scan.ATRMultiplier = 2.0
	}
	if c.Scan.BBPeriod == 0 {
		c.Scan.BBPeriod = 20
	}
	if c.Scan.BBStdDev == 0 {
		c.Scan.BBStdDev = 2.0
	}
	if c.Scan.StochK == 0 {
		c.Scan.StochK = 14
	}
	if c.Scan.StochD == 0 {
		c.Scan.StochD = 3
	}
	if c.Scan.StochSmooth == 0 {
		c.Scan.StochSmooth = 3
	}
	if c.Alerts.Enabled == nil {
		c.Alerts.Enabled = map[string]bool{
			string(model.SignalMACDCross):   true,
			string(model.SignalGoldenCross): true,
			string(model.SignalEMACross):    true,
		}
	}
	if c.Alerts.Sound == "" {
		c.Alerts.Sound = string(model.SoundBeep)
	}
	if c.Alerts.LogSize == 0 {
		c.Alerts.LogSize = 10
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 30 18 * * 1-5"
	}
	if c.Schedule.HousekeepingCron == "" {
		c.Schedule.HousekeepingCron = "0 0 9 * * 1-5"
	}
	if c.Market.CacheTTL == 0 {
		c.Market.CacheTTL = 5 * time.Minute
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "none"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/bist_sentinel.db"
	}
	if c.Export.Format == "" {
		c.Export.Format = "csv"
	}
}

// clampFloat resets non-finite values to def and clamps the rest into [lo, hi].
func clampFloat(name string, v *float64, lo, hi, def float64) {
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		log.Printf("[WARN] %s=%v is not a finite number, using %.2f", name, *v, def)
		*v = def
		return
	}
	if *v < lo || *v > hi {
		clamped := min(max(*v, lo), hi)
		log.Printf("[WARN] %s=%.2f out of range [%.2f, %.2f], using %.2f", name, *v, lo, hi, clamped)
		*v = clamped
	}
}

func clampInt(name string, v *int, lo, hi int) {
	if *v < lo || *v > hi {
		clamped := min(max(*v, lo), hi)
		log.Printf("[WARN] %s=%d out of range [%d, %d], using %d", name, *v, lo, hi, clamped)
		*v = clamped
	}
}

// Normalize clamps numeric options into their documented bounds and
// normalizes ticker spelling.
func (c *Config) Normalize() {
	clampFloat("scan.rsi_lower", &c.Scan.RSILower, 20, 45, 30)
	clampFloat("scan.rsi_upper", &c.Scan.RSIUpper, 55, 90, 70)
	clampFloat("scan.atr_multiplier", &c.Scan.ATRMultiplier, 1.0, 4.0, 2.0)
	clampFloat("scan.bb_std_dev", &c.Scan.BBStdDev, 1.0, 3.0, 2.0)
	clampInt("scan.bb_period", &c.Scan.BBPeriod, 10, 30)
	clampInt("scan.stoch_k", &c.Scan.StochK, 5, 30)
	clampInt("scan.stoch_d", &c.Scan.StochD, 1, 10)
	clampInt("scan.stoch_smooth", &c.Scan.StochSmooth, 1, 10)
	clampInt("alerts.log_size", &c.Alerts.LogSize, 8, 10)
	clampInt("data_source.workers", &c.DataSource.Workers, 1, 32)
	clampInt("data_source.attempts", &c.DataSource.Attempts, 1, 5)

	for i, t := range c.Scan.Tickers {
		c.Scan.Tickers[i] = model.NormalizeTicker(t)
	}
	c.Scan.Preset = strings.ToLower(strings.TrimSpace(c.Scan.Preset))
	c.Scan.Timeframe = strings.ToLower(strings.TrimSpace(c.Scan.Timeframe))
	c.Alerts.Sound = strings.ToLower(strings.TrimSpace(c.Alerts.Sound))
}

// Validate checks structural settings that cannot be clamped.
func (c *Config) Validate() error {
	if _, err := strategy.VariantFor(strategy.Preset(c.Scan.Preset)); err != nil {
		return fmt.Errorf("scan.preset: %w", err)
	}
	if !model.Timeframe(c.Scan.Timeframe).Valid() {
		return fmt.Errorf("scan.timeframe %q must be short, medium or classic: %w", c.Scan.Timeframe, model.ErrInvalidConfig)
	}
	if c.Scan.RSILower >= c.Scan.RSIUpper {
		return fmt.Errorf("scan.rsi_lower must be below scan.rsi_upper: %w", model.ErrInvalidConfig)
	}
	for _, t := range c.Scan.Tickers {
		if !inUniverse(t) {
			return fmt.Errorf("scan.tickers: %s is not in the BIST 100 universe: %w", t, model.ErrInvalidConfig)
		}
	}
	if !model.AlertSound(c.Alerts.Sound).Valid() {
		return fmt.Errorf("alerts.sound %q is not a known sound: %w", c.Alerts.Sound, model.ErrInvalidConfig)
	}
	for kind := range c.Alerts.Enabled {
		if !model.SignalKind(kind).IsCrossover() {
			return fmt.Errorf("alerts.enabled: %s is not a crossover signal: %w", kind, model.ErrInvalidConfig)
		}
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported: %w", c.DataSource.Provider, model.ErrInvalidConfig)
	}
	switch c.Database.Driver {
	case "none", "sqlite":
	case "postgres":
		if c.Database.PostgresURL == "" {
			return fmt.Errorf("database.postgres_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver %q is not supported: %w", c.Database.Driver, model.ErrInvalidConfig)
	}
	switch c.Export.Format {
	case "csv", "json", "parquet":
	default:
		return fmt.Errorf("export.format %q is not supported: %w", c.Export.Format, model.ErrInvalidConfig)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Thresholds returns the decision thresholds.
func (c *Config) Thresholds() strategy.Thresholds {
	return strategy.Thresholds{
		RSILower:      c.Scan.RSILower,
		RSIUpper:      c.Scan.RSIUpper,
		ATRMultiplier: c.Scan.ATRMultiplier,
	}
}

// IndicatorParams returns the indicator periods with the configured overrides.
func (c *Config) IndicatorParams() calculator.Params {
	p := calculator.DefaultParams()
	p.BBPeriod = c.Scan.BBPeriod
	p.BBStdDev = c.Scan.BBStdDev
	p.StochK = c.Scan.StochK
	p.StochD = c.Scan.StochD
	p.StochSmooth = c.Scan.StochSmooth
	return p
}

// AlertKinds returns the per-kind alert switches.
func (c *Config) AlertKinds() map[model.SignalKind]bool {
	out := make(map[model.SignalKind]bool, len(c.Alerts.Enabled))
	for k, on := range c.Alerts.Enabled {
		out[model.SignalKind(k)] = on
	}
	return out
}
