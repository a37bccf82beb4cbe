// Package config defines the top-level configuration for the crossbook bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/arbworks/crossbook/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by CROSSBOOK_* environment
// variables.
type Config struct {
	Kalshi     KalshiConfig        `toml:"kalshi"`
	Polymarket PolymarketConfig    `toml:"polymarket"`
	Redis      RedisConfig         `toml:"redis"`
	Detector   DetectorConfig      `toml:"detector"`
	Risk       RiskConfig          `toml:"risk"`
	Feeds      FeedsConfig         `toml:"feeds"`
	Server     ServerConfig        `toml:"server"`
	Notify     NotifyConfig        `toml:"notify"`
	Markets    []domain.MarketPair `toml:"markets"`
	Mode       string              `toml:"mode"`
	LogLevel   string              `toml:"log_level"`
}

// KalshiConfig holds the Kalshi market-data endpoint. The public orderbook
// feed needs no credentials.
type KalshiConfig struct {
	WSURL string `toml:"ws_url"`
}

// PolymarketConfig holds the Polymarket CLOB market-data endpoint.
type PolymarketConfig struct {
	WSURL string `toml:"ws_url"`
}

// RedisConfig holds Redis connection parameters. An empty addr disables
// Redis entirely; the bot then runs without the signal bus and quote cache.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// DetectorConfig holds the arbitrage scan parameters.
type DetectorConfig struct {
	ScanInterval    duration `toml:"scan_interval"`
	ThresholdCents  int      `toml:"threshold_cents"`
	MaxPositionSize int      `toml:"max_position_size"`
}

// RiskConfig holds the risk monitor parameters.
type RiskConfig struct {
	MaxDailyLossCents int64    `toml:"max_daily_loss_cents"`
	Interval          duration `toml:"interval"`
	AlertThrottle     duration `toml:"alert_throttle"`
}

// FeedsConfig holds feed supervision parameters shared by both venues.
type FeedsConfig struct {
	ReconnectDelay duration `toml:"reconnect_delay"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "500ms", "60s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Kalshi: KalshiConfig{
			WSURL: "wss://api.elections.kalshi.com/trade-api/ws/v2",
		},
		Polymarket: PolymarketConfig{
			WSURL: "wss://ws-subscriptions-clob.polymarket.com/ws/market",
		},
		Redis: RedisConfig{
			Addr:       "",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Detector: DetectorConfig{
			ScanInterval:    duration{500 * time.Millisecond},
			ThresholdCents:  100,
			MaxPositionSize: 10,
		},
		Risk: RiskConfig{
			MaxDailyLossCents: 5000,
			Interval:          duration{60 * time.Second},
			AlertThrottle:     duration{15 * time.Minute},
		},
		Feeds: FeedsConfig{
			ReconnectDelay: duration{5 * time.Second},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Events: []string{"trade_recorded", "risk_alert"},
		},
		Mode:     "simulate",
		LogLevel: "info",
	}
}

// DefaultMarkets is the built-in catalog used when no [[markets]] entries are
// configured. Token IDs are placeholders; real catalogs come from the TOML
// file.
func DefaultMarkets() []domain.MarketPair {
	return []domain.MarketPair{
		{
			ID:           "chelsea-arsenal",
			Description:  "Chelsea vs Arsenal (EPL)",
			MarketType:   domain.MarketTypeMoneyline,
			KalshiTicker: "KXEPLGAME-25DEC27CFCARS-CFC",
			PolySlug:     "chelsea-vs-arsenal",
			PolyYesToken: "0x123...abc",
			PolyNoToken:  "0x456...def",
		},
		{
			ID:           "lakers-celtics",
			Description:  "Lakers vs Celtics (NBA)",
			MarketType:   domain.MarketTypeMoneyline,
			KalshiTicker: "KXNBAGAME-25JAN15LALCEL-LAL",
			PolySlug:     "lakers-vs-celtics",
			PolyYesToken: "0x789...ghi",
			PolyNoToken:  "0xabc...jkl",
		},
		{
			ID:           "bitcoin-100k",
			Description:  "Bitcoin > $100k (Feb 2025)",
			MarketType:   domain.MarketTypeTotal,
			KalshiTicker: "KXBTC-25FEB01-100K",
			PolySlug:     "bitcoin-100k-feb-2025",
			PolyYesToken: "0xdef...mno",
			PolyNoToken:  "0xghi...pqr",
		},
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"simulate": true,
	"live":     true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: simulate, live)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Kalshi.WSURL == "" {
		errs = append(errs, "kalshi: ws_url must not be empty")
	}
	if c.Polymarket.WSURL == "" {
		errs = append(errs, "polymarket: ws_url must not be empty")
	}

	if c.Redis.Enabled() && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.Detector.ScanInterval.Duration <= 0 {
		errs = append(errs, "detector: scan_interval must be > 0")
	}
	if c.Detector.ThresholdCents < 1 || c.Detector.ThresholdCents > 100 {
		errs = append(errs, fmt.Sprintf("detector: threshold_cents must be 1-100, got %d", c.Detector.ThresholdCents))
	}
	if c.Detector.MaxPositionSize < 1 {
		errs = append(errs, "detector: max_position_size must be >= 1")
	}

	if c.Risk.MaxDailyLossCents < 0 {
		errs = append(errs, "risk: max_daily_loss_cents must be >= 0")
	}
	if c.Risk.Interval.Duration <= 0 {
		errs = append(errs, "risk: interval must be > 0")
	}

	if c.Feeds.ReconnectDelay.Duration <= 0 {
		errs = append(errs, "feeds: reconnect_delay must be > 0")
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	for i, m := range c.Markets {
		if m.ID == "" {
			errs = append(errs, fmt.Sprintf("markets[%d]: id must not be empty", i))
		}
		if m.KalshiTicker == "" {
			errs = append(errs, fmt.Sprintf("markets[%d]: kalshi_ticker must not be empty", i))
		}
		if m.PolyYesToken == "" || m.PolyNoToken == "" {
			errs = append(errs, fmt.Sprintf("markets[%d]: poly_yes_token and poly_no_token must not be empty", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
