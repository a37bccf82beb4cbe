package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CROSSBOOK_* environment variable overrides, and
// returns the final Config. When no [[markets]] entries are configured the
// built-in catalog is used. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	if len(cfg.Markets) == 0 {
		cfg.Markets = DefaultMarkets()
	}

	return &cfg, nil
}

// applyEnvOverrides reads well-known CROSSBOOK_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Venues ──
	setStr(&cfg.Kalshi.WSURL, "CROSSBOOK_KALSHI_WS_URL")
	setStr(&cfg.Polymarket.WSURL, "CROSSBOOK_POLYMARKET_WS_URL")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "CROSSBOOK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CROSSBOOK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CROSSBOOK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CROSSBOOK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CROSSBOOK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CROSSBOOK_REDIS_TLS_ENABLED")

	// ── Detector ──
	setDuration(&cfg.Detector.ScanInterval, "CROSSBOOK_DETECTOR_SCAN_INTERVAL")
	setInt(&cfg.Detector.ThresholdCents, "CROSSBOOK_DETECTOR_THRESHOLD_CENTS")
	setInt(&cfg.Detector.MaxPositionSize, "CROSSBOOK_MAX_POSITION_SIZE")

	// ── Risk ──
	setInt64(&cfg.Risk.MaxDailyLossCents, "CROSSBOOK_MAX_DAILY_LOSS")
	setDuration(&cfg.Risk.Interval, "CROSSBOOK_RISK_INTERVAL")
	setDuration(&cfg.Risk.AlertThrottle, "CROSSBOOK_RISK_ALERT_THROTTLE")

	// ── Feeds ──
	setDuration(&cfg.Feeds.ReconnectDelay, "CROSSBOOK_FEEDS_RECONNECT_DELAY")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "CROSSBOOK_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "CROSSBOOK_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "CROSSBOOK_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "CROSSBOOK_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "CROSSBOOK_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "CROSSBOOK_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "CROSSBOOK_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "CROSSBOOK_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "CROSSBOOK_MODE")
	setStr(&cfg.LogLevel, "CROSSBOOK_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
