package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Markets = DefaultMarkets()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeTempConfig(t, `
mode = "simulate"
log_level = "debug"

[detector]
scan_interval = "250ms"
threshold_cents = 100
max_position_size = 5

[risk]
max_daily_loss_cents = 10000
interval = "30s"

[[markets]]
id = "btc-100k"
description = "Bitcoin > $100k"
market_type = "total"
kalshi_ticker = "KXBTC-100K"
poly_yes_token = "tok-yes"
poly_no_token = "tok-no"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.Detector.ScanInterval.Duration != 250*time.Millisecond {
		t.Errorf("ScanInterval = %v, want 250ms", cfg.Detector.ScanInterval.Duration)
	}
	if cfg.Detector.MaxPositionSize != 5 {
		t.Errorf("MaxPositionSize = %d, want 5", cfg.Detector.MaxPositionSize)
	}
	if cfg.Risk.MaxDailyLossCents != 10000 {
		t.Errorf("MaxDailyLossCents = %d, want 10000", cfg.Risk.MaxDailyLossCents)
	}
	// Defaults survive for untouched sections.
	if cfg.Feeds.ReconnectDelay.Duration != 5*time.Second {
		t.Errorf("ReconnectDelay = %v, want default 5s", cfg.Feeds.ReconnectDelay.Duration)
	}
	if len(cfg.Markets) != 1 || cfg.Markets[0].ID != "btc-100k" {
		t.Errorf("Markets = %+v, want one btc-100k entry", cfg.Markets)
	}
}

func TestLoadFallsBackToBuiltinCatalog(t *testing.T) {
	path := writeTempConfig(t, `mode = "simulate"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Markets) != len(DefaultMarkets()) {
		t.Fatalf("Markets = %d entries, want built-in catalog", len(cfg.Markets))
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `mode = "simulate"`)

	t.Setenv("CROSSBOOK_MAX_POSITION_SIZE", "3")
	t.Setenv("CROSSBOOK_MAX_DAILY_LOSS", "2500")
	t.Setenv("CROSSBOOK_MODE", "live")
	t.Setenv("CROSSBOOK_REDIS_ADDR", "localhost:6379")
	t.Setenv("CROSSBOOK_DETECTOR_SCAN_INTERVAL", "1s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Detector.MaxPositionSize != 3 {
		t.Errorf("MaxPositionSize = %d, want 3", cfg.Detector.MaxPositionSize)
	}
	if cfg.Risk.MaxDailyLossCents != 2500 {
		t.Errorf("MaxDailyLossCents = %d, want 2500", cfg.Risk.MaxDailyLossCents)
	}
	if cfg.Mode != "live" {
		t.Errorf("Mode = %q, want live", cfg.Mode)
	}
	if !cfg.Redis.Enabled() {
		t.Error("Redis should be enabled via env override")
	}
	if cfg.Detector.ScanInterval.Duration != time.Second {
		t.Errorf("ScanInterval = %v, want 1s", cfg.Detector.ScanInterval.Duration)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "paper"
	cfg.LogLevel = "verbose"
	cfg.Detector.ThresholdCents = 0
	cfg.Detector.MaxPositionSize = 0
	cfg.Server.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	for _, want := range []string{"unknown mode", "unknown log_level", "threshold_cents", "max_position_size", "port"} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error missing %q:\n%s", want, msg)
		}
	}
}

func TestValidateMarketEntries(t *testing.T) {
	cfg := Defaults()
	cfg.Markets = DefaultMarkets()
	cfg.Markets[0].KalshiTicker = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "kalshi_ticker") {
		t.Fatalf("expected kalshi_ticker error, got %v", err)
	}
}
