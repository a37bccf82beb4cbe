package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arbworks/crossbook/internal/arb"
	"github.com/arbworks/crossbook/internal/cache/redis"
	"github.com/arbworks/crossbook/internal/config"
	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/instrumentation"
	"github.com/arbworks/crossbook/internal/market"
	"github.com/arbworks/crossbook/internal/notify"
	"github.com/arbworks/crossbook/internal/position"
)

// Dependencies bundles every dependency the application needs to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	// Core pipeline state.
	Store   *market.Store
	Tracker *position.Tracker
	Queue   *arb.Queue

	// Instrumentation.
	Registry *prometheus.Registry
	Metrics  *instrumentation.Metrics

	// Redis-backed extras. All nil when no Redis address is configured.
	Bus        *redis.SignalBus
	SignalBus  domain.SignalBus
	QuoteCache domain.QuoteCache

	// Notifications. Nil when no channel is configured.
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, err := market.NewStore(cfg.Markets)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: market store: %w", err)
	}

	registry := prometheus.NewRegistry()

	deps := &Dependencies{
		Store:    store,
		Tracker:  position.NewTracker(),
		Queue:    arb.NewQueue(),
		Registry: registry,
		Metrics:  instrumentation.NewMetrics(registry),
	}
	closers = append(closers, deps.Queue.Close)

	// --- Redis (optional) ---
	if cfg.Redis.Enabled() {
		client, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", slog.String("error", err.Error()))
			}
		})

		deps.Bus = redis.NewSignalBus(client)
		deps.SignalBus = deps.Bus
		deps.QuoteCache = redis.NewQuoteCache(client)
		logger.InfoContext(ctx, "redis connected", slog.String("addr", cfg.Redis.Addr))
	} else {
		logger.InfoContext(ctx, "redis disabled, running without signal bus and quote cache")
	}

	// --- Notifications (optional) ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)
		logger.InfoContext(ctx, "notifications enabled", slog.Int("senders", len(senders)))
	}

	return deps, cleanup, nil
}
