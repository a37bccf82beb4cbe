// Package app provides the top-level application lifecycle for the crossbook
// bot. It wires together all dependencies (market store, position tracker,
// opportunity queue, Redis, notifications) and runs the feed ingestors,
// detector, executor, risk monitor, and HTTP server as one goroutine group.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arbworks/crossbook/internal/arb"
	"github.com/arbworks/crossbook/internal/config"
	"github.com/arbworks/crossbook/internal/domain"
	"github.com/arbworks/crossbook/internal/executor"
	"github.com/arbworks/crossbook/internal/feed"
	"github.com/arbworks/crossbook/internal/risk"
	"github.com/arbworks/crossbook/internal/server"
	"github.com/arbworks/crossbook/internal/server/handler"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts every
// subsystem, and blocks until the context is cancelled or a subsystem fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting crossbook bot",
		slog.String("mode", a.cfg.Mode),
		slog.Int("markets", len(a.cfg.Markets)),
		slog.Int("max_position_size", a.cfg.Detector.MaxPositionSize),
		slog.Int64("max_daily_loss_cents", a.cfg.Risk.MaxDailyLossCents),
		slog.Duration("scan_interval", a.cfg.Detector.ScanInterval.Duration),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	g, ctx := errgroup.WithContext(ctx)

	// Venue feed ingestors. Each supervises its own connection and retries
	// after a fixed delay on any failure, so these only return on ctx
	// cancellation.
	kalshiFeed := feed.NewKalshiIngestor(
		a.cfg.Kalshi.WSURL,
		a.cfg.Feeds.ReconnectDelay.Duration,
		deps.Store,
		deps.QuoteCache,
		deps.Metrics,
		a.logger,
	)
	g.Go(func() error {
		return kalshiFeed.Run(ctx)
	})

	polyFeed := feed.NewPolymarketIngestor(
		a.cfg.Polymarket.WSURL,
		a.cfg.Feeds.ReconnectDelay.Duration,
		deps.Store,
		deps.QuoteCache,
		deps.Metrics,
		a.logger,
	)
	g.Go(func() error {
		return polyFeed.Run(ctx)
	})

	// Arbitrage detector.
	det := arb.NewDetector(arb.DetectorConfig{
		ScanInterval:    a.cfg.Detector.ScanInterval.Duration,
		ThresholdCents:  domain.PriceCents(a.cfg.Detector.ThresholdCents),
		MaxPositionSize: uint16(a.cfg.Detector.MaxPositionSize),
	}, deps.Store, deps.Tracker, deps.Queue, deps.SignalBus, deps.Metrics, a.logger)
	g.Go(func() error {
		return det.Run(ctx)
	})

	// Execution stage.
	exec := executor.NewExecutor(
		executor.Mode(a.cfg.Mode),
		deps.Queue,
		deps.Tracker,
		deps.SignalBus,
		deps.Notifier,
		deps.Metrics,
		a.logger,
	)
	g.Go(func() error {
		return exec.Run(ctx)
	})

	// Risk monitor.
	mon := risk.NewMonitor(risk.MonitorConfig{
		Interval:          a.cfg.Risk.Interval.Duration,
		MaxDailyLossCents: a.cfg.Risk.MaxDailyLossCents,
		AlertThrottle:     a.cfg.Risk.AlertThrottle.Duration,
	}, deps.Tracker, deps.SignalBus, deps.Notifier, deps.Metrics, a.logger)
	g.Go(func() error {
		return mon.Run(ctx)
	})

	// HTTP API server.
	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps)
	}

	return g.Wait()
}

// startHTTPServer builds the handler set, registers the server on the
// errgroup, and arranges a graceful shutdown when ctx is cancelled.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	var tail handler.StreamTailer
	if deps.Bus != nil {
		tail = deps.Bus
	}

	handlers := server.Handlers{
		Health:    handler.NewHealthHandler(a.logger),
		Status:    handler.NewStatusHandler(a.cfg.Mode, deps.Store.Len(), deps.Tracker),
		Markets:   handler.NewMarketHandler(deps.Store, a.logger),
		Positions: handler.NewPositionHandler(deps.Tracker, a.logger),
		Arb:       handler.NewArbHandler(tail, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, deps.Registry, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down crossbook bot")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
