// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/lensd/internal/api"
	"github.com/ManuGH/lensd/internal/api/middleware"
	"github.com/ManuGH/lensd/internal/bus"
	"github.com/ManuGH/lensd/internal/config"
	"github.com/ManuGH/lensd/internal/listener"
	xglog "github.com/ManuGH/lensd/internal/log"
	"github.com/ManuGH/lensd/internal/metrics"
	"github.com/ManuGH/lensd/internal/query/tracker"
	"github.com/ManuGH/lensd/internal/services"
	"github.com/ManuGH/lensd/internal/session"
	"github.com/ManuGH/lensd/internal/telemetry"
)

const tracerName = "lensd.http"

// run wires every component and serves until ctx ends.
func run(ctx context.Context, holder *config.Holder) error {
	cfg := holder.Get()
	logger := xglog.WithComponent("daemon")

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("failed to flush traces")
		}
	}()

	counters := metrics.NewRegistry()
	registry := services.NewRegistry()
	if err := registry.Register(services.MetricsServiceName, counters); err != nil {
		return err
	}

	outcomes := bus.NewMemoryBus(counters)
	sessions := session.NewStore()
	queries := tracker.New(outcomes,
		tracker.WithPublishTimeout(cfg.PublishTimeout),
		tracker.WithSessions(sessions),
	)
	requests := listener.New(registry)

	deps := api.Deps{
		Queries:  queries,
		Sessions: sessions,
		Observer: requests,
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			counters,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		deps.Gatherer = reg
		deps.HTTPMetrics = middleware.NewHTTPMetrics(reg)
	}

	apiCfg := api.Config{
		MetricsPath:    cfg.Metrics.Path,
		EnableLogging:  true,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if provider.Enabled() {
		apiCfg.TracingService = tracerName
	}
	if cfg.RateLimit.Enabled {
		apiCfg.RateLimitRPS = cfg.RateLimit.RPS
	}

	holder.OnReload(func(old, next config.Config) {
		if old.LogLevel != next.LogLevel && !xglog.SetLevel(next.LogLevel) {
			logger.Warn().Str("level", next.LogLevel).Msg("ignoring unknown log level")
		}
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.New(apiCfg, deps).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bus.NewRecorder(outcomes, counters).Run(gctx)
	})
	g.Go(func() error {
		return holder.Watch(gctx)
	})
	g.Go(func() error {
		logger.Info().
			Str(xglog.FieldEvent, "server.listening").
			Str("addr", srv.Addr).
			Msg("query API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down query API")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
