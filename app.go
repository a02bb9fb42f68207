package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/yourorg/mls-search-api/http"
	"github.com/yourorg/mls-search-api/internal/audit"
	"github.com/yourorg/mls-search-api/internal/env"
	"github.com/yourorg/mls-search-api/internal/events"
	"github.com/yourorg/mls-search-api/internal/metrics"
	"github.com/yourorg/mls-search-api/internal/quota"
	"github.com/yourorg/mls-search-api/internal/redisx"
	"github.com/yourorg/mls-search-api/internal/store"
	"github.com/yourorg/mls-search-api/mls"
)

const shutdownTimeout = 10 * time.Second

// app owns every long-lived dependency of the service. Nothing is created lazily or
// held in package state.
type app struct {
	cfg      env.Config
	log      *slog.Logger
	server   *http.Server
	recorder *audit.Recorder
	redis    *redisx.Client
	store    *store.Store

	wg sync.WaitGroup
}

func newApp(ctx context.Context, cfg env.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var q mls.Quota
	if cfg.RedisAddr != "" {
		a.redis = redisx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := a.redis.Ping(ctx); err != nil {
			log.Warn("redis unreachable; quota checks will fail open", "addr", cfg.RedisAddr, "err", err)
		}
		if cfg.DailyQuota > 0 {
			q = quota.NewDaily(a.redis, cfg.DailyQuota, log.With("component", "quota"))
		}
	}

	var writer audit.Writer
	if cfg.PostgresDSN != "" {
		st, err := store.Open(cfg.PostgresDSN)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = st
		if err := st.Ping(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("ping store: %w", err)
		}
		if err := st.Migrate(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("migrate store: %w", err)
		}
		writer = st
	}

	pub := events.NewInMemory(cfg.AuditBuffer, m.AuditDropped)
	a.recorder = &audit.Recorder{
		Pub:     pub,
		Writer:  writer,
		Workers: cfg.AuditWorkers,
		Log:     log.With("component", "audit"),
		OnDrop:  m.AuditDropped,
	}

	registry := mls.NewRegistry(
		mls.NewBridge(mls.BridgeConfig{BaseURL: cfg.BridgeBaseURL, DatasetID: cfg.BridgeDatasetID, Token: cfg.BridgeToken}),
		mls.NewRMLS(mls.RMLSConfig{BaseURL: cfg.RMLSBaseURL, Token: cfg.RMLSToken}),
	)
	for _, p := range registry.All() {
		if !p.Configured() {
			log.Warn("mls provider not configured; endpoint serves demo responses", "provider", p.Name)
		}
	}
	client := mls.NewClient(mls.Options{
		Timeout:           cfg.UpstreamTimeout,
		RetryMax:          cfg.RetryMax,
		RequestsPerSecond: cfg.UpstreamRPS,
		MediaConcurrency:  cfg.MediaConcurrency,
		Quota:             q,
		Metrics:           m,
		Logger:            log,
	})

	handler := BuildRouter(RouterDeps{
		Search: httpapi.SearchDeps{
			Registry: registry,
			Client:   client,
			Events:   pub,
			Metrics:  m,
			Log:      log.With("component", "http"),
		},
		Gatherer:        reg,
		Log:             log,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	a.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// run serves until ctx is cancelled or the listener fails, then shuts down.
func (a *app) run(ctx context.Context) error {
	recCtx, stopRecorder := context.WithCancel(context.Background())
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.recorder.Run(recCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("mls-search-api listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown requested")
	case err := <-errCh:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("http shutdown", "err", err)
	}
	stopRecorder()
	a.wg.Wait()
	a.close()
	return runErr
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", "err", err)
		}
		a.redis = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close store", "err", err)
		}
		a.store = nil
	}
}
