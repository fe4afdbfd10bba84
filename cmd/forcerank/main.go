package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MikeSquared-Agency/ForceRank/internal/api"
	"github.com/MikeSquared-Agency/ForceRank/internal/config"
	"github.com/MikeSquared-Agency/ForceRank/internal/dashboard"
	"github.com/MikeSquared-Agency/ForceRank/internal/hermes"
	"github.com/MikeSquared-Agency/ForceRank/internal/metrics"
	"github.com/MikeSquared-Agency/ForceRank/internal/store"
	"github.com/MikeSquared-Agency/ForceRank/internal/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing (optional)
	tp, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:  "forcerank",
		Enabled:      cfg.Tracing.Enabled,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		Insecure:     cfg.Tracing.Insecure,
	}, logger)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	// Data source
	src, closeSource, err := store.Open(ctx, cfg.Dataset.Source, cfg.Dataset.CSVPath, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to open dataset source", "source", cfg.Dataset.Source, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	svc := dashboard.NewService(src, hermesClient, m, logger)
	if _, err := svc.Reload(ctx); err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	if err := svc.Subscribe(ctx, 30*time.Second); err != nil {
		logger.Warn("failed to subscribe to reload requests", "error", err)
	}

	refresher := dashboard.NewRefresher(svc, cfg.Dataset.RefreshInterval(), logger)
	refresher.Start(ctx)
	defer refresher.Stop()
	if cfg.Dataset.RefreshInterval() > 0 {
		logger.Info("dataset refresher started", "interval", cfg.Dataset.RefreshInterval())
	}

	// API server
	router := api.NewRouter(svc, api.Defaults{
		Weights:   cfg.Scoring.Weights,
		Directive: cfg.Scoring.Directive(),
		PageSize:  cfg.Scoring.PageSize,
	}, cfg.Server.AdminToken, cfg.Server.RateLimitPerMin, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(reg),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}
