package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/chain"
	"poolScope/internal/config"
	"poolScope/internal/pipeline"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Derive.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Fetch.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := pipeline.NewMetrics(reg)

	cache, err := pipeline.NewPoolCache(cfg.CacheSize)
	if err != nil {
		return err
	}
	defer cache.Close()

	chainClient, err := chain.NewClient(ctx, cfg.Fetch.RPCURL, chain.ClientConfig{
		MaxRetries:   cfg.Fetch.MaxRetries,
		RetryBackoff: cfg.Fetch.RetryBackoff,
		BatchSize:    cfg.Fetch.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	env, err := openDeriveEnv(ctx, cfg.Derive, cache, metrics, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	tick := func() {
		if _, err := fetchSnapshot(ctx, cfg.Fetch, chainClient, logger); err != nil {
			logger.Error("scheduled fetch failed", zap.Error(err))
			return
		}
		if err := env.derive(ctx); err != nil {
			logger.Error("scheduled derive failed", zap.Error(err))
		}
	}

	scheduler := cron.New(
		cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(logger))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := scheduler.AddFunc(cfg.Schedule, tick); err != nil {
		return fmt.Errorf("register schedule %q: %w", cfg.Schedule, err)
	}

	var server *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		server = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("watch start",
		zap.String("rpc", cfg.Fetch.RPCURL),
		zap.String("deployment", cfg.Fetch.Deployment.Name),
		zap.String("schedule", cfg.Schedule),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.Int64("cache_size", cfg.CacheSize),
	)

	tick()
	scheduler.Start()

	<-ctx.Done()
	logger.Info("watch stopping")
	<-scheduler.Stop().Done()

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
	}
	return nil
}
