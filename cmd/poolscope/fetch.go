package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/chain"
	"poolScope/internal/config"
	"poolScope/internal/fetch"
	"poolScope/internal/pipeline"
	"poolScope/internal/snapshot"
)

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFetch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL, chain.ClientConfig{
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		BatchSize:    cfg.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	logger.Info("fetch start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("deployment", cfg.Deployment.Name),
		zap.Int("objects", len(cfg.Objects)),
		zap.String("out", cfg.Out),
	)

	_, err = fetchSnapshot(ctx, cfg, chainClient, logger)
	return err
}

func fetchSnapshot(ctx context.Context, cfg config.FetchConfig, source fetch.ObjectSource, logger *zap.Logger) (fetch.Summary, error) {
	writer, err := snapshot.NewWriter(cfg.Out, false)
	if err != nil {
		return fetch.Summary{}, err
	}

	runner := fetch.NewRunner(fetch.RunConfig{
		Objects: cfg.Objects,
		Types:   pipeline.ObjectTypes(cfg.Deployment),
	}, source, writer, logger)

	summary, runErr := runner.Run(ctx)
	if err := writer.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close snapshot: %w", err)
	}
	return summary, runErr
}
