package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/config"
	"poolScope/internal/model"
	"poolScope/internal/pipeline"
	"poolScope/internal/snapshot"
	"poolScope/internal/storage"
	"poolScope/internal/storage/postgres"
	"poolScope/internal/storage/sqlite"
)

func runDerive(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDerive(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := openDeriveEnv(ctx, cfg, nil, nil, logger)
	if err != nil {
		return err
	}
	defer env.Close()

	logger.Info("derive start",
		zap.String("input", cfg.In),
		zap.String("deployment", cfg.Deployment.Name),
		zap.String("out", cfg.Out),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("sqlite", cfg.SQLitePath),
	)

	return env.derive(ctx)
}

// deriveEnv holds everything one derive run needs. It is reused across
// scheduled runs by watch.
type deriveEnv struct {
	cfg     config.DeriveConfig
	feeds   config.Feeds
	deriver *pipeline.Deriver
	sink    storage.Sink
	state   pipeline.StateStore
	logger  *zap.Logger
	closers []func()
}

func openDeriveEnv(ctx context.Context, cfg config.DeriveConfig, cache *pipeline.PoolCache, metrics *pipeline.Metrics, logger *zap.Logger) (*deriveEnv, error) {
	feeds, err := config.LoadFeeds(cfg.FeedsFile)
	if err != nil {
		return nil, err
	}
	feeds, err = feeds.WithPrices(cfg.Prices)
	if err != nil {
		return nil, err
	}

	settings, err := pipeline.NewSettings(cfg.Deployment)
	if err != nil {
		return nil, err
	}

	env := &deriveEnv{
		cfg:    cfg,
		feeds:  feeds,
		logger: logger,
		deriver: pipeline.NewDeriver(pipeline.Config{
			Settings: settings,
			Cache:    cache,
			Metrics:  metrics,
		}, logger),
	}

	sinks := storage.MultiSink{storage.NewJsonlStorage(cfg.Out)}

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		env.closers = append(env.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			env.Close()
			return nil, err
		}
		sinks = append(sinks, store)
	}

	if cfg.SQLitePath != "" {
		recorder, err := sqlite.NewRecorder(cfg.SQLitePath, logger)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.closers = append(env.closers, func() { _ = recorder.Close() })
		sinks = append(sinks, recorder)
	}
	env.sink = sinks

	switch {
	case cfg.StateFile != "":
		env.state = &pipeline.FileStateStore{Path: cfg.StateFile}
	case store != nil:
		env.state = &pipeline.DBStateStore{Store: store, Name: "derive:" + cfg.Deployment.Name}
	}

	return env, nil
}

func (e *deriveEnv) derive(ctx context.Context) error {
	snap, err := snapshot.Read(e.cfg.In)
	if err != nil {
		return err
	}
	if err := e.writeDecodeErrors(snap.Errors); err != nil {
		return err
	}

	batch, err := e.deriver.Run(ctx, snap, e.feeds)
	if err != nil {
		return err
	}

	_, err = pipeline.Publish(ctx, batch, e.sink, e.state, e.logger)
	return err
}

func (e *deriveEnv) writeDecodeErrors(errs []model.DecodeError) error {
	if len(errs) == 0 || e.cfg.Errors == "" {
		return nil
	}
	writer, err := snapshot.NewWriter(e.cfg.Errors, true)
	if err != nil {
		return err
	}
	for _, decodeErr := range errs {
		if err := writer.Write(decodeErr); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

func (e *deriveEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
