package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"poolScope/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "poolscope",
		Short:        "Pool and lending bank metrics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			return config.LoadDotEnv(envFile)
		},
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("env-file", ".env", "dotenv file loaded before config")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Snapshot pool, bank, oracle and coin objects",
		RunE:  runFetch,
	}
	addFetchFlags(fetchCmd)
	fetchCmd.Flags().String("out", "./data/snapshot.jsonl", "output snapshot JSONL")
	root.AddCommand(fetchCmd)

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive pool and bank metrics from a snapshot",
		RunE:  runDerive,
	}
	deriveCmd.Flags().String("in", "", "input snapshot JSONL")
	deriveCmd.Flags().String("out", "./data/parsed.jsonl", "output parsed metrics JSONL")
	addDeriveFlags(deriveCmd)
	root.AddCommand(deriveCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Fetch and derive on a schedule",
		RunE:  runWatch,
	}
	addFetchFlags(watchCmd)
	watchCmd.Flags().String("snapshot", "./data/snapshot.jsonl", "snapshot JSONL written by each fetch")
	watchCmd.Flags().String("out", "./data/parsed.jsonl", "output parsed metrics JSONL")
	addDeriveFlags(watchCmd)
	watchCmd.Flags().String("schedule", "@every 1m", "cron schedule")
	watchCmd.Flags().String("metrics-addr", "", "listen address for /metrics, empty disables")
	watchCmd.Flags().Int64("cache-size", 10000, "derived pool cache size")
	root.AddCommand(watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "fullnode JSON-RPC URL")
	cmd.Flags().String("deployment", "primary", "deployment name from config")
	cmd.Flags().StringSlice("object", nil, "object ids (comma-separated), defaults to the deployment's objects")
	cmd.Flags().Int("batch-size", 50, "objects per RPC call")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func addDeriveFlags(cmd *cobra.Command) {
	if cmd.Flags().Lookup("deployment") == nil {
		cmd.Flags().String("deployment", "primary", "deployment name from config")
	}
	if cmd.Flags().Lookup("log-level") == nil {
		cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	}
	cmd.Flags().String("errors", "./data/snapshot_errors.jsonl", "snapshot decode errors JSONL")
	cmd.Flags().String("feeds", "", "YAML file with base yields and price estimates")
	cmd.Flags().StringSlice("price", nil, "price estimate overrides (comma-separated coin_type=price)")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("sqlite", "", "SQLite history database path")
	cmd.Flags().String("state-file", "", "optional local state file for publish tracking")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
