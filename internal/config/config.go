package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FetchConfig holds configuration for the fetch command.
type FetchConfig struct {
	RPCURL       string
	Deployment   Deployment
	Objects      []string
	Out          string
	BatchSize    int
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// DeriveConfig holds configuration for the derive command.
type DeriveConfig struct {
	In         string
	Out        string
	Errors     string
	FeedsFile  string
	Prices     map[string]string
	Deployment Deployment
	PGDSN      string
	SQLitePath string
	StateFile  string
	LogLevel   string
}

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	Fetch       FetchConfig
	Derive      DeriveConfig
	Schedule    string
	MetricsAddr string
	CacheSize   int64
}

// LoadFetch merges config file, environment variables, and flags into FetchConfig.
func LoadFetch(cfgFile string, flags *pflag.FlagSet) (FetchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":           "./data/snapshot.jsonl",
		"batch-size":    50,
		"max-retries":   5,
		"retry-backoff": 500 * time.Millisecond,
	})
	if err != nil {
		return FetchConfig{}, err
	}
	return fetchFromViper(v)
}

// LoadDerive merges config file, environment variables, and flags into DeriveConfig.
func LoadDerive(cfgFile string, flags *pflag.FlagSet) (DeriveConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":    "./data/parsed.jsonl",
		"errors": "./data/snapshot_errors.jsonl",
	})
	if err != nil {
		return DeriveConfig{}, err
	}
	return deriveFromViper(v)
}

// LoadWatch merges config file, environment variables, and flags into WatchConfig.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":           "./data/parsed.jsonl",
		"snapshot":      "./data/snapshot.jsonl",
		"errors":        "./data/snapshot_errors.jsonl",
		"batch-size":    50,
		"max-retries":   5,
		"retry-backoff": 500 * time.Millisecond,
		"schedule":      "@every 1m",
		"cache-size":    int64(10000),
	})
	if err != nil {
		return WatchConfig{}, err
	}

	fetchCfg, err := fetchFromViper(v)
	if err != nil {
		return WatchConfig{}, err
	}
	fetchCfg.Out = v.GetString("snapshot")

	deriveCfg, err := deriveFromViper(v)
	if err != nil {
		return WatchConfig{}, err
	}
	deriveCfg.In = fetchCfg.Out

	return WatchConfig{
		Fetch:       fetchCfg,
		Derive:      deriveCfg,
		Schedule:    v.GetString("schedule"),
		MetricsAddr: v.GetString("metrics-addr"),
		CacheSize:   v.GetInt64("cache-size"),
	}, nil
}

// LoadDotEnv loads environment variables from path when the file exists.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("deployment", "primary")
	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func fetchFromViper(v *viper.Viper) (FetchConfig, error) {
	dep, err := loadDeployment(v, v.GetString("deployment"))
	if err != nil {
		return FetchConfig{}, err
	}

	objects := getStringSlice(v, "object")
	if len(objects) == 0 {
		objects = dep.Objects
	}

	return FetchConfig{
		RPCURL:       v.GetString("rpc"),
		Deployment:   dep,
		Objects:      objects,
		Out:          v.GetString("out"),
		BatchSize:    v.GetInt("batch-size"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

func deriveFromViper(v *viper.Viper) (DeriveConfig, error) {
	dep, err := loadDeployment(v, v.GetString("deployment"))
	if err != nil {
		return DeriveConfig{}, err
	}

	return DeriveConfig{
		In:         v.GetString("in"),
		Out:        v.GetString("out"),
		Errors:     v.GetString("errors"),
		FeedsFile:  v.GetString("feeds"),
		Prices:     getStringMap(v, "price"),
		Deployment: dep,
		PGDSN:      v.GetString("pg-dsn"),
		SQLitePath: v.GetString("sqlite"),
		StateFile:  v.GetString("state-file"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
		return out
	case []string:
		return parseStringMap(strings.Join(typed, ","))
	case string:
		return parseStringMap(typed)
	default:
		return map[string]string{}
	}
}

// parseStringMap parses "key=value" pairs separated by commas. Keys may contain
// "::" and generic brackets, values may not contain commas.
func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
