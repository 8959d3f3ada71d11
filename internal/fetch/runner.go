package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"poolScope/internal/chain"
	"poolScope/internal/model"
)

// ObjectSource reads objects and coin metadata from the chain.
type ObjectSource interface {
	GetObjects(ctx context.Context, ids []string) ([]chain.Object, error)
	CoinMetadata(ctx context.Context, coinType string) (chain.CoinMeta, error)
}

// RecordWriter receives snapshot records.
type RecordWriter interface {
	Write(value interface{}) error
}

// RunConfig holds runtime settings for a fetch.
type RunConfig struct {
	Objects []string
	Types   chain.ObjectTypes
}

// Summary counts what a fetch wrote.
type Summary struct {
	Objects int
	Pools   int
	Banks   int
	Oracles int
	Coins   int
	Skipped int
	Failed  int
}

// Runner snapshots the configured objects, plus metadata for every coin
// referenced by a bank.
type Runner struct {
	cfg    RunConfig
	source ObjectSource
	out    RecordWriter
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source ObjectSource, out RecordWriter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		source: source,
		out:    out,
		logger: logger,
		now:    time.Now,
	}
}

// Run fetches one snapshot.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	if r.source == nil {
		return summary, fmt.Errorf("object source is nil")
	}
	if r.out == nil {
		return summary, fmt.Errorf("record writer is nil")
	}

	ids, err := chain.ParseObjectIDs(r.cfg.Objects)
	if err != nil {
		return summary, err
	}
	if len(ids) == 0 {
		return summary, fmt.Errorf("at least one object id is required")
	}

	r.logger.Info("fetch objects", zap.Int("objects", len(ids)))
	objects, err := r.source.GetObjects(ctx, ids)
	if err != nil {
		return summary, fmt.Errorf("get objects: %w", err)
	}
	summary.Objects = len(objects)

	fetchedAt := r.now()
	coinTypes := make(map[string]struct{})
	for _, obj := range objects {
		rec, ok, err := chain.ToSnapshot(obj, r.cfg.Types, fetchedAt)
		if err != nil {
			summary.Failed++
			r.logger.Warn("object decode failed", zap.Error(err), zap.String("object_id", obj.ObjectID))
			continue
		}
		if !ok {
			summary.Skipped++
			r.logger.Debug("object skipped: unrelated type", zap.String("object_id", obj.ObjectID), zap.String("type", obj.Type))
			continue
		}

		switch rec.Kind {
		case model.KindPool:
			summary.Pools++
		case model.KindBank:
			summary.Banks++
			var bank model.BankRecord
			if err := json.Unmarshal(rec.Data, &bank); err == nil && bank.CoinType != "" {
				coinTypes[bank.CoinType] = struct{}{}
			}
		case model.KindOracle:
			summary.Oracles++
		}

		if err := r.out.Write(rec); err != nil {
			return summary, fmt.Errorf("write %s %s: %w", rec.Kind, rec.ObjectID, err)
		}
	}

	sorted := make([]string, 0, len(coinTypes))
	for coinType := range coinTypes {
		sorted = append(sorted, coinType)
	}
	sort.Strings(sorted)

	for _, coinType := range sorted {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		meta, err := r.source.CoinMetadata(ctx, coinType)
		if err != nil {
			return summary, fmt.Errorf("coin metadata %s: %w", coinType, err)
		}
		rec, err := chain.CoinSnapshot(meta, fetchedAt)
		if err != nil {
			return summary, err
		}
		if err := r.out.Write(rec); err != nil {
			return summary, fmt.Errorf("write coin %s: %w", coinType, err)
		}
		summary.Coins++
	}

	r.logger.Info("fetch complete",
		zap.Int("objects", summary.Objects),
		zap.Int("pools", summary.Pools),
		zap.Int("banks", summary.Banks),
		zap.Int("oracles", summary.Oracles),
		zap.Int("coins", summary.Coins),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}
