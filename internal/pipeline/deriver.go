package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"poolScope/internal/config"
	"poolScope/internal/derive"
	"poolScope/internal/model"
	"poolScope/internal/snapshot"
)

// Config controls derivation behavior.
type Config struct {
	Settings derive.Settings
	Cache    *PoolCache
	Metrics  *Metrics
}

// Deriver turns decoded snapshots into parsed banks and pools.
type Deriver struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewDeriver(cfg Config, logger *zap.Logger) *Deriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deriver{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run derives every bank and pool in snap. Pools whose banks are not in the
// snapshot are skipped; any other derivation failure aborts the run.
func (d *Deriver) Run(ctx context.Context, snap snapshot.Snapshot, feeds config.Feeds) (batch model.DerivedBatch, err error) {
	start := d.now()
	defer func() { d.cfg.Metrics.observeRun(start, err) }()

	for _, decodeErr := range snap.Errors {
		d.logger.Warn("snapshot line skipped",
			zap.Int("line", decodeErr.Line),
			zap.String("kind", decodeErr.Kind),
			zap.String("object_id", decodeErr.ObjectID),
			zap.String("error", decodeErr.Error),
		)
	}

	assets := derive.NewAssetLookup(snap.Coins)
	baseYields := derive.NewCoinValues(feeds.BaseYields)

	banks := make([]model.ParsedBank, 0, len(snap.Banks))
	for _, bank := range snap.Banks {
		asset, ok := assets.Get(bank.CoinType)
		if !ok {
			return model.DerivedBatch{}, fmt.Errorf("bank %s: %w: %s", bank.BankID, derive.ErrMissingDecimals, bank.CoinType)
		}
		parsed, err := derive.GetParsedBank(derive.BankInputs{
			Bank:       bank,
			Decimals:   asset.Decimals,
			BaseYields: baseYields,
		})
		if err != nil {
			return model.DerivedBatch{}, err
		}
		banks = append(banks, parsed)
	}
	d.cfg.Metrics.observeBanks(len(banks))

	inputs := inputsDigest(snap, feeds, d.cfg.Settings)
	poolIn := derive.PoolInputs{
		Banks:          derive.NewBankLookup(banks),
		Assets:         assets,
		Oracles:        derive.NewOraclePrices(snap.Oracles),
		PriceEstimates: derive.NewCoinValues(feeds.PriceEstimates),
		Settings:       d.cfg.Settings,
	}

	pools := make([]model.ParsedPool, 0, len(snap.Pools))
	var skipped, cached int
	for _, pool := range snap.Pools {
		select {
		case <-ctx.Done():
			return model.DerivedBatch{}, ctx.Err()
		default:
		}

		key, cacheable := poolCacheKey(pool, inputs)
		if cacheable {
			if hit, ok := d.cfg.Cache.Get(key); ok {
				cached++
				pools = append(pools, hit)
				d.cfg.Metrics.observePool(outcomeCached)
				continue
			}
		}

		poolIn.Pool = pool
		parsed, err := derive.GetParsedPool(poolIn)
		if err != nil {
			return model.DerivedBatch{}, err
		}
		if parsed == nil {
			skipped++
			d.cfg.Metrics.observePool(outcomeSkipped)
			d.logger.Info("pool skipped: coin type unresolved",
				zap.String("pool", pool.PoolID),
				zap.String("type_x", pool.Side0),
				zap.String("type_y", pool.Side1),
			)
			continue
		}

		if cacheable {
			d.cfg.Cache.Set(key, *parsed)
		}
		pools = append(pools, *parsed)
		d.cfg.Metrics.observePool(outcomeDerived)
	}
	d.cfg.Metrics.setPools(pools)

	batch = model.DerivedBatch{
		RunID:     uuid.New().String(),
		Digest:    runDigest(snap, inputs),
		DerivedAt: d.now().UTC(),
		Banks:     banks,
		Pools:     pools,
		Skipped:   skipped,
	}

	d.logger.Info("derive complete",
		zap.String("run_id", batch.RunID),
		zap.Int("banks", len(banks)),
		zap.Int("pools", len(pools)),
		zap.Int("cached", cached),
		zap.Int("skipped", skipped),
		zap.Int("decode_errors", len(snap.Errors)),
	)

	return batch, nil
}
