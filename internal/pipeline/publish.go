package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"poolScope/internal/model"
	"poolScope/internal/storage"
)

// Publish writes batch to sink unless state shows the same inputs were already
// published. It reports whether the batch was written.
func Publish(ctx context.Context, batch model.DerivedBatch, sink storage.Sink, state StateStore, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		return false, fmt.Errorf("sink is nil")
	}

	if state != nil {
		last, ok, err := state.Load(ctx)
		if err != nil {
			return false, err
		}
		if ok && last.Digest == batch.Digest {
			logger.Info("inputs unchanged, publish skipped",
				zap.String("digest", batch.Digest),
				zap.String("last_run_id", last.RunID),
			)
			return false, nil
		}
	}

	if err := sink.PutBatch(ctx, batch); err != nil {
		return false, fmt.Errorf("publish batch: %w", err)
	}

	if state != nil {
		if err := state.Save(ctx, model.RunState{
			RunID:     batch.RunID,
			Digest:    batch.Digest,
			DerivedAt: batch.DerivedAt,
		}); err != nil {
			return true, err
		}
	}

	logger.Info("batch published",
		zap.String("run_id", batch.RunID),
		zap.String("digest", batch.Digest),
		zap.Int("banks", len(batch.Banks)),
		zap.Int("pools", len(batch.Pools)),
	)
	return true, nil
}
