package storage

import (
	"context"
	"errors"

	"poolScope/internal/model"
)

// Sink receives derived batches.
type Sink interface {
	PutBatch(ctx context.Context, batch model.DerivedBatch) error
}

// MultiSink writes each batch to every sink in order and stops at the first
// failure.
type MultiSink []Sink

func (m MultiSink) PutBatch(ctx context.Context, batch model.DerivedBatch) error {
	if len(m) == 0 {
		return errors.New("no sinks configured")
	}
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}
