package pipeline

import (
	"context"

	"poolScope/internal/model"
	"poolScope/internal/storage/postgres"
)

// DBStateStore stores state in the derive_state table.
type DBStateStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (model.RunState, bool, error) {
	if s == nil || s.Store == nil {
		return model.RunState{}, false, nil
	}
	return s.Store.LoadState(ctx, s.Name)
}

func (s *DBStateStore) Save(ctx context.Context, state model.RunState) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveState(ctx, s.Name, state)
}
