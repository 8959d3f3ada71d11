package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"poolScope/internal/model"
)

// StateStore persists the last published run.
type StateStore interface {
	Load(ctx context.Context) (model.RunState, bool, error)
	Save(ctx context.Context, state model.RunState) error
}

// FileStateStore stores state in a local JSON file.
type FileStateStore struct {
	Path string
}

func (s *FileStateStore) Load(ctx context.Context) (model.RunState, bool, error) {
	if s == nil || s.Path == "" {
		return model.RunState{}, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.RunState{}, false, nil
		}
		return model.RunState{}, false, fmt.Errorf("read state: %w", err)
	}

	var state model.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.RunState{}, false, fmt.Errorf("parse state: %w", err)
	}
	return state, true, nil
}

func (s *FileStateStore) Save(ctx context.Context, state model.RunState) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
