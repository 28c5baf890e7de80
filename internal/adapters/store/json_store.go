// internal/adapters/store/json_store.go

// Package store persists the run state as a single JSON document
// (targets.json). Writes are atomic at batch granularity: the document
// is staged to a temp file and renamed into place, so a reader never
// observes a partially written state.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"applyswarm/internal/core/domain"
	"applyswarm/internal/platform/logx"
)

// JSONStore implements ports.StateStore on a single JSON file.
type JSONStore struct {
	path   string
	logger logx.Logger
}

// NewJSONStore creates a store backed by the given file path.
func NewJSONStore(path string, logger logx.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logger.With("component", "state-store"),
	}
}

// Load reads and validates the run state. A missing file maps to
// domain.ErrStateNotFound; an invalid document or wrong cardinality maps
// to domain.ErrStateMalformed (structural failure, not a crash).
func (s *JSONStore) Load(ctx context.Context) (*domain.RunState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("read run state %s: %w", s.path, err)
	}

	if err := validateDocument(data); err != nil {
		s.logger.Warn("run state failed schema validation", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrStateMalformed, err)
	}

	var rs domain.RunState
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStateMalformed, err)
	}

	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStateMalformed, err)
	}

	return &rs, nil
}

// Save atomically overwrites the run state.
func (s *JSONStore) Save(ctx context.Context, rs *domain.RunState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rs.Refresh()

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	data = append(data, '\n')

	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	s.logger.Debug("run state persisted",
		"path", s.path,
		"attempt", rs.Attempt,
		"complete", rs.Summary.Complete,
		"blocked", rs.Summary.Blocked,
		"incomplete", rs.Summary.Incomplete,
	)
	return nil
}

// writeAtomic stages data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".applyswarm-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}
