// internal/adapters/audit/audit.go

// Package audit writes the append-only audit trail: one JSONL artifact
// per attempt, deterministically named attempt_<n>.log, decoupled from
// the live run state. The hotfix classifier consumes it between
// attempts; operators read it instead of babysitting the run.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"applyswarm/internal/core/ports"
	"applyswarm/internal/platform/logx"
)

// FileLog implements ports.AuditLog on a directory of JSONL files.
type FileLog struct {
	dir    string
	logger logx.Logger

	mu sync.Mutex
}

// NewFileLog creates an audit log rooted at dir.
func NewFileLog(dir string, logger logx.Logger) *FileLog {
	return &FileLog{
		dir:    dir,
		logger: logger.With("component", "audit-log"),
	}
}

// ArtifactPath returns the deterministic artifact name for an attempt.
func (l *FileLog) ArtifactPath(attempt int) string {
	return filepath.Join(l.dir, fmt.Sprintf("attempt_%d.log", attempt))
}

// Append writes one record to the attempt's artifact. Records are never
// rewritten; the file is open-append only.
func (l *FileLog) Append(rec ports.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir %s: %w", l.dir, err)
	}

	path := l.ArtifactPath(rec.Attempt)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open audit artifact %s: %w", path, err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append audit record to %s: %w", path, err)
	}
	return nil
}

// Records reads the attempt's artifact in write order. A missing
// artifact yields no records; corrupt lines are skipped with a warning
// so one bad write cannot blind the classifier.
func (l *FileLog) Records(attempt int) ([]ports.AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.ArtifactPath(attempt)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []ports.AuditRecord{}, nil
		}
		return nil, fmt.Errorf("open audit artifact %s: %w", path, err)
	}
	defer f.Close()

	var out []ports.AuditRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec ports.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			l.logger.Warn("skipping corrupt audit record",
				"artifact", path,
				"error", err.Error(),
			)
			continue
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit artifact %s: %w", path, err)
	}
	return out, nil
}
