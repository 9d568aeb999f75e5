package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "taskmill/pkg/logx"
)

// fileStore is a dependency-free persistence backend: an append-only JSON
// Lines file plus an in-memory tail for RecentRuns.
type fileStore struct {
	log logx.Logger

	mu   sync.Mutex
	file *os.File

	tail    []RunRecord
	maxTail int
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	maxTail := cfg.historySize()
	tail, err := loadTail(path, maxTail)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &fileStore{log: log, file: f, tail: tail, maxTail: maxTail}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *fileStore) AppendRun(ctx context.Context, r RunRecord) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return errors.New("run history file closed")
	}
	if err := json.NewEncoder(s.file).Encode(r); err != nil {
		return err
	}
	s.tail = append(s.tail, r)
	if len(s.tail) > s.maxTail {
		s.tail = s.tail[len(s.tail)-s.maxTail:]
	}
	return nil
}

func (s *fileStore) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.tail) {
		limit = len(s.tail)
	}
	// Newest first.
	out := make([]RunRecord, 0, limit)
	for i := len(s.tail) - 1; i >= len(s.tail)-limit; i-- {
		out = append(out, s.tail[i])
	}
	return out, nil
}

// loadTail replays the JSONL file keeping only the newest maxTail records.
// Unparseable lines are skipped so a torn write cannot poison startup.
func loadTail(path string, maxTail int) ([]RunRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tail []RunRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r RunRecord
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		tail = append(tail, r)
		if len(tail) > maxTail {
			tail = tail[len(tail)-maxTail:]
		}
	}
	return tail, sc.Err()
}
