package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
	HistorySize int           // max records returned by RecentRuns; 0 means 200
}

// RunRecord captures one execution of a scheduled event.
// Keep it compact and schema-stable.
type RunRecord struct {
	Task     string        `json:"task"`
	Command  string        `json:"command"`
	Mode     string        `json:"mode"` // "foreground" | "background"
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

func (c Config) historySize() int {
	if c.HistorySize > 0 {
		return c.HistorySize
	}
	return 200
}
