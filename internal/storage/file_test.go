package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	logx "taskmill/pkg/logx"
)

func TestFileStoreAppendAndRecent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	ctx := context.Background()
	base := time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC)
	for i, task := range []string{"a", "b", "c"} {
		rec := RunRecord{
			Task:     task,
			Command:  task + ".sh",
			Mode:     "background",
			Started:  base.Add(time.Duration(i) * time.Minute),
			Duration: time.Second,
		}
		if err := st.AppendRun(ctx, rec); err != nil {
			t.Fatalf("AppendRun error: %v", err)
		}
	}

	recent, err := st.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns error: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d records, want 2", len(recent))
	}
	// Newest first.
	if recent[0].Task != "c" || recent[1].Task != "b" {
		t.Fatalf("recent order = %q, %q", recent[0].Task, recent[1].Task)
	}

	if err := st.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// Reopen: the tail is replayed from disk.
	st2, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer st2.Close()
	recent, err = st2.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns after reopen error: %v", err)
	}
	if len(recent) != 3 || recent[0].Task != "c" {
		t.Fatalf("recent after reopen = %+v", recent)
	}
}

func TestOpenDisabledAndUnknown(t *testing.T) {
	t.Parallel()
	st, err := Open(Config{}, logx.Nop())
	if err != nil || st != nil {
		t.Fatalf("disabled storage = (%v, %v), want (nil, nil)", st, err)
	}
	if _, err := Open(Config{Driver: "redis"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
