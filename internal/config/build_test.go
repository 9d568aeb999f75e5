package config

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestBuildScheduleTranslatesDeclarations(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Tasks: []TaskConfig{
			{Name: "inspire", Command: "php artisan inspire", Every: "hourly"},
			{Name: "backup", Command: "backup.sh", Every: "daily", At: "2:30"},
			{Name: "report", Command: "report.sh", Every: "weekly", Day: intPtr(1), At: "8:0"},
			{Name: "raw", Command: "cleanup.sh", Cron: "0 0 3 * * *"},
			{Name: "poll", Command: "poll.sh", Every: "5min", Weekdays: true},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	s, err := BuildSchedule(cfg)
	if err != nil {
		t.Fatalf("BuildSchedule error: %v", err)
	}
	events := s.Events()
	if len(events) != 5 {
		t.Fatalf("events = %d, want 5", len(events))
	}

	want := []string{
		"0 0 * * * *",
		"0 30 2 * * *",
		"0 0 8 * * 1",
		"0 0 3 * * *",
		"0 */5 * * * 1-5",
	}
	for i, w := range want {
		if got := events[i].Expression().String(); got != w {
			t.Fatalf("events[%d] expression = %q, want %q", i, got, w)
		}
	}
	if got := events[0].Describe(); got != "inspire" {
		t.Fatalf("description defaults to name, got %q", got)
	}
}

func TestBuildScheduleWiresSideEffects(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Tasks: []TaskConfig{{
			Name:    "backup",
			Command: "backup.sh",
			Every:   "daily",
			Output:  "/var/log/backup.log",
			Email:   []string{"ops@example.com"},
			Ping:    "https://example.com/heartbeat",
			User:    "deploy",
		}},
	}
	s, err := BuildSchedule(cfg)
	if err != nil {
		t.Fatalf("BuildSchedule error: %v", err)
	}
	ev := s.Events()[0]
	if got := ev.Output(); got != "/var/log/backup.log" {
		t.Fatalf("output = %q", got)
	}
	if got := ev.RunAsUser(); got != "deploy" {
		t.Fatalf("user = %q", got)
	}
	// One callback for the email, one for the ping.
	if got := len(ev.Callbacks()); got != 2 {
		t.Fatalf("callbacks = %d, want 2", got)
	}
}

func TestBuildScheduleRejectsUnknownFrequency(t *testing.T) {
	t.Parallel()
	cfg := &Config{Tasks: []TaskConfig{{Name: "x", Command: "true", Every: "fortnightly"}}}
	if _, err := BuildSchedule(cfg); err == nil || !strings.Contains(err.Error(), "fortnightly") {
		t.Fatalf("err = %v, want unknown frequency error", err)
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing name", Config{Tasks: []TaskConfig{{Command: "true", Every: "hourly"}}}},
		{"missing command", Config{Tasks: []TaskConfig{{Name: "x", Every: "hourly"}}}},
		{"no schedule", Config{Tasks: []TaskConfig{{Name: "x", Command: "true"}}}},
		{"both cron and every", Config{Tasks: []TaskConfig{{Name: "x", Command: "true", Cron: "* * * * *", Every: "hourly"}}}},
		{"email without output", Config{Tasks: []TaskConfig{{Name: "x", Command: "true", Every: "hourly", Email: []string{"a@x.com"}}}}},
		{"duplicate names", Config{Tasks: []TaskConfig{
			{Name: "x", Command: "true", Every: "hourly"},
			{Name: "x", Command: "true", Every: "daily"},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
