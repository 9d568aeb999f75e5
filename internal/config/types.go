package config

import (
	"fmt"
	"strings"
)

// Config is the root of taskmill's configuration file (YAML or JSON).
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Driver  DriverConfig  `json:"driver"`

	Storage *StorageConfig `json:"storage,omitempty"`
	Notify  *NotifyConfig  `json:"notify,omitempty"`

	Tasks []TaskConfig `json:"tasks"`
}

type LoggingConfig struct {
	Level   string `json:"level,omitempty"`
	Console bool   `json:"console"`
	File    string `json:"file,omitempty"`
}

// DriverConfig controls the tick loop that polls the schedule.
type DriverConfig struct {
	// Timezone is the IANA zone ticks are evaluated in and the default zone
	// for tasks that set none. Empty means the process-local zone.
	Timezone string `json:"timezone,omitempty"`

	// Tick is a robfig/cron spec (or descriptor) for the evaluation tick.
	// Default: "* * * * *" (once per minute).
	Tick string `json:"tick,omitempty"`

	// WorkDir is the working directory spawned commands run in.
	WorkDir string `json:"work_dir,omitempty"`
}

// StorageConfig controls the optional run-history layer.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./taskmill.db" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
	HistorySize int    `json:"history_size,omitempty"`
}

// NotifyConfig selects the outbound collaborators events can use.
type NotifyConfig struct {
	SMTP     *SMTPConfig     `json:"smtp,omitempty"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`
	Ping     *PingConfig     `json:"ping,omitempty"`
}

type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	From     string `json:"from"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type PingConfig struct {
	Timeout    string `json:"timeout,omitempty"` // Go duration string
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// TaskConfig declares one scheduled command. Exactly one of Cron or Every
// must be set; the remaining fields translate 1:1 to builder calls.
type TaskConfig struct {
	Name    string `json:"name"`
	Command string `json:"command"`

	// Cron is a raw 5- or 6-field expression
	// ("<second> <minute> <hour> <day-of-month> <month> <day-of-week>").
	Cron string `json:"cron,omitempty"`

	// Every is a named frequency: hourly, daily, weekly, monthly, yearly,
	// 5min, 10min, 30min.
	Every string `json:"every,omitempty"`

	// At is the "H:M" time of day for daily and weekly frequencies.
	At string `json:"at,omitempty"`

	// Day is the weekday (0 = Sunday) for the weekly frequency.
	Day *int `json:"day,omitempty"`

	// Days restricts any frequency to the listed weekdays (0 = Sunday).
	Days []int `json:"days,omitempty"`

	// Weekdays restricts any frequency to Monday through Friday.
	Weekdays bool `json:"weekdays,omitempty"`

	Timezone    string   `json:"timezone,omitempty"`
	User        string   `json:"user,omitempty"`
	Output      string   `json:"output,omitempty"`
	Email       []string `json:"email,omitempty"`
	Ping        string   `json:"ping,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Validate checks cross-field constraints that the strict decoder cannot.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for i := range c.Tasks {
		t := &c.Tasks[i]
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("tasks[%d]: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("tasks[%d]: duplicate task name %q", i, name)
		}
		seen[name] = true
		if strings.TrimSpace(t.Command) == "" {
			return fmt.Errorf("task %q: command is required", name)
		}
		if t.Cron == "" && t.Every == "" {
			return fmt.Errorf("task %q: one of cron or every is required", name)
		}
		if t.Cron != "" && t.Every != "" {
			return fmt.Errorf("task %q: cron and every are mutually exclusive", name)
		}
		if len(t.Email) > 0 && strings.TrimSpace(t.Output) == "" {
			return fmt.Errorf("task %q: email requires output (cannot email discarded output)", name)
		}
	}
	return nil
}
