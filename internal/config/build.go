package config

import (
	"fmt"
	"strings"

	"taskmill/internal/schedule"
)

// BuildSchedule compiles the task declarations into a schedule, translating
// each declaration into the corresponding fluent builder calls. The first
// builder error aborts the build so a bad task never reaches the driver.
func BuildSchedule(cfg *Config) (*schedule.Schedule, error) {
	s := schedule.NewSchedule()
	for i := range cfg.Tasks {
		t := &cfg.Tasks[i]
		if err := buildTask(s, t); err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, err)
		}
	}
	return s, nil
}

func buildTask(s *schedule.Schedule, t *TaskConfig) error {
	ev := s.Command(t.Command).Description(taskDescription(t))

	if t.Cron != "" {
		ev.Cron(t.Cron)
	} else if err := applyFrequency(ev, t); err != nil {
		return err
	}

	if t.Weekdays {
		ev.Weekdays()
	}
	if len(t.Days) > 0 {
		ev.Days(t.Days...)
	}
	if t.Timezone != "" {
		ev.Timezone(t.Timezone)
	}
	if t.User != "" {
		ev.User(t.User)
	}
	if t.Output != "" {
		ev.SendOutputTo(t.Output)
	}
	if len(t.Email) > 0 {
		ev.EmailOutputTo(t.Email...)
	}
	if t.Ping != "" {
		ev.ThenPing(t.Ping)
	}
	return ev.Err()
}

func applyFrequency(ev *schedule.Event, t *TaskConfig) error {
	switch strings.ToLower(strings.TrimSpace(t.Every)) {
	case "hourly":
		ev.Hourly()
	case "daily":
		if t.At != "" {
			ev.DailyAt(t.At)
		} else {
			ev.Daily()
		}
	case "weekly":
		switch {
		case t.Day != nil && t.At != "":
			ev.WeeklyOn(*t.Day, t.At)
		case t.Day != nil:
			ev.WeeklyOn(*t.Day, "0:0")
		default:
			ev.Weekly()
		}
	case "monthly":
		ev.Monthly()
	case "yearly":
		ev.Yearly()
	case "5min":
		ev.EveryFiveMinutes()
	case "10min":
		ev.EveryTenMinutes()
	case "30min":
		ev.EveryThirtyMinutes()
	default:
		return fmt.Errorf("unknown frequency %q", t.Every)
	}
	return nil
}

func taskDescription(t *TaskConfig) string {
	if t.Description != "" {
		return t.Description
	}
	return t.Name
}
