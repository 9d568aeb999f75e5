package schedule

import "time"

// Schedule is an ordered collection of events. It is a plain registration
// surface: callers add events before handing the schedule to the driver, and
// the driver only reads it afterwards.
type Schedule struct {
	events []*Event
}

func NewSchedule() *Schedule { return &Schedule{} }

// Command registers a new event for the given command template and returns
// it for fluent chaining.
func (s *Schedule) Command(command string) *Event {
	ev := NewEvent(command)
	s.events = append(s.events, ev)
	return ev
}

// Add registers an already-built event.
func (s *Schedule) Add(ev *Event) *Schedule {
	s.events = append(s.events, ev)
	return s
}

// Events returns the registered events in insertion order.
func (s *Schedule) Events() []*Event { return s.events }

// DueAt returns every event whose expression and gating predicates pass at
// the given instant.
func (s *Schedule) DueAt(now time.Time) []*Event {
	var due []*Event
	for _, ev := range s.events {
		if ev.Err() != nil {
			continue
		}
		if ev.IsDueAt(now) {
			due = append(due, ev)
		}
	}
	return due
}

// Err returns the first builder error found across all events, if any.
func (s *Schedule) Err() error {
	for _, ev := range s.events {
		if err := ev.Err(); err != nil {
			return err
		}
	}
	return nil
}
