package schedule

import "time"

// Matches reports whether the instant t satisfies the expression. The instant
// is evaluated in its own location; callers convert beforehand (Event.IsDueAt
// does so with the event's timezone).
//
// All fields combine with AND except the day-of-month/day-of-week pair: when
// both are restricted, matching either makes the day pass; a wildcard member
// of the pair leaves only the other one constraining.
func (e *Expression) Matches(t time.Time) bool {
	if !matchField(e.specs[FieldSecond-1], FieldSecond.bounds(), t.Second()) {
		return false
	}
	if !matchField(e.specs[FieldMinute-1], FieldMinute.bounds(), t.Minute()) {
		return false
	}
	if !matchField(e.specs[FieldHour-1], FieldHour.bounds(), t.Hour()) {
		return false
	}
	if !matchField(e.specs[FieldMonth-1], FieldMonth.bounds(), int(t.Month())) {
		return false
	}
	return e.dayMatches(t)
}

func (e *Expression) dayMatches(t time.Time) bool {
	domSpec := e.specs[FieldDayOfMonth-1]
	dowSpec := e.specs[FieldDayOfWeek-1]
	domWild := domSpec == Wildcard
	dowWild := dowSpec == Wildcard

	switch {
	case domWild && dowWild:
		return true
	case domWild:
		return matchField(dowSpec, FieldDayOfWeek.bounds(), int(t.Weekday()))
	case dowWild:
		return matchField(domSpec, FieldDayOfMonth.bounds(), t.Day())
	default:
		return matchField(domSpec, FieldDayOfMonth.bounds(), t.Day()) ||
			matchField(dowSpec, FieldDayOfWeek.bounds(), int(t.Weekday()))
	}
}
