package schedule

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, raw string) *Expression {
	t.Helper()
	e, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", raw, err)
	}
	return e
}

func utc(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestMatchesFieldKinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		expr string
		at   time.Time
		want bool
	}{
		{"all wildcards", "* * * * * *", utc(2024, time.March, 15, 13, 37, 42), true},
		{"exact second", "30 * * * * *", utc(2024, time.March, 15, 13, 37, 30), true},
		{"wrong second", "30 * * * * *", utc(2024, time.March, 15, 13, 37, 31), false},
		{"minute list", "0 0,15,30,45 * * * *", utc(2024, time.March, 15, 13, 30, 0), true},
		{"minute list miss", "0 0,15,30,45 * * * *", utc(2024, time.March, 15, 13, 31, 0), false},
		{"hour range", "0 0 9-17 * * *", utc(2024, time.March, 15, 12, 0, 0), true},
		{"hour range edge", "0 0 9-17 * * *", utc(2024, time.March, 15, 17, 0, 0), true},
		{"hour range miss", "0 0 9-17 * * *", utc(2024, time.March, 15, 18, 0, 0), false},
		{"minute step", "0 */15 * * * *", utc(2024, time.March, 15, 13, 45, 0), true},
		{"minute step miss", "0 */15 * * * *", utc(2024, time.March, 15, 13, 50, 0), false},
		{"range step", "0 10-20/5 * * * *", utc(2024, time.March, 15, 13, 15, 0), true},
		{"range step offset miss", "0 10-20/5 * * * *", utc(2024, time.March, 15, 13, 12, 0), false},
		{"range step above range", "0 10-20/5 * * * *", utc(2024, time.March, 15, 13, 25, 0), false},
		{"month restricted", "0 0 0 * 3 *", utc(2024, time.March, 1, 0, 0, 0), true},
		{"month restricted miss", "0 0 0 * 3 *", utc(2024, time.April, 1, 0, 0, 0), false},
		{"out-of-domain value never matches", "0 75 * * * *", utc(2024, time.March, 15, 13, 15, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustParse(t, tt.expr)
			if got := e.Matches(tt.at); got != tt.want {
				t.Fatalf("Matches(%q, %v) = %v, want %v", tt.expr, tt.at, got, tt.want)
			}
		})
	}
}

// "0 0 0 1 * 1" is midnight on the 1st of the month OR any Monday. When both
// day fields are restricted, either one matching makes the day pass.
func TestDayOfMonthDayOfWeekUnion(t *testing.T) {
	t.Parallel()
	e := mustParse(t, "0 0 0 1 * 1")

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday and the 1st", utc(2024, time.January, 1, 0, 0, 0), true},
		{"monday, not the 1st", utc(2024, time.January, 8, 0, 0, 0), true},
		{"the 1st, not monday", utc(2024, time.February, 1, 0, 0, 0), true},
		{"neither", utc(2024, time.January, 9, 0, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Matches(tt.at); got != tt.want {
				t.Fatalf("Matches(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestDayFieldsWildcardConstrainsOnlyRestricted(t *testing.T) {
	t.Parallel()

	// Day-of-month wildcard: only day-of-week constrains.
	dow := mustParse(t, "0 0 0 * * 1")
	if !dow.Matches(utc(2024, time.January, 8, 0, 0, 0)) {
		t.Fatal("expected monday to match dow-only expression")
	}
	if dow.Matches(utc(2024, time.February, 1, 0, 0, 0)) {
		t.Fatal("expected non-monday 1st to miss dow-only expression")
	}

	// Day-of-week wildcard: only day-of-month constrains.
	dom := mustParse(t, "0 0 0 1 * *")
	if !dom.Matches(utc(2024, time.February, 1, 0, 0, 0)) {
		t.Fatal("expected the 1st to match dom-only expression")
	}
	if dom.Matches(utc(2024, time.January, 8, 0, 0, 0)) {
		t.Fatal("expected monday the 8th to miss dom-only expression")
	}
}

func TestMatchesIsPure(t *testing.T) {
	t.Parallel()
	e := mustParse(t, "0 30 10 * * 1-5")
	at := utc(2024, time.January, 3, 10, 30, 0)
	first := e.Matches(at)
	second := e.Matches(at)
	if first != second {
		t.Fatalf("Matches not pure: first=%v second=%v", first, second)
	}
	if got := e.String(); got != "0 30 10 * * 1-5" {
		t.Fatalf("evaluation mutated expression: %q", got)
	}
}
