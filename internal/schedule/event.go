package schedule

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Event is a single scheduled task: a command template plus the expression,
// gating predicates and after-run callbacks that decide when and how it runs.
//
// Events are built by the caller through the fluent mutators below and then
// handed to the runner; they are not mutated during or after execution.
// Builder errors are sticky: the first failing mutator records its error,
// later calls keep the expression untouched, and Err() surfaces the failure.
type Event struct {
	command     string
	expr        *Expression
	timezone    string // IANA name; "" means process-local
	loc         *time.Location
	user        string
	output      string
	description string

	after  []Callback
	filter Predicate
	reject Predicate

	err error
}

// NewEvent creates an event for the given command template. The expression
// starts all-wildcard and output is discarded until SendOutputTo is called.
func NewEvent(command string) *Event {
	return &Event{
		command: command,
		expr:    New(),
		output:  os.DevNull,
	}
}

// Err returns the first builder error, if any. The driver refuses to run an
// event whose Err is non-nil.
func (e *Event) Err() error { return e.err }

func (e *Event) fail(err error) *Event {
	if e.err == nil {
		e.err = err
	}
	return e
}

// spliceField routes every fluent helper through a single validate-then-apply
// mutation of one expression field.
func (e *Event) spliceField(f Field, spec string) *Event {
	if e.err != nil {
		return e
	}
	if err := e.expr.SetField(f, spec); err != nil {
		e.err = err
	}
	return e
}

// SetField exposes raw field splicing for callers that precompute specs
// (e.g. the config compiler).
func (e *Event) SetField(f Field, spec string) *Event { return e.spliceField(f, spec) }

// Hourly runs the event at the top of every hour ("0 0 * * * *").
func (e *Event) Hourly() *Event {
	return e.spliceField(FieldSecond, "0").spliceField(FieldMinute, "0")
}

// Daily runs the event at midnight ("0 0 0 * * *").
func (e *Event) Daily() *Event {
	return e.Hourly().spliceField(FieldHour, "0")
}

// DailyAt runs the event every day at the given "H:M" time.
func (e *Event) DailyAt(at string) *Event {
	if e.err != nil {
		return e
	}
	h, m, err := parseTimeOfDay(at)
	if err != nil {
		return e.fail(err)
	}
	return e.spliceField(FieldSecond, "0").
		spliceField(FieldMinute, strconv.Itoa(m)).
		spliceField(FieldHour, strconv.Itoa(h))
}

// Weekly runs the event every Sunday at midnight.
func (e *Event) Weekly() *Event {
	return e.Daily().spliceField(FieldDayOfWeek, "0")
}

// WeeklyOn runs the event on the given weekday (0 = Sunday) at "H:M".
func (e *Event) WeeklyOn(day int, at string) *Event {
	return e.DailyAt(at).spliceField(FieldDayOfWeek, strconv.Itoa(day))
}

// Monthly runs the event on the first of the month at midnight.
func (e *Event) Monthly() *Event {
	return e.Daily().spliceField(FieldDayOfMonth, "1")
}

// Yearly runs the event on January 1st at midnight.
func (e *Event) Yearly() *Event {
	return e.Monthly().spliceField(FieldMonth, "1")
}

func (e *Event) EveryFiveMinutes() *Event {
	return e.spliceField(FieldSecond, "0").spliceField(FieldMinute, "*/5")
}

func (e *Event) EveryTenMinutes() *Event {
	return e.spliceField(FieldSecond, "0").spliceField(FieldMinute, "*/10")
}

func (e *Event) EveryThirtyMinutes() *Event {
	return e.spliceField(FieldSecond, "0").spliceField(FieldMinute, "*/30")
}

// Weekdays restricts the event to Monday through Friday.
func (e *Event) Weekdays() *Event { return e.spliceField(FieldDayOfWeek, "1-5") }

func (e *Event) Sundays() *Event    { return e.Days(0) }
func (e *Event) Mondays() *Event    { return e.Days(1) }
func (e *Event) Tuesdays() *Event   { return e.Days(2) }
func (e *Event) Wednesdays() *Event { return e.Days(3) }
func (e *Event) Thursdays() *Event  { return e.Days(4) }
func (e *Event) Fridays() *Event    { return e.Days(5) }
func (e *Event) Saturdays() *Event  { return e.Days(6) }

// Days restricts the event to the listed weekdays (0 = Sunday).
func (e *Event) Days(days ...int) *Event {
	if len(days) == 0 {
		return e.fail(fmt.Errorf("%w: Days requires at least one weekday", ErrInvalidOperation))
	}
	specs := make([]string, len(days))
	for i, d := range days {
		specs[i] = strconv.Itoa(d)
	}
	return e.spliceField(FieldDayOfWeek, strings.Join(specs, ","))
}

// Cron replaces the whole expression from a raw 5- or 6-field cron string.
func (e *Event) Cron(raw string) *Event {
	if e.err != nil {
		return e
	}
	expr, err := Parse(raw)
	if err != nil {
		return e.fail(err)
	}
	e.expr = expr
	return e
}

// Timezone sets the IANA timezone the expression is evaluated in.
func (e *Event) Timezone(tz string) *Event {
	if e.err != nil {
		return e
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return e.fail(fmt.Errorf("%w: timezone %q: %v", ErrInvalidOperation, tz, err))
	}
	e.timezone = tz
	e.loc = loc
	return e
}

// User sets the system user the command runs as.
func (e *Event) User(name string) *Event {
	e.user = name
	return e
}

// SendOutputTo redirects combined stdout+stderr to the given path.
func (e *Event) SendOutputTo(path string) *Event {
	if e.err != nil {
		return e
	}
	if strings.TrimSpace(path) == "" {
		return e.fail(fmt.Errorf("%w: output path is empty", ErrInvalidOperation))
	}
	e.output = path
	return e
}

// Description attaches a human-readable label used in logs and mail subjects.
func (e *Event) Description(text string) *Event {
	e.description = text
	return e
}

// EmailOutputTo appends a callback that mails the captured output after a
// foreground run. Output must have been redirected first: emailing the
// discard default is an invalid operation.
func (e *Event) EmailOutputTo(addresses ...string) *Event {
	if e.err != nil {
		return e
	}
	if e.output == os.DevNull {
		return e.fail(fmt.Errorf("%w: cannot email discarded output; call SendOutputTo first", ErrInvalidOperation))
	}
	if len(addresses) == 0 {
		return e.fail(fmt.Errorf("%w: EmailOutputTo requires at least one recipient", ErrInvalidOperation))
	}
	recipients := append([]string(nil), addresses...)
	return e.Then(func(ctx context.Context, c Collaborators) error {
		if c.Mail == nil {
			return fmt.Errorf("email output: no mailer configured")
		}
		body, err := os.ReadFile(e.output)
		if err != nil {
			return fmt.Errorf("email output: read %s: %w", e.output, err)
		}
		return c.Mail.Send(ctx, e.mailSubject(), string(body), recipients)
	})
}

func (e *Event) mailSubject() string {
	if e.description != "" {
		return "Scheduled Job Output (" + e.description + ")"
	}
	return "Scheduled Job Output"
}

// ThenPing appends a callback that GETs the given URL, ignoring the response.
func (e *Event) ThenPing(url string) *Event {
	return e.Then(func(ctx context.Context, c Collaborators) error {
		if c.HTTP == nil {
			return fmt.Errorf("ping %s: no http client configured", url)
		}
		return c.HTTP.Get(ctx, url)
	})
}

// Then appends an after-run callback. Callbacks run in insertion order and
// only after foreground runs.
func (e *Event) Then(cb Callback) *Event {
	if e.err != nil {
		return e
	}
	e.after = append(e.after, cb)
	return e
}

// When installs the filter predicate; the event is skipped when it returns
// false. A repeated call replaces the previous filter.
func (e *Event) When(p Predicate) *Event {
	e.filter = p
	return e
}

// Skip installs the reject predicate; the event is skipped when it returns
// true. A repeated call replaces the previous reject.
func (e *Event) Skip(p Predicate) *Event {
	e.reject = p
	return e
}

// ---- Read side (used by the runner and driver) ----

func (e *Event) Command() string         { return e.command }
func (e *Event) Expression() *Expression { return e.expr }
func (e *Event) TimezoneName() string    { return e.timezone }
func (e *Event) RunAsUser() string       { return e.user }
func (e *Event) Output() string          { return e.output }
func (e *Event) Describe() string        { return e.description }
func (e *Event) Callbacks() []Callback   { return e.after }

// Name returns the description when set, the command otherwise. Used for
// logs and history records.
func (e *Event) Name() string {
	if e.description != "" {
		return e.description
	}
	return e.command
}

func (e *Event) location() *time.Location {
	if e.loc != nil {
		return e.loc
	}
	return time.Local
}

// IsDueAt reports whether the event should fire at the given instant: the
// expression must match in the event's timezone and the gating predicates
// must pass.
func (e *Event) IsDueAt(now time.Time) bool {
	return e.expressionPasses(now) && e.filtersPass(now)
}

func (e *Event) expressionPasses(now time.Time) bool {
	return e.expr.Matches(now.In(e.location()))
}

// filtersPass checks the filter before the reject and short-circuits: the
// reject is not evaluated when the filter already failed.
func (e *Event) filtersPass(now time.Time) bool {
	ectx := EvalContext{Now: now, Description: e.description}
	if e.filter != nil && !e.filter(ectx) {
		return false
	}
	if e.reject != nil && e.reject(ectx) {
		return false
	}
	return true
}

func parseTimeOfDay(at string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(at), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: invalid time %q, expected H:M", ErrMalformedExpression, at)
	}
	hour, err = strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: invalid hour in %q", ErrMalformedExpression, at)
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: invalid minute in %q", ErrMalformedExpression, at)
	}
	return hour, minute, nil
}
