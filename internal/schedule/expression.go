package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies one of the six expression slots. Positions run 1..6 from
// seconds to day-of-week, mirroring the order of the canonical string form.
type Field int

const (
	FieldSecond Field = iota + 1
	FieldMinute
	FieldHour
	FieldDayOfMonth
	FieldMonth
	FieldDayOfWeek
)

const fieldCount = 6

func (f Field) String() string {
	switch f {
	case FieldSecond:
		return "second"
	case FieldMinute:
		return "minute"
	case FieldHour:
		return "hour"
	case FieldDayOfMonth:
		return "day-of-month"
	case FieldMonth:
		return "month"
	case FieldDayOfWeek:
		return "day-of-week"
	default:
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
}

// bounds is the legal value domain of a field (inclusive). Day-of-week runs
// 0..6 with 0 = Sunday.
type bounds struct{ min, max int }

func (f Field) bounds() bounds {
	switch f {
	case FieldSecond, FieldMinute:
		return bounds{0, 59}
	case FieldHour:
		return bounds{0, 23}
	case FieldDayOfMonth:
		return bounds{1, 31}
	case FieldMonth:
		return bounds{1, 12}
	case FieldDayOfWeek:
		return bounds{0, 6}
	default:
		return bounds{0, 0}
	}
}

// Wildcard is the default spec of every field: any legal value matches.
const Wildcard = "*"

// Expression is the canonical six-field matcher. The zero value is not
// usable; construct with New or Parse.
type Expression struct {
	specs [fieldCount]string
}

// New returns an all-wildcard expression ("* * * * * *").
func New() *Expression {
	e := &Expression{}
	for i := range e.specs {
		e.specs[i] = Wildcard
	}
	return e
}

// Parse builds an expression from a raw cron string. Six fields are taken as
// given; a 5-field string is widened with a leading wildcard second field.
func Parse(raw string) (*Expression, error) {
	fields := strings.Fields(raw)
	switch len(fields) {
	case 6:
	case 5:
		fields = append([]string{Wildcard}, fields...)
	default:
		return nil, fmt.Errorf("%w: expected 5 or 6 fields, got %d", ErrMalformedExpression, len(fields))
	}
	e := New()
	for i, spec := range fields {
		if err := e.SetField(Field(i+1), spec); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetField validates spec syntactically and replaces the field's matcher.
// On error the expression is left unmodified. Only well-formedness is
// checked; an out-of-domain number (e.g. minute 75) parses but never matches.
func (e *Expression) SetField(f Field, spec string) error {
	if f < FieldSecond || f > FieldDayOfWeek {
		return fmt.Errorf("%w: no field at position %d", ErrMalformedExpression, int(f))
	}
	if err := validateFieldSpec(spec); err != nil {
		return fmt.Errorf("%w: %s field %q: %v", ErrMalformedExpression, f, spec, err)
	}
	e.specs[f-1] = spec
	return nil
}

// FieldSpec returns the raw matcher of a single field.
func (e *Expression) FieldSpec(f Field) string {
	if f < FieldSecond || f > FieldDayOfWeek {
		return ""
	}
	return e.specs[f-1]
}

// String renders the canonical space-joined six-field form.
func (e *Expression) String() string {
	return strings.Join(e.specs[:], " ")
}

// fieldPart is one comma-separated element of a field spec, normalized to a
// start/end/step triple. A wildcard base spans the field's whole domain, so
// start/end are resolved against bounds at match time via the wild flag.
type fieldPart struct {
	wild       bool
	start, end int
	step       int
}

// parseFieldPart parses a single element of the grammar
// "* | N | N-N | */S | N-N/S". A step requires a wildcard or range base.
func parseFieldPart(part string) (fieldPart, error) {
	p := fieldPart{step: 1}
	base := part
	if i := strings.IndexByte(part, '/'); i >= 0 {
		base = part[:i]
		stepStr := part[i+1:]
		step, err := strconv.Atoi(stepStr)
		if err != nil {
			return p, fmt.Errorf("step %q is not a number", stepStr)
		}
		if step <= 0 {
			return p, fmt.Errorf("step must be positive, got %d", step)
		}
		if base != Wildcard && !strings.Contains(base, "-") {
			return p, fmt.Errorf("step requires a wildcard or range base, got %q", base)
		}
		p.step = step
	}

	switch {
	case base == Wildcard:
		p.wild = true
	case strings.Contains(base, "-"):
		lo, hi, ok := strings.Cut(base, "-")
		if !ok {
			return p, fmt.Errorf("bad range %q", base)
		}
		start, err := strconv.Atoi(lo)
		if err != nil {
			return p, fmt.Errorf("range start %q is not a number", lo)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return p, fmt.Errorf("range end %q is not a number", hi)
		}
		if start > end {
			return p, fmt.Errorf("range %q is inverted", base)
		}
		p.start, p.end = start, end
	default:
		v, err := strconv.Atoi(base)
		if err != nil {
			return p, fmt.Errorf("value %q is not a number", base)
		}
		p.start, p.end = v, v
	}
	return p, nil
}

func validateFieldSpec(spec string) error {
	if spec == "" {
		return fmt.Errorf("empty field")
	}
	for _, part := range strings.Split(spec, ",") {
		if part == "" {
			return fmt.Errorf("empty list element")
		}
		if _, err := parseFieldPart(part); err != nil {
			return err
		}
	}
	return nil
}

// matchField expands spec against the field's domain and tests membership of
// val. Specs passing validateFieldSpec never fail here.
func matchField(spec string, b bounds, val int) bool {
	for _, part := range strings.Split(spec, ",") {
		p, err := parseFieldPart(part)
		if err != nil {
			continue
		}
		start, end := p.start, p.end
		if p.wild {
			start, end = b.min, b.max
		}
		if val >= start && val <= end && (val-start)%p.step == 0 {
			return true
		}
	}
	return false
}
