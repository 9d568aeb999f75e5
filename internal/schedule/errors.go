package schedule

import "errors"

var (
	// ErrMalformedExpression is wrapped by every field-syntax failure raised
	// at mutation time. Well-formed expressions never fail at evaluation.
	ErrMalformedExpression = errors.New("malformed schedule expression")

	// ErrInvalidOperation marks builder calls that are structurally invalid
	// for the event's current state (e.g. emailing discarded output).
	ErrInvalidOperation = errors.New("invalid schedule operation")
)
