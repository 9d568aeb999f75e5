package schedule

import (
	"context"
	"time"
)

// Mailer delivers captured task output. Implementations live outside the
// core (SMTP, Telegram, ...).
type Mailer interface {
	Send(ctx context.Context, subject, body string, recipients []string) error
}

// Pinger performs a fire-and-forget GET; the response is discarded.
type Pinger interface {
	Get(ctx context.Context, url string) error
}

// Collaborators bundles the named collaborators handed to after-run
// callbacks. Either member may be nil when the deployment does not configure
// it; callbacks that need a missing collaborator fail with an error.
type Collaborators struct {
	Mail Mailer
	HTTP Pinger
}

// Callback is one unit of deferred work appended with Then (or the sugar
// EmailOutputTo / ThenPing). Callbacks run in insertion order after a
// foreground run completes; background runs never invoke them.
type Callback func(ctx context.Context, c Collaborators) error

// EvalContext is the read-only view a gating predicate sees.
type EvalContext struct {
	Now         time.Time
	Description string
}

// Predicate gates a due event. A false filter or a true reject skips the run.
type Predicate func(EvalContext) bool
