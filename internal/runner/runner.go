// Package runner materializes a due event into a shell command and executes
// it through the ProcessRunner collaborator, choosing foreground or
// background mode and firing after-run callbacks.
package runner

import (
	"context"
	"fmt"

	"taskmill/internal/schedule"
	logx "taskmill/pkg/logx"
)

// Mode selects how the process runner executes a command.
type Mode int

const (
	// Foreground blocks until the command exits.
	Foreground Mode = iota
	// Background detaches: the spawned command outlives the call and its
	// exit status is not observed.
	Background
)

func (m Mode) String() string {
	if m == Background {
		return "background"
	}
	return "foreground"
}

// ProcessRunner is the process-spawning collaborator. Implementations must
// block in Foreground mode and return after spawn setup in Background mode.
type ProcessRunner interface {
	Execute(ctx context.Context, command, dir string, mode Mode) error
}

// Config controls command materialization.
type Config struct {
	// WorkDir is the working directory for spawned commands; empty means
	// the scheduler process's own.
	WorkDir string
}

// Runner executes events. It holds no per-event state, so concurrent runs of
// different events are safe; serializing runs of the same event is the
// driver's job.
type Runner struct {
	cfg    Config
	proc   ProcessRunner
	collab schedule.Collaborators
	log    logx.Logger
}

func New(cfg Config, proc ProcessRunner, collab schedule.Collaborators, log logx.Logger) *Runner {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{cfg: cfg, proc: proc, collab: collab, log: log}
}

// ModeFor reports the execution mode Run would pick for the event right now:
// foreground when callbacks are registered, background otherwise. The mode is
// decided per invocation, never cached on the event.
func ModeFor(ev *schedule.Event) Mode {
	if len(ev.Callbacks()) > 0 {
		return Foreground
	}
	return Background
}

// Run builds the final command string and executes it. In foreground mode it
// waits for completion and then invokes the callbacks in insertion order; in
// background mode it returns after spawn setup and skips callbacks entirely.
//
// Process runner errors are forwarded to the caller without interpretation;
// the core applies no retry policy.
func (r *Runner) Run(ctx context.Context, ev *schedule.Event) error {
	if err := ev.Err(); err != nil {
		return fmt.Errorf("event %q not runnable: %w", ev.Name(), err)
	}

	command := BuildCommand(ev)
	mode := ModeFor(ev)

	r.log.Debug("running scheduled command",
		logx.String("task", ev.Name()),
		logx.String("mode", mode.String()),
	)

	if err := r.proc.Execute(ctx, command, r.cfg.WorkDir, mode); err != nil {
		return fmt.Errorf("execute %q: %w", ev.Name(), err)
	}

	if mode == Foreground {
		r.invokeCallbacks(ctx, ev)
	}
	return nil
}

// invokeCallbacks fires the after-run chain in order. A failing callback is
// logged and does not stop the ones after it.
func (r *Runner) invokeCallbacks(ctx context.Context, ev *schedule.Event) {
	for i, cb := range ev.Callbacks() {
		if err := cb(ctx, r.collab); err != nil {
			r.log.Warn("after-run callback failed",
				logx.String("task", ev.Name()),
				logx.Int("callback", i),
				logx.Err(err),
			)
		}
	}
}

// BuildCommand renders the final shell command: combined stdout+stderr are
// appended to the output sink, and a run-as user wraps the whole thing in a
// privilege-switch invocation.
func BuildCommand(ev *schedule.Event) string {
	command := ev.Command() + " >> " + ev.Output() + " 2>&1"
	if user := ev.RunAsUser(); user != "" {
		command = fmt.Sprintf("sudo -u %s -- sh -c '%s'", user, command)
	}
	return command
}
