package runner

import (
	"context"
	"errors"
	"os"
	"testing"

	"taskmill/internal/schedule"
	logx "taskmill/pkg/logx"
)

type fakeProc struct {
	command string
	dir     string
	mode    Mode
	calls   int
	err     error

	trace *[]string
}

func (p *fakeProc) Execute(_ context.Context, command, dir string, mode Mode) error {
	p.calls++
	p.command = command
	p.dir = dir
	p.mode = mode
	if p.trace != nil {
		*p.trace = append(*p.trace, "exec")
	}
	return p.err
}

func newTestRunner(proc ProcessRunner, collab schedule.Collaborators) *Runner {
	return New(Config{WorkDir: "/srv/app"}, proc, collab, logx.Nop())
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		event *schedule.Event
		want  string
	}{
		{
			name:  "default discards combined output",
			event: schedule.NewEvent("php artisan inspire"),
			want:  "php artisan inspire >> " + os.DevNull + " 2>&1",
		},
		{
			name:  "explicit sink",
			event: schedule.NewEvent("backup.sh").SendOutputTo("/var/log/backup.log"),
			want:  "backup.sh >> /var/log/backup.log 2>&1",
		},
		{
			name:  "run-as user wraps redirected command",
			event: schedule.NewEvent("backup.sh").SendOutputTo("/var/log/backup.log").User("deploy"),
			want:  "sudo -u deploy -- sh -c 'backup.sh >> /var/log/backup.log 2>&1'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildCommand(tt.event); got != tt.want {
				t.Fatalf("BuildCommand = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunBackgroundWithoutCallbacks(t *testing.T) {
	t.Parallel()
	proc := &fakeProc{}
	r := newTestRunner(proc, schedule.Collaborators{})
	ev := schedule.NewEvent("true")

	if err := r.Run(context.Background(), ev); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if proc.calls != 1 {
		t.Fatalf("Execute calls = %d, want 1", proc.calls)
	}
	if proc.mode != Background {
		t.Fatalf("mode = %v, want Background", proc.mode)
	}
	if proc.dir != "/srv/app" {
		t.Fatalf("dir = %q, want configured workdir", proc.dir)
	}
}

func TestRunForegroundInvokesCallbacksInOrder(t *testing.T) {
	t.Parallel()
	var trace []string
	proc := &fakeProc{trace: &trace}
	r := newTestRunner(proc, schedule.Collaborators{})

	ev := schedule.NewEvent("true").
		Then(func(context.Context, schedule.Collaborators) error {
			trace = append(trace, "first")
			return nil
		}).
		Then(func(context.Context, schedule.Collaborators) error {
			trace = append(trace, "second")
			return nil
		})

	if err := r.Run(context.Background(), ev); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if proc.mode != Foreground {
		t.Fatalf("mode = %v, want Foreground", proc.mode)
	}
	want := []string{"exec", "first", "second"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestRunFailingCallbackDoesNotStopChain(t *testing.T) {
	t.Parallel()
	var trace []string
	proc := &fakeProc{}
	r := newTestRunner(proc, schedule.Collaborators{})

	ev := schedule.NewEvent("true").
		Then(func(context.Context, schedule.Collaborators) error {
			trace = append(trace, "first")
			return errors.New("boom")
		}).
		Then(func(context.Context, schedule.Collaborators) error {
			trace = append(trace, "second")
			return nil
		})

	if err := r.Run(context.Background(), ev); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(trace) != 2 {
		t.Fatalf("trace = %v, want both callbacks", trace)
	}
}

func TestRunForwardsExecutionError(t *testing.T) {
	t.Parallel()
	execErr := errors.New("exit status 2")
	proc := &fakeProc{err: execErr}
	r := newTestRunner(proc, schedule.Collaborators{})

	callbackRan := false
	ev := schedule.NewEvent("false").Then(func(context.Context, schedule.Collaborators) error {
		callbackRan = true
		return nil
	})

	err := r.Run(context.Background(), ev)
	if !errors.Is(err, execErr) {
		t.Fatalf("Run error = %v, want wrapped execution error", err)
	}
	if callbackRan {
		t.Fatal("callbacks must not run after a failed command")
	}
}

func TestRunRefusesBrokenEvent(t *testing.T) {
	t.Parallel()
	proc := &fakeProc{}
	r := newTestRunner(proc, schedule.Collaborators{})
	ev := schedule.NewEvent("true").Cron("garbage")

	err := r.Run(context.Background(), ev)
	if !errors.Is(err, schedule.ErrMalformedExpression) {
		t.Fatalf("Run error = %v, want builder error", err)
	}
	if proc.calls != 0 {
		t.Fatal("broken event must not reach the process runner")
	}
}

func TestModeIsDecidedPerInvocation(t *testing.T) {
	t.Parallel()
	proc := &fakeProc{}
	r := newTestRunner(proc, schedule.Collaborators{})
	ev := schedule.NewEvent("true")

	if err := r.Run(context.Background(), ev); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if proc.mode != Background {
		t.Fatalf("first run mode = %v, want Background", proc.mode)
	}

	ev.Then(func(context.Context, schedule.Collaborators) error { return nil })
	if err := r.Run(context.Background(), ev); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if proc.mode != Foreground {
		t.Fatalf("second run mode = %v, want Foreground", proc.mode)
	}
}
