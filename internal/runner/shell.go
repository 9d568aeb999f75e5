package runner

import (
	"context"
	"os/exec"
)

// ShellRunner is the default ProcessRunner: it hands the command string to
// /bin/sh. Foreground runs block until the child exits; background runs
// start the child without a cancelable context so its lifetime is
// independent of the scheduler process.
//
// No timeout is applied here; callers needing one wrap the Execute context
// (foreground only).
type ShellRunner struct{}

func (ShellRunner) Execute(ctx context.Context, command, dir string, mode Mode) error {
	if mode == Background {
		cmd := exec.Command("/bin/sh", "-c", command)
		cmd.Dir = dir
		if err := cmd.Start(); err != nil {
			return err
		}
		// Reap the child so it doesn't linger as a zombie.
		go func() { _ = cmd.Wait() }()
		return nil
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = dir
	return cmd.Run()
}
