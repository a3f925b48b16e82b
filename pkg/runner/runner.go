// Package runner supervises the build process chain: the primary
// xcodebuild invocation and, optionally, a formatting process reading
// its output through a pipe.
package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/rotisserie/eris"
	"golang.org/x/sys/unix"
)

// Command describes a single executable invocation.
type Command struct {
	Path string
	Args []string
}

// Invocation is the process chain for one run.
type Invocation struct {
	// Dir is the working directory for the spawned processes. Empty
	// means the supervisor's own working directory.
	Dir string
	// Primary is the build tool invocation.
	Primary Command
	// Formatter, if set, reads the primary's stdout through a pipe. Its
	// own stdout and stderr are inherited.
	Formatter *Command
	// Stdout receives the primary's output when no formatter is
	// configured, and the formatter's output otherwise. Defaults to
	// os.Stdout.
	Stdout io.Writer
}

// Run executes the chain and reduces it to a single status code. The
// primary is always settled before the formatter is, regardless of which
// process exits first; a failing primary wins, a successful one defers
// to the formatter. Spawn failures and wait-machinery failures are
// returned as errors and bypass the settle logic.
func (inv *Invocation) Run(ctx context.Context) (int, error) {
	stdout := inv.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	primary := exec.CommandContext(ctx, inv.Primary.Path, inv.Primary.Args...)
	primary.Dir = inv.Dir
	primary.Stdin = os.Stdin
	primary.Stderr = os.Stderr

	if inv.Formatter == nil {
		primary.Stdout = stdout

		log(ctx).Debug().Str("path", inv.Primary.Path).Msg("starting build process")
		if err := primary.Start(); err != nil {
			return 0, eris.Wrapf(err, "Failed to start %s", inv.Primary.Path)
		}

		status, err := settle(primary)
		if err != nil {
			return 0, err
		}

		return status.Code(), nil
	}

	readEnd, writeEnd, err := os.Pipe()
	if err != nil {
		return 0, eris.Wrap(err, "Failed to create the output pipe")
	}

	primary.Stdout = writeEnd

	formatter := exec.CommandContext(ctx, inv.Formatter.Path, inv.Formatter.Args...)
	formatter.Dir = inv.Dir
	formatter.Stdin = readEnd
	formatter.Stdout = stdout
	formatter.Stderr = os.Stderr

	log(ctx).Debug().
		Str("path", inv.Primary.Path).
		Str("formatter", inv.Formatter.Path).
		Msg("starting build pipeline")

	if err := primary.Start(); err != nil {
		readEnd.Close()
		writeEnd.Close()
		return 0, eris.Wrapf(err, "Failed to start %s", inv.Primary.Path)
	}

	if err := formatter.Start(); err != nil {
		readEnd.Close()
		writeEnd.Close()

		// The primary is already running and nobody drains its pipe
		// anymore; reap it so it doesn't leak.
		_ = primary.Process.Kill()
		_ = primary.Wait()

		return 0, eris.Wrapf(err, "Failed to start %s", inv.Formatter.Path)
	}

	// Both children hold their own duplicates of the pipe ends. Close
	// ours so the formatter sees EOF once the primary exits.
	writeEnd.Close()
	readEnd.Close()

	primaryStatus, err := settle(primary)
	if err != nil {
		return 0, err
	}

	formatterStatus, err := settle(formatter)
	if err != nil {
		return 0, err
	}

	return Combine(primaryStatus, formatterStatus), nil
}

// settle waits for the process to exit and extracts its status. Non-zero
// exits and signal deaths are results, not errors; anything else means
// the monitoring machinery itself failed and is returned as an error.
func settle(cmd *exec.Cmd) (Status, error) {
	err := cmd.Wait()
	if err == nil {
		return ExitStatus(0), nil
	}

	var exitErr *exec.ExitError
	if !eris.As(err, &exitErr) {
		return Status{}, eris.Wrapf(err, "Failed to wait for %s", cmd.Path)
	}

	if waitStatus, ok := exitErr.Sys().(syscall.WaitStatus); ok && waitStatus.Signaled() {
		return SignalStatus(unix.SignalName(waitStatus.Signal())), nil
	}

	return ExitStatus(exitErr.ExitCode()), nil
}
