package sampletest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// execSpec describes one external process invocation. Arguments are
// passed as a literal vector, never through a shell.
type execSpec struct {
	command string
	args    []string
	stdin   string
	dir     string
}

// execResult carries everything a finished process reported. exitCode is
// -1 when the process terminated without one.
type execResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// execute launches the program described by spec, feeds spec.stdin on
// its standard input and drains stdout and stderr concurrently until the
// process terminates. A start failure is a LaunchError; a non-zero exit
// is reported as data.
func (r *Runner) execute(ctx context.Context, spec execSpec) (*execResult, error) {
	runCtx := ctx
	var runCancel context.CancelFunc
	if r.runTimeout > 0 {
		runCtx, runCancel = context.WithTimeout(ctx, r.runTimeout)
		defer runCancel()
	}

	cmd := exec.CommandContext(runCtx, spec.command, spec.args...)
	cmd.Dir = spec.dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Command: spec.command, Err: err}
	}

	var outBuf, errBuf bytes.Buffer
	var eg errgroup.Group
	eg.Go(func() error {
		_, err := io.Copy(&outBuf, stdout)
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(&errBuf, stderr)
		return err
	})
	eg.Go(func() error {
		defer stdin.Close()
		if spec.stdin == "" {
			return nil
		}
		in := spec.stdin
		if !strings.HasSuffix(in, "\n") {
			in += "\n"
		}
		// the program may legitimately exit before reading all input
		io.Copy(stdin, strings.NewReader(in))
		return nil
	})
	drainErr := eg.Wait()

	waitErr := cmd.Wait()
	// Only the locally armed timer is a run timeout: the caller's own
	// deadline or cancellation is surfaced as the context error.
	if runCancel != nil && runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return nil, &TimeoutError{Limit: r.runTimeout}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, waitErr
		}
	}
	if drainErr != nil {
		return nil, drainErr
	}

	return &execResult{
		stdout:   outBuf.String(),
		stderr:   errBuf.String(),
		exitCode: cmd.ProcessState.ExitCode(),
	}, nil
}
