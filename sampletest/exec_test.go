package sampletest

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on a POSIX shell")
	}
}

func TestExecute_EchoWithStdin(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(Config{})
	res, err := r.execute(context.Background(), execSpec{
		command: "sh",
		args:    []string{"-c", "cat"},
		stdin:   "5",
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	// a trailing newline is appended before the input channel is closed
	if res.stdout != "5\n" {
		t.Errorf("stdout = %q, want %q", res.stdout, "5\n")
	}
	if res.exitCode != 0 {
		t.Errorf("exitCode = %d, want 0", res.exitCode)
	}
}

func TestExecute_StdinAlreadyTerminated(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(Config{})
	res, err := r.execute(context.Background(), execSpec{
		command: "sh",
		args:    []string{"-c", "cat"},
		stdin:   "a\nb\n",
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if res.stdout != "a\nb\n" {
		t.Errorf("stdout = %q, want %q", res.stdout, "a\nb\n")
	}
}

func TestExecute_SeparatesStdoutStderr(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(Config{})
	res, err := r.execute(context.Background(), execSpec{
		command: "sh",
		args:    []string{"-c", "echo out; echo err 1>&2"},
	})
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if res.stdout != "out\n" {
		t.Errorf("stdout = %q", res.stdout)
	}
	if res.stderr != "err\n" {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestExecute_NonZeroExitIsData(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(Config{})
	res, err := r.execute(context.Background(), execSpec{
		command: "sh",
		args:    []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if res.exitCode != 3 {
		t.Errorf("exitCode = %d, want 3", res.exitCode)
	}
}

func TestExecute_LaunchError(t *testing.T) {
	r := NewRunner(Config{})
	_, err := r.execute(context.Background(), execSpec{
		command: "/nonexistent/binary/for/sure",
	})
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("expected LaunchError, got %v", err)
	}
}

func TestExecute_Timeout(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner(Config{RunTimeout: 100 * time.Millisecond})
	start := time.Now()
	_, err := r.execute(context.Background(), execSpec{
		command: "sh",
		args:    []string{"-c", "sleep 10"},
	})
	var toErr *TimeoutError
	if !errors.As(err, &toErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("process not killed promptly, took %v", elapsed)
	}
}

func TestExecute_CallerDeadlineIsNotARunTimeout(t *testing.T) {
	skipOnWindows(t)
	// caller deadline fires well before the configured run limit
	r := NewRunner(Config{RunTimeout: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := r.execute(ctx, execSpec{
		command: "sh",
		args:    []string{"-c", "sleep 10"},
	})
	var toErr *TimeoutError
	if errors.As(err, &toErr) {
		t.Fatalf("caller deadline misreported as run timeout: %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
