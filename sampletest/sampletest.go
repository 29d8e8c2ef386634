// Package sampletest runs a locally written solution against a single
// sample test case: compile when the language requires it, execute with
// the sample input on stdin, and compare the produced output against the
// expected output after normalization.
package sampletest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Language selects the execution strategy for a request.
type Language string

const (
	// LangPython runs the source directly under the configured interpreter.
	LangPython Language = "python"
	// LangJava compiles the source with javac into a temporary workspace
	// and runs the detected entry class with java.
	LangJava Language = "java"
)

// Request describes a single sample-test run.
type Request struct {
	Language   Language
	SourcePath string
	// Input is fed to the program on stdin. Must be non-empty.
	Input string
	// Expected enables output comparison when non-nil.
	Expected *string
}

// Outcome is the result of a successfully launched run.
type Outcome struct {
	Stdout string
	Stderr string
	// ExitCode is nil when the process terminated without reporting one
	// (killed by a signal).
	ExitCode *int
	// Matched is nil when no expected output was supplied.
	Matched *bool
}

// Config configures a Runner.
type Config struct {
	Toolchain ToolchainConfig
	// RunTimeout bounds the wall-clock time of each spawned process when
	// positive. Zero disables the limit.
	RunTimeout time.Duration
	Logger     *zap.Logger
}

// Runner dispatches sample-test requests to the per-language strategies.
// A Runner is safe for concurrent use: each run owns its workspace and
// process handles and shares nothing.
type Runner struct {
	toolchain  *Toolchain
	runTimeout time.Duration
	logger     *zap.Logger
}

// NewRunner creates a runner from conf. A nil logger defaults to no-op.
func NewRunner(conf Config) *Runner {
	logger := conf.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		toolchain:  NewToolchain(conf.Toolchain),
		runTimeout: conf.RunTimeout,
		logger:     logger,
	}
}

// Run validates req and executes it under the strategy for its language.
// A launched program that exits non-zero or prints the wrong answer is
// not an error: both surface as data on the Outcome.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	// Strategies run processes from their own working directories, so a
	// relative source path would resolve against the wrong place.
	src, err := filepath.Abs(req.SourcePath)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("cannot resolve source file path %s: %v", req.SourcePath, err)}
	}
	req.SourcePath = src
	switch Language(strings.ToLower(string(req.Language))) {
	case LangPython, "python3", "py":
		return r.runPython(ctx, req)
	case LangJava:
		return r.runJava(ctx, req)
	default:
		return nil, &UnsupportedLanguageError{Language: string(req.Language)}
	}
}

// validate rejects bad requests before any process is spawned.
func validate(req Request) error {
	if req.SourcePath == "" {
		return &ValidationError{Reason: "source file path is required"}
	}
	fi, err := os.Stat(req.SourcePath)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("source file %s does not exist", req.SourcePath)}
	}
	if fi.IsDir() {
		return &ValidationError{Reason: fmt.Sprintf("source file %s is a directory", req.SourcePath)}
	}
	if req.Input == "" {
		return &ValidationError{Reason: "sample input is empty"}
	}
	return nil
}

// outcome assembles an Outcome from a finished process, applying the
// output matcher when an expectation is present.
func outcome(res *execResult, expected *string) *Outcome {
	o := &Outcome{
		Stdout: res.stdout,
		Stderr: res.stderr,
	}
	if res.exitCode >= 0 {
		code := res.exitCode
		o.ExitCode = &code
	}
	o.Matched = matchOutput(res.stdout, expected)
	return o
}
