package sampletest

import (
	"fmt"
	"time"
)

// ValidationError reports a request rejected before any process was
// spawned. The caller can recover by correcting the request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// UnsupportedLanguageError reports a language with no registered strategy.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Language)
}

// EntryPointError reports source text without a usable entry point.
// Raised before any compiler invocation.
type EntryPointError struct {
	Reason string
}

func (e *EntryPointError) Error() string {
	return e.Reason
}

// CompileError reports a compiler that exited non-zero. The message is
// the compiler's own diagnostics.
type CompileError struct {
	Diagnostics string
}

func (e *CompileError) Error() string {
	return e.Diagnostics
}

// LaunchError reports an executable the operating system could not start
// at all, as opposed to a started process that exited non-zero.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// TimeoutError reports a run killed after exceeding the configured
// wall-clock limit.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run exceeded the %s wall-clock limit", e.Limit)
}
