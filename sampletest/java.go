package sampletest

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// runJava drives the compiled-language pipeline: detect the entry point,
// compile into an isolated workspace, run the qualified class with the
// workspace on the classpath, and tear the workspace down afterwards.
func (r *Runner) runJava(ctx context.Context, req Request) (*Outcome, error) {
	src, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return nil, &ValidationError{Reason: "cannot read source file: " + err.Error()}
	}
	entry, err := detectEntryPoint(string(src))
	if err != nil {
		return nil, err
	}

	var out *Outcome
	err = r.withWorkspace(func(dir string) error {
		if err := r.compileJava(ctx, req.SourcePath, dir); err != nil {
			return err
		}
		res, err := r.runJavaClass(ctx, dir, entry, req.Input)
		if err != nil {
			return err
		}
		out = outcome(res, req.Expected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// compileJava invokes the compiler with UTF-8 source encoding, emitting
// class files into the workspace. A non-zero exit becomes a CompileError
// carrying the compiler's own diagnostics.
func (r *Runner) compileJava(ctx context.Context, sourcePath, workspace string) error {
	compiler := r.toolchain.Compiler()
	args, err := r.toolchain.CompilerArgs()
	if err != nil {
		return err
	}
	args = append(args, "-encoding", "UTF-8", "-d", workspace, sourcePath)

	r.logger.Debug("compiling sample-test source",
		zap.String("compiler", compiler), zap.String("source", sourcePath))

	res, err := r.execute(ctx, execSpec{
		command: compiler,
		args:    args,
		dir:     workspace,
	})
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		diag := res.stderr
		if diag == "" {
			diag = res.stdout
		}
		if diag == "" {
			diag = "unknown compile error"
		}
		return &CompileError{Diagnostics: diag}
	}
	return nil
}

// runJavaClass executes the compiled entry class with the workspace on
// the classpath and the sample input on stdin.
func (r *Runner) runJavaClass(ctx context.Context, workspace string, entry EntryPoint, input string) (*execResult, error) {
	rt := r.toolchain.Runtime()
	args, err := r.toolchain.RuntimeArgs()
	if err != nil {
		return nil, err
	}
	args = append(args, "-classpath", workspace, entry.Qualified())

	r.logger.Debug("running compiled sample test",
		zap.String("runtime", rt), zap.String("class", entry.Qualified()))

	return r.execute(ctx, execSpec{
		command: rt,
		args:    args,
		stdin:   input,
		dir:     workspace,
	})
}
