package sampletest

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// runPython executes the source directly under the resolved interpreter,
// working directory set to the source file's own directory.
func (r *Runner) runPython(ctx context.Context, req Request) (*Outcome, error) {
	interpreter := r.toolchain.Interpreter()
	args, err := r.toolchain.InterpreterArgs()
	if err != nil {
		return nil, err
	}
	args = append(args, req.SourcePath)

	r.logger.Debug("running interpreted sample test",
		zap.String("interpreter", interpreter), zap.String("source", req.SourcePath))

	res, err := r.execute(ctx, execSpec{
		command: interpreter,
		args:    args,
		stdin:   req.Input,
		dir:     filepath.Dir(req.SourcePath),
	})
	if err != nil {
		return nil, err
	}
	return outcome(res, req.Expected), nil
}
