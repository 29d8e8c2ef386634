package sampletest

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// withWorkspace creates a fresh temporary directory for compiled
// artifacts and guarantees its removal after fn returns, whatever fn
// does. Removal failures are logged, never raised, so they cannot mask
// the result of the run.
func (r *Runner) withWorkspace(fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "ojmate-build-*")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("workspace removal failed",
				zap.String("dir", dir), zap.Error(err))
		}
	}()
	return fn(dir)
}
