// Package executil runs external commands on the local host.
package executil

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// LocalRunner executes commands directly, without a shell. Arguments
// are passed verbatim so values never need quoting.
type LocalRunner struct {
	dir string
}

// NewLocalRunner builds a runner. dir sets the working directory for
// every command; empty means inherit the process working directory.
func NewLocalRunner(dir string) *LocalRunner {
	return &LocalRunner{dir: dir}
}

// Run implements ports.CommandRunner. The captured output is returned
// even when the command exits non-zero so callers can surface it.
func (r *LocalRunner) Run(ctx context.Context, name string, args ...string) (domain.CommandResult, error) {
	c := exec.CommandContext(ctx, name, args...)
	if r.dir != "" {
		c.Dir = r.dir
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result := domain.CommandResult{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: duration,
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, err
	}
	if err != nil {
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}

// LookPath implements ports.CommandRunner.
func (r *LocalRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

var _ ports.CommandRunner = (*LocalRunner)(nil)
