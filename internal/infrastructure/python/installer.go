package python

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// PipInstaller provisions virtual environments and installs the
// dependency manifest with pip.
type PipInstaller struct {
	runner      ports.CommandRunner
	interpreter ports.Interpreter
	venvDir     string
	logger      ports.Logger
}

// NewPipInstaller builds an installer.
func NewPipInstaller(runner ports.CommandRunner, interpreter ports.Interpreter, venvDir string, logger ports.Logger) *PipInstaller {
	if venvDir == "" {
		venvDir = "venv"
	}
	return &PipInstaller{runner: runner, interpreter: interpreter, venvDir: venvDir, logger: logger}
}

// EnsureEnvironment implements ports.PackageInstaller. An existing
// environment is left untouched.
func (p *PipInstaller) EnsureEnvironment(ctx context.Context, projectDir string) (bool, error) {
	if _, err := p.interpreter.VenvPath(projectDir); err == nil {
		return false, nil
	}

	system, err := p.interpreter.Path(projectDir)
	if err != nil {
		return false, &domain.MissingPrerequisiteError{Name: "python3", Detail: err.Error()}
	}

	target := filepath.Join(projectDir, p.venvDir)
	p.logger.Info("creating virtual environment", map[string]interface{}{"dir": target})
	if result, err := p.runner.Run(ctx, system, "-m", "venv", target); err != nil {
		detail := strings.TrimSpace(result.Stderr)
		if detail == "" {
			detail = err.Error()
		}
		return false, fmt.Errorf("create virtual environment: %s", detail)
	}
	return true, nil
}

// Install implements ports.PackageInstaller. pip upgrades itself first,
// then installs the manifest. Re-running with an unchanged manifest is a
// no-op apart from version drift.
func (p *PipInstaller) Install(ctx context.Context, projectDir, manifest string) error {
	py, err := p.interpreter.VenvPath(projectDir)
	if err != nil {
		return &domain.MissingPrerequisiteError{Name: "virtual environment", Detail: err.Error()}
	}

	if result, err := p.runner.Run(ctx, py, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return &domain.InstallFailureError{Manifest: manifest, Output: result.CombinedOutput(), Err: err}
	}
	if result, err := p.runner.Run(ctx, py, "-m", "pip", "install", "-r", manifest); err != nil {
		return &domain.InstallFailureError{Manifest: manifest, Output: result.CombinedOutput(), Err: err}
	}
	return nil
}

var _ ports.PackageInstaller = (*PipInstaller)(nil)
