// Package python adapts the host Python toolchain.
package python

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reviewassist/reviewctl/internal/ports"
)

var versionRe = regexp.MustCompile(`Python (\d+(?:\.\d+)+)`)

// SystemInterpreter locates python3 on the host and inside project
// virtual environments.
type SystemInterpreter struct {
	runner  ports.CommandRunner
	venvDir string
}

// NewSystemInterpreter builds an interpreter locator. venvDir is the
// virtual-environment directory name relative to the project directory.
func NewSystemInterpreter(runner ports.CommandRunner, venvDir string) *SystemInterpreter {
	if venvDir == "" {
		venvDir = "venv"
	}
	return &SystemInterpreter{runner: runner, venvDir: venvDir}
}

// VenvPath implements ports.Interpreter. Both the POSIX and Windows
// environment layouts are recognized.
func (s *SystemInterpreter) VenvPath(projectDir string) (string, error) {
	root := filepath.Join(projectDir, s.venvDir)
	candidates := []string{
		filepath.Join(root, "bin", "python"),
		filepath.Join(root, "Scripts", "python.exe"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no interpreter under %s", root)
}

// Path implements ports.Interpreter.
func (s *SystemInterpreter) Path(projectDir string) (string, error) {
	if venv, err := s.VenvPath(projectDir); err == nil {
		return venv, nil
	}
	for _, name := range []string{"python3", "python"} {
		if path, err := s.runner.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New("python interpreter not found on PATH")
}

// Version implements ports.Interpreter. Older interpreters print the
// banner on stderr, so both streams are inspected.
func (s *SystemInterpreter) Version(ctx context.Context, interpreter string) (string, error) {
	result, err := s.runner.Run(ctx, interpreter, "--version")
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(result.CombinedOutput())
	if m := versionRe.FindStringSubmatch(out); len(m) > 1 {
		return m[1], nil
	}
	return out, nil
}

// CheckImport implements ports.Interpreter. The last traceback line
// carries the useful message, so only that line is reported.
func (s *SystemInterpreter) CheckImport(ctx context.Context, interpreter, module string) error {
	result, err := s.runner.Run(ctx, interpreter, "-c", "import "+module)
	if err != nil {
		if detail := lastLine(result.Stderr); detail != "" {
			return errors.New(detail)
		}
		return err
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ ports.Interpreter = (*SystemInterpreter)(nil)
