// Package probe implements the environment verification workflow: a
// fixed list of non-destructive checks over the host and the project
// checkout, grouped into numbered phases.
package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// Service runs environment diagnostics. Every check is observational;
// nothing on the host is mutated.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Interpreter    ports.Interpreter
	Materializer   ports.EnvMaterializer
	Reporter       ports.Reporter
	Logger         ports.Logger
}

// Run executes all checks and returns the aggregated report. Checks are
// independent: a failure never stops the remaining ones.
func (s *Service) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{}

	cfg, err := s.ConfigProvider.Load()
	if err != nil {
		s.emit(report, domain.Fail("Deployment config", err.Error()))
		return report, err
	}
	dir := cfg.Project.Dir

	s.phase("1. Runtime")
	py, pyErr := s.Interpreter.Path(dir)
	if pyErr != nil {
		s.emit(report, domain.Fail("Python runtime", pyErr.Error()))
	} else {
		msg := py
		if version, err := s.Interpreter.Version(ctx, py); err == nil && version != "" {
			msg = fmt.Sprintf("%s (%s)", version, py)
		}
		s.emit(report, domain.Pass("Python runtime", msg))

		if err := s.Interpreter.CheckImport(ctx, py, "pip"); err != nil {
			s.emit(report, domain.Fail("pip module", err.Error()))
		} else {
			s.emit(report, domain.Pass("pip module", "available"))
		}
	}

	s.phase("2. Virtual environment")
	venvRoot := cfg.Project.VenvRoot()
	if info, err := os.Stat(venvRoot); err != nil {
		s.emit(report, domain.Warn("Virtual environment", fmt.Sprintf("%s not created yet (deploy creates it)", venvRoot)))
	} else if !info.IsDir() {
		s.emit(report, domain.Fail("Virtual environment", venvRoot+" is not a directory"))
	} else if venvPy, err := s.Interpreter.VenvPath(dir); err != nil {
		s.emit(report, domain.Fail("Virtual environment", err.Error()))
	} else {
		s.emit(report, domain.Pass("Virtual environment", venvPy))
	}

	s.phase("3. Packages")
	manifest := cfg.Project.ManifestPath()
	if _, err := os.Stat(manifest); err != nil {
		s.emit(report, domain.Fail("Manifest", manifest+" not found"))
	} else {
		s.emit(report, domain.Pass("Manifest", manifest))
	}
	for _, pkg := range cfg.Project.Packages {
		name := "Package " + pkg
		if pyErr != nil {
			s.emit(report, domain.Fail(name, "no interpreter to import with"))
			continue
		}
		if err := s.Interpreter.CheckImport(ctx, py, pkg); err != nil {
			s.emit(report, domain.Fail(name, err.Error()))
		} else {
			s.emit(report, domain.Pass(name, "importable"))
		}
	}

	s.phase("4. Configuration")
	envPath := cfg.Project.EnvFilePath()
	if _, err := os.Stat(envPath); err != nil {
		s.emit(report, domain.Warn("Env file", envPath+" not found (deploy materializes it)"))
	} else {
		s.emit(report, domain.Pass("Env file", envPath))
		if env, err := s.Materializer.Inspect(envPath); err != nil {
			s.emit(report, domain.Fail("Env format", err.Error()))
		} else {
			s.checkEnvKeys(report, env)
		}
	}

	s.phase("5. Project structure")
	for _, rel := range cfg.Project.RequiredPaths {
		if _, err := os.Stat(cfg.Project.Resolve(rel)); err != nil {
			s.emit(report, domain.Fail(rel, "missing"))
		} else {
			s.emit(report, domain.Pass(rel, "present"))
		}
	}

	s.phase("6. Documentation")
	for _, doc := range cfg.Project.Docs {
		if _, err := os.Stat(cfg.Project.Resolve(doc)); err != nil {
			s.emit(report, domain.Fail(doc, "missing"))
		} else {
			s.emit(report, domain.Pass(doc, "present"))
		}
	}

	return report, nil
}

// checkEnvKeys verifies credentials are real values, the provider
// selection is coherent, and the boot keys exist. Everything here is a
// warning at worst: a seeded-but-unedited env file is an expected state
// right after a first deploy.
func (s *Service) checkEnvKeys(report *domain.RunReport, env *domain.EnvFile) {
	for _, key := range domain.CredentialEnvKeys {
		s.emit(report, credentialCheck(env, key))
	}

	provider := strings.ToLower(strings.TrimSpace(env.Get("AI_PROVIDER")))
	keys, known := domain.ProviderEnvKeys[provider]
	if !known {
		s.emit(report, domain.Warn("AI provider", fmt.Sprintf("unrecognized provider %q", provider)))
	} else {
		s.emit(report, domain.Pass("AI provider", provider))
		for _, key := range keys {
			s.emit(report, credentialCheck(env, key))
		}
	}

	var missing []string
	for _, key := range domain.RequiredEnvKeys {
		if !env.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		s.emit(report, domain.Warn("Core keys", "missing: "+strings.Join(missing, ", ")))
	} else {
		s.emit(report, domain.Pass("Core keys", strings.Join(domain.RequiredEnvKeys, ", ")))
	}
}

func credentialCheck(env *domain.EnvFile, key string) domain.CheckResult {
	if !env.Has(key) {
		return domain.Warn(key, "not set")
	}
	if domain.IsPlaceholder(env.Get(key)) {
		return domain.Warn(key, "placeholder value, edit your env file")
	}
	return domain.Pass(key, "configured")
}

func (s *Service) emit(report *domain.RunReport, result domain.CheckResult) {
	report.Append(result)
	if s.Reporter != nil {
		s.Reporter.Result(result)
	}
}

func (s *Service) phase(name string) {
	if s.Reporter != nil {
		s.Reporter.Phase(name)
	}
}
