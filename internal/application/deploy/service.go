// Package deploy implements the deployment pipeline: prerequisites,
// dependency install, config materialization, unit registration,
// service start, health probe, and optional proxy/TLS. Strictly linear
// and fail-fast; a fatal step aborts everything downstream.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// Service orchestrates a full deployment of the review-assistant
// checkout described by the loaded configuration.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Runner         ports.CommandRunner
	Interpreter    ports.Interpreter
	Installer      ports.PackageInstaller
	Materializer   ports.EnvMaterializer
	ServiceManager ports.ServiceManager
	Proxy          ports.ProxyConfigurator
	Verifier       ports.HealthVerifier
	Reporter       ports.Reporter
	Logger         ports.Logger
}

// Run executes the pipeline. The returned report carries one result per
// step; on a fatal step the report ends at that step and the error
// explains it. Warnings never abort.
func (s *Service) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{}

	cfg, err := s.ConfigProvider.Load()
	if err != nil {
		s.emit(report, domain.Fail("Deployment config", err.Error()))
		return report, err
	}
	dir := cfg.Project.Dir
	withProxy := cfg.ProxyEnabled()

	s.phase("1. Prerequisites")
	if err := s.checkPrerequisites(ctx, report, cfg, withProxy); err != nil {
		return report, err
	}

	s.phase("2. Dependencies")
	created, err := s.Installer.EnsureEnvironment(ctx, dir)
	if err != nil {
		s.emit(report, domain.Fail("Virtual environment", err.Error()))
		return report, err
	}
	if created {
		s.emit(report, domain.Pass("Virtual environment", "created"))
	} else {
		s.emit(report, domain.Pass("Virtual environment", "already present"))
	}

	manifest := cfg.Project.ManifestPath()
	if err := s.Installer.Install(ctx, dir, manifest); err != nil {
		s.emit(report, domain.Fail("Dependency install", err.Error()))
		s.surfaceInstallOutput(err)
		return report, err
	}
	s.emit(report, domain.Pass("Dependency install", manifest+" applied"))

	s.phase("3. Configuration")
	materialized, err := s.Materializer.Materialize(dir)
	if err != nil {
		s.emit(report, domain.Fail("Env file", err.Error()))
		return report, err
	}
	switch {
	case !materialized.Created:
		s.emit(report, domain.Pass("Env file", materialized.Path+" already present, left untouched"))
	case materialized.Source == domain.MaterializeTemplate:
		s.emit(report, domain.Pass("Env file", "seeded from "+cfg.Project.EnvTemplate))
		s.info("edit %s and fill in your credentials", materialized.Path)
	default:
		s.emit(report, domain.Pass("Env file", "seeded with placeholder defaults"))
		s.info("edit %s and fill in your credentials", materialized.Path)
	}

	s.phase("4. Service")
	spec, err := s.unitSpec(cfg)
	if err != nil {
		s.emit(report, domain.Fail("Unit definition", err.Error()))
		return report, err
	}
	if err := s.ServiceManager.Register(ctx, spec); err != nil {
		s.emit(report, domain.Fail("Unit registered", err.Error()))
		return report, err
	}
	s.emit(report, domain.Pass("Unit registered", spec.Name+".service enabled"))

	if err := s.startService(ctx, report, spec.Name); err != nil {
		// Fatal: the proxy stage assumes a listening upstream.
		return report, err
	}

	s.phase("5. Health")
	s.Verifier.HealthChecks(ctx, strings.TrimRight(cfg.Health.BaseURL, "/"), report)

	if !withProxy {
		s.info("no proxy domain configured, skipping proxy and TLS")
		return report, nil
	}

	s.phase("6. Proxy & TLS")
	if err := s.configureProxy(ctx, report, cfg); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Service) checkPrerequisites(ctx context.Context, report *domain.RunReport, cfg *domain.Config, withProxy bool) error {
	dir := cfg.Project.Dir

	py, err := s.Interpreter.Path(dir)
	if err != nil {
		s.emit(report, domain.Fail("Python runtime", err.Error()))
		return &domain.MissingPrerequisiteError{Name: "python3", Detail: err.Error()}
	}
	msg := py
	if version, err := s.Interpreter.Version(ctx, py); err == nil && version != "" {
		msg = fmt.Sprintf("%s (%s)", version, py)
	}
	s.emit(report, domain.Pass("Python runtime", msg))

	manifest := cfg.Project.ManifestPath()
	if _, err := os.Stat(manifest); err != nil {
		s.emit(report, domain.Fail("Manifest", manifest+" not found"))
		return &domain.MissingPrerequisiteError{Name: cfg.Project.Manifest, Detail: "manifest not found in " + dir}
	}
	s.emit(report, domain.Pass("Manifest", manifest))

	tools := []string{"systemctl"}
	if withProxy {
		tools = append(tools, "nginx", "certbot")
	}
	for _, tool := range tools {
		if _, err := s.Runner.LookPath(tool); err != nil {
			s.emit(report, domain.Fail(tool, "not found on PATH"))
			return &domain.MissingPrerequisiteError{Name: tool}
		}
		s.emit(report, domain.Pass(tool, "available"))
	}
	return nil
}

// unitSpec builds the systemd unit description: uvicorn from the venv,
// bound to the configured host and port.
func (s *Service) unitSpec(cfg *domain.Config) (domain.ServiceUnitSpec, error) {
	workingDir, err := filepath.Abs(cfg.Project.Dir)
	if err != nil {
		workingDir = cfg.Project.Dir
	}
	venvPy, err := s.Interpreter.VenvPath(cfg.Project.Dir)
	if err != nil {
		return domain.ServiceUnitSpec{}, err
	}
	venvPy, err = filepath.Abs(venvPy)
	if err != nil {
		return domain.ServiceUnitSpec{}, err
	}

	return domain.ServiceUnitSpec{
		Name:        cfg.Service.Name,
		Description: "Review assistant service for the Ozon marketplace",
		WorkingDir:  workingDir,
		ExecStart: fmt.Sprintf("%s -m uvicorn %s --host %s --port %d",
			venvPy, cfg.Service.AppModule, cfg.Service.Host, cfg.Service.Port),
		PathEnv:    filepath.Dir(venvPy),
		User:       cfg.Service.User,
		RestartSec: cfg.Service.RestartSec,
	}, nil
}

// startService restarts a running unit, starts a stopped one, and waits
// out the settle delay inside the manager. A unit that does not come up
// is fatal: its diagnostics are surfaced and the pipeline halts before
// the proxy stage.
func (s *Service) startService(ctx context.Context, report *domain.RunReport, name string) error {
	verb := "started"
	status, err := s.ServiceManager.Status(ctx, name)
	if err == nil && (status.State == domain.ServiceRunning || status.State == domain.ServiceStarting) {
		verb = "restarted"
		err = s.ServiceManager.Restart(ctx, name)
	} else {
		err = s.ServiceManager.Start(ctx, name)
	}
	if err != nil {
		s.emit(report, domain.Fail("Service active", err.Error()))
		var startErr *domain.ServiceStartFailureError
		if errors.As(err, &startErr) && startErr.Diagnostics != "" {
			s.info("%s", startErr.Diagnostics)
		}
		s.info("inspect with: systemctl status %s && journalctl -u %s -n %d", name, name, domain.JournalTailLines)
		return err
	}
	s.emit(report, domain.Pass("Service active", name+" "+verb))
	return nil
}

func (s *Service) configureProxy(ctx context.Context, report *domain.RunReport, cfg *domain.Config) error {
	staticDir := cfg.StaticDir()
	if abs, err := filepath.Abs(staticDir); err == nil {
		staticDir = abs
	}

	site := domain.ProxySiteSpec{
		Domain:       cfg.Proxy.Domain,
		ListenPort:   80,
		UpstreamPort: cfg.Service.Port,
		StaticDir:    staticDir,
	}
	result, err := s.Proxy.Install(ctx, site)
	if err != nil {
		s.emit(report, domain.Fail("Proxy site", err.Error()))
		var invalid *domain.ProxyConfigInvalidError
		if errors.As(err, &invalid) && invalid.Output != "" {
			s.info("%s", invalid.Output)
		}
		return err
	}
	s.emit(report, domain.Pass("Proxy site", result.SitePath+" enabled, nginx reloaded"))

	if err := s.Proxy.ObtainCertificate(ctx, cfg.Proxy.Domain, cfg.Proxy.Email); err != nil {
		s.emit(report, domain.Fail("TLS certificate", err.Error()))
		s.info("partial success: %s is reachable over plain HTTP only", cfg.Proxy.Domain)
		var certErr *domain.CertificateError
		if errors.As(err, &certErr) && certErr.Output != "" {
			s.info("%s", certErr.Output)
		}
		return err
	}
	s.emit(report, domain.Pass("TLS certificate", "issued for "+cfg.Proxy.Domain))
	s.info("service is live at https://%s", cfg.Proxy.Domain)
	return nil
}

func (s *Service) surfaceInstallOutput(err error) {
	var installErr *domain.InstallFailureError
	if errors.As(err, &installErr) && installErr.Output != "" {
		s.info("%s", installErr.Output)
	}
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

func (s *Service) info(format string, args ...any) {
	if s.Reporter != nil {
		s.Reporter.Info(format, args...)
	}
}
