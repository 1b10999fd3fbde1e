package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewassist/reviewctl/internal/domain"
)

type staticConfig struct {
	cfg domain.Config
}

func (s *staticConfig) Load() (*domain.Config, error) {
	cfg := s.cfg
	return &cfg, nil
}

func (s *staticConfig) Save(*domain.Config) error { return nil }
func (s *staticConfig) Path() string              { return "reviewctl.yaml" }

type stubRunner struct {
	missing map[string]bool
	looked  []string
}

func (r *stubRunner) Run(context.Context, string, ...string) (domain.CommandResult, error) {
	return domain.CommandResult{}, nil
}

func (r *stubRunner) LookPath(name string) (string, error) {
	r.looked = append(r.looked, name)
	if r.missing[name] {
		return "", errors.New("exec: " + name + ": executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

type stubInterpreter struct {
	path     string
	pathErr  error
	venvPath string
	venvErr  error
	version  string
}

func newStubInterpreter() *stubInterpreter {
	return &stubInterpreter{
		path:     "/usr/bin/python3",
		venvPath: "/opt/review-assistant/venv/bin/python",
		version:  "3.11.4",
	}
}

func (i *stubInterpreter) Path(string) (string, error)     { return i.path, i.pathErr }
func (i *stubInterpreter) VenvPath(string) (string, error) { return i.venvPath, i.venvErr }

func (i *stubInterpreter) Version(context.Context, string) (string, error) {
	return i.version, nil
}

func (i *stubInterpreter) CheckImport(context.Context, string, string) error { return nil }

type stubInstaller struct {
	created    bool
	ensureErr  error
	installErr error
	ensured    bool
	installed  []string
}

func (i *stubInstaller) EnsureEnvironment(context.Context, string) (bool, error) {
	i.ensured = true
	if i.ensureErr != nil {
		return false, i.ensureErr
	}
	return i.created, nil
}

func (i *stubInstaller) Install(_ context.Context, _ string, manifest string) error {
	i.installed = append(i.installed, manifest)
	return i.installErr
}

type stubMaterializer struct {
	result domain.MaterializeResult
	err    error
	called bool
}

func (m *stubMaterializer) Materialize(string) (domain.MaterializeResult, error) {
	m.called = true
	return m.result, m.err
}

func (m *stubMaterializer) Inspect(string) (*domain.EnvFile, error) { return nil, nil }

type stubManager struct {
	status     domain.ServiceStatus
	statusErr  error
	startErr   error
	restartErr error
	calls      []string
	registered []domain.ServiceUnitSpec
}

func (m *stubManager) Register(_ context.Context, spec domain.ServiceUnitSpec) error {
	m.calls = append(m.calls, "register")
	m.registered = append(m.registered, spec)
	return nil
}

func (m *stubManager) Start(context.Context, string) error {
	m.calls = append(m.calls, "start")
	return m.startErr
}

func (m *stubManager) Restart(context.Context, string) error {
	m.calls = append(m.calls, "restart")
	return m.restartErr
}

func (m *stubManager) Stop(context.Context, string) error {
	m.calls = append(m.calls, "stop")
	return nil
}

func (m *stubManager) Status(context.Context, string) (domain.ServiceStatus, error) {
	m.calls = append(m.calls, "status")
	return m.status, m.statusErr
}

func (m *stubManager) Diagnostics(context.Context, string) string { return "" }

type stubProxy struct {
	installErr error
	certErr    error
	installed  []domain.ProxySiteSpec
	certs      []string
}

func (p *stubProxy) Install(_ context.Context, spec domain.ProxySiteSpec) (domain.ProxyInstallResult, error) {
	p.installed = append(p.installed, spec)
	if p.installErr != nil {
		return domain.ProxyInstallResult{}, p.installErr
	}
	result := domain.ProxyInstallResult{Reloaded: true}
	result.SitePath = "/etc/nginx/sites-available/" + spec.Domain
	return result, nil
}

func (p *stubProxy) ObtainCertificate(_ context.Context, domainName, _ string) error {
	p.certs = append(p.certs, domainName)
	return p.certErr
}

// stubVerifier stands in for the shared health probes, appending one
// passing check the way the real verifier would.
type stubVerifier struct {
	baseURLs []string
}

func (v *stubVerifier) HealthChecks(_ context.Context, baseURL string, report *domain.RunReport) {
	v.baseURLs = append(v.baseURLs, baseURL)
	report.Append(domain.Pass("GET /api/health/status", `response contains "healthy"`))
}

type recordingReporter struct {
	infos []string
}

func (r *recordingReporter) Phase(string)              {}
func (r *recordingReporter) Result(domain.CheckResult) {}

func (r *recordingReporter) Info(format string, args ...any) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Summary(*domain.RunReport) {}

func (r *recordingReporter) infoContaining(substr string) bool {
	for _, line := range r.infos {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type deployStubs struct {
	runner   *stubRunner
	interp   *stubInterpreter
	install  *stubInstaller
	mat      *stubMaterializer
	manager  *stubManager
	proxy    *stubProxy
	verifier *stubVerifier
	reporter *recordingReporter
}

func newTestDeploy(cfg domain.Config) (*Service, *deployStubs) {
	stubs := &deployStubs{
		runner:   &stubRunner{missing: make(map[string]bool)},
		interp:   newStubInterpreter(),
		install:  &stubInstaller{},
		mat:      &stubMaterializer{},
		manager:  &stubManager{},
		proxy:    &stubProxy{},
		verifier: &stubVerifier{},
		reporter: &recordingReporter{},
	}
	service := &Service{
		ConfigProvider: &staticConfig{cfg: cfg},
		Runner:         stubs.runner,
		Interpreter:    stubs.interp,
		Installer:      stubs.install,
		Materializer:   stubs.mat,
		ServiceManager: stubs.manager,
		Proxy:          stubs.proxy,
		Verifier:       stubs.verifier,
		Reporter:       stubs.reporter,
	}
	return service, stubs
}

// deployConfig describes a checkout with a manifest on disk, ready for
// every pipeline stage but without a public domain.
func deployConfig(t *testing.T) domain.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("fastapi\nuvicorn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := domain.Config{}
	cfg.Project.Dir = dir
	cfg.Project.Manifest = "requirements.txt"
	cfg.Project.EnvFile = ".env"
	cfg.Project.EnvTemplate = ".env.example"
	cfg.Service.Name = "review-assistant"
	cfg.Service.Host = "0.0.0.0"
	cfg.Service.Port = 8000
	cfg.Service.AppModule = "app.main:app"
	cfg.Service.RestartSec = 10
	cfg.Health.BaseURL = "http://localhost:8000"
	return cfg
}

func proxiedConfig(t *testing.T) domain.Config {
	t.Helper()
	cfg := deployConfig(t)
	cfg.Proxy.Domain = "review-assistant.ru"
	cfg.Proxy.Email = "admin@review-assistant.ru"
	return cfg
}

func checkNames(report *domain.RunReport) []string {
	names := make([]string, 0, len(report.Results))
	for _, result := range report.Results {
		names = append(names, result.Name)
	}
	return names
}

func TestRunFullPipelineWithProxy(t *testing.T) {
	cfg := proxiedConfig(t)
	service, stubs := newTestDeploy(cfg)
	stubs.mat.result = domain.MaterializeResult{Path: filepath.Join(cfg.Project.Dir, ".env"), Created: true, Source: domain.MaterializeDefault}

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Failed != 0 {
		t.Fatalf("got %d failures: %+v", report.Failed, report.Results)
	}

	want := []string{
		"Python runtime",
		"Manifest",
		"systemctl",
		"nginx",
		"certbot",
		"Virtual environment",
		"Dependency install",
		"Env file",
		"Unit registered",
		"Service active",
		"GET /api/health/status",
		"Proxy site",
		"TLS certificate",
	}
	got := checkNames(report)
	if len(got) != len(want) {
		t.Fatalf("got checks %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("check %d = %q, want %q", i, got[i], want[i])
		}
	}

	if len(stubs.manager.calls) != 3 || stubs.manager.calls[0] != "register" || stubs.manager.calls[2] != "start" {
		t.Errorf("manager calls = %v", stubs.manager.calls)
	}
	if len(stubs.verifier.baseURLs) != 1 || stubs.verifier.baseURLs[0] != "http://localhost:8000" {
		t.Errorf("verifier base URLs = %v", stubs.verifier.baseURLs)
	}
	if len(stubs.proxy.installed) != 1 || stubs.proxy.installed[0].Domain != "review-assistant.ru" {
		t.Errorf("proxy sites = %+v", stubs.proxy.installed)
	}
	if stubs.proxy.installed[0].UpstreamPort != 8000 {
		t.Errorf("upstream port = %d, want 8000", stubs.proxy.installed[0].UpstreamPort)
	}
	if len(stubs.proxy.certs) != 1 || stubs.proxy.certs[0] != "review-assistant.ru" {
		t.Errorf("certificates = %v", stubs.proxy.certs)
	}
	if !stubs.reporter.infoContaining("https://review-assistant.ru") {
		t.Errorf("success hint missing from %v", stubs.reporter.infos)
	}
}

func TestRunWithoutProxyDomain(t *testing.T) {
	service, stubs := newTestDeploy(deployConfig(t))

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Failed != 0 {
		t.Fatalf("got %d failures: %+v", report.Failed, report.Results)
	}

	if len(stubs.proxy.installed) != 0 || len(stubs.proxy.certs) != 0 {
		t.Error("proxy must not be touched without a configured domain")
	}
	for _, tool := range stubs.runner.looked {
		if tool == "nginx" || tool == "certbot" {
			t.Errorf("%s is only a prerequisite when a domain is configured", tool)
		}
	}
	if !stubs.reporter.infoContaining("skipping proxy and TLS") {
		t.Errorf("skip notice missing from %v", stubs.reporter.infos)
	}
}

func TestRunStartFailureHaltsPipeline(t *testing.T) {
	service, stubs := newTestDeploy(proxiedConfig(t))
	stubs.manager.startErr = &domain.ServiceStartFailureError{
		Unit:        "review-assistant",
		ActiveState: "failed",
		Diagnostics: "ModuleNotFoundError: No module named 'app'",
	}

	report, err := service.Run(context.Background())
	if err == nil {
		t.Fatal("a service that never settles must abort the pipeline")
	}

	last := report.Results[len(report.Results)-1]
	if last.Name != "Service active" || last.Status != domain.CheckFailed {
		t.Errorf("last check = %+v", last)
	}
	if len(stubs.verifier.baseURLs) != 0 {
		t.Error("health probes must not run against a dead service")
	}
	if len(stubs.proxy.installed) != 0 {
		t.Error("the proxy stage assumes a listening upstream")
	}
	if !stubs.reporter.infoContaining("ModuleNotFoundError") {
		t.Errorf("diagnostics missing from %v", stubs.reporter.infos)
	}
	if !stubs.reporter.infoContaining("systemctl status review-assistant") {
		t.Errorf("remediation hint missing from %v", stubs.reporter.infos)
	}
}

func TestRunCertificateFailureIsPartialSuccess(t *testing.T) {
	service, stubs := newTestDeploy(proxiedConfig(t))
	stubs.proxy.certErr = &domain.CertificateError{
		Domain: "review-assistant.ru",
		Output: "Challenge failed for domain review-assistant.ru",
		Err:    errors.New("exit status 1"),
	}

	report, err := service.Run(context.Background())
	if err == nil {
		t.Fatal("certificate issuance failure must surface as an error")
	}

	if report.Failed != 1 {
		t.Errorf("got %d failures, want only the TLS step: %+v", report.Failed, report.Results)
	}
	site := report.Results[len(report.Results)-2]
	if site.Name != "Proxy site" || site.Status != domain.CheckPassed {
		t.Errorf("the site stays enabled on plain HTTP: %+v", site)
	}
	if !stubs.reporter.infoContaining("partial success") {
		t.Errorf("partial success notice missing from %v", stubs.reporter.infos)
	}
	if !stubs.reporter.infoContaining("Challenge failed") {
		t.Errorf("certbot output missing from %v", stubs.reporter.infos)
	}
}

func TestRunInstallFailureStopsBeforeConfiguration(t *testing.T) {
	service, stubs := newTestDeploy(deployConfig(t))
	stubs.install.installErr = &domain.InstallFailureError{
		Manifest: "requirements.txt",
		Output:   "ERROR: No matching distribution found for fastapi",
		Err:      errors.New("exit status 1"),
	}

	_, err := service.Run(context.Background())
	if err == nil {
		t.Fatal("a failed install must abort the pipeline")
	}

	if stubs.mat.called {
		t.Error("env materialization must not run after a failed install")
	}
	if len(stubs.manager.calls) != 0 {
		t.Errorf("service manager must not run after a failed install, got %v", stubs.manager.calls)
	}
	if !stubs.reporter.infoContaining("No matching distribution") {
		t.Errorf("pip output missing from %v", stubs.reporter.infos)
	}
}

func TestRunMissingCertbotAbortsBeforeMutation(t *testing.T) {
	service, stubs := newTestDeploy(proxiedConfig(t))
	stubs.runner.missing["certbot"] = true

	report, err := service.Run(context.Background())

	var missing *domain.MissingPrerequisiteError
	if !errors.As(err, &missing) || missing.Name != "certbot" {
		t.Fatalf("got %v, want a missing certbot prerequisite", err)
	}
	if stubs.install.ensured {
		t.Error("nothing may be mutated when a prerequisite is missing")
	}
	last := report.Results[len(report.Results)-1]
	if last.Name != "certbot" || last.Status != domain.CheckFailed {
		t.Errorf("last check = %+v", last)
	}
}

func TestRunRestartsRunningService(t *testing.T) {
	service, stubs := newTestDeploy(deployConfig(t))
	stubs.manager.status = domain.ServiceStatus{State: domain.ServiceRunning}

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	for _, call := range stubs.manager.calls {
		if call == "start" {
			t.Errorf("a running service is restarted, not started again: %v", stubs.manager.calls)
		}
	}
	active := report.Results[len(report.Results)-2]
	if active.Name != "Service active" || !strings.Contains(active.Message, "restarted") {
		t.Errorf("service check = %+v", active)
	}
}

func TestRunRegistersUvicornUnit(t *testing.T) {
	cfg := deployConfig(t)
	service, stubs := newTestDeploy(cfg)
	stubs.install.created = true

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(stubs.manager.registered) != 1 {
		t.Fatalf("registered units = %+v", stubs.manager.registered)
	}
	spec := stubs.manager.registered[0]
	if spec.Name != "review-assistant" {
		t.Errorf("unit name = %q", spec.Name)
	}
	wantExec := "/opt/review-assistant/venv/bin/python -m uvicorn app.main:app --host 0.0.0.0 --port 8000"
	if spec.ExecStart != wantExec {
		t.Errorf("ExecStart = %q, want %q", spec.ExecStart, wantExec)
	}
	if spec.PathEnv != "/opt/review-assistant/venv/bin" {
		t.Errorf("PathEnv = %q", spec.PathEnv)
	}
	if spec.WorkingDir != cfg.Project.Dir {
		t.Errorf("WorkingDir = %q, want %q", spec.WorkingDir, cfg.Project.Dir)
	}

	venv := findCheck(t, report, "Virtual environment")
	if venv.Message != "created" {
		t.Errorf("venv check = %+v", venv)
	}
}

func TestRunTemplateSeedingAsksForCredentials(t *testing.T) {
	cfg := deployConfig(t)
	service, stubs := newTestDeploy(cfg)
	stubs.mat.result = domain.MaterializeResult{Path: filepath.Join(cfg.Project.Dir, ".env"), Created: true, Source: domain.MaterializeTemplate}

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	envCheck := findCheck(t, report, "Env file")
	if !strings.Contains(envCheck.Message, ".env.example") {
		t.Errorf("env check should name the template: %+v", envCheck)
	}
	if !stubs.reporter.infoContaining("fill in your credentials") {
		t.Errorf("credential reminder missing from %v", stubs.reporter.infos)
	}
}

func TestRunKeepsExistingEnvFile(t *testing.T) {
	cfg := deployConfig(t)
	service, stubs := newTestDeploy(cfg)
	stubs.mat.result = domain.MaterializeResult{Path: filepath.Join(cfg.Project.Dir, ".env"), Created: false, Source: domain.MaterializeExisting}

	report, err := service.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	envCheck := findCheck(t, report, "Env file")
	if !strings.Contains(envCheck.Message, "left untouched") {
		t.Errorf("env check = %+v", envCheck)
	}
	if stubs.reporter.infoContaining("fill in your credentials") {
		t.Error("no credential reminder when the operator already has an env file")
	}
}

func findCheck(t *testing.T, report *domain.RunReport, name string) domain.CheckResult {
	t.Helper()
	for _, result := range report.Results {
		if result.Name == name {
			return result
		}
	}
	t.Fatalf("no check named %q in %+v", name, report.Results)
	return domain.CheckResult{}
}
