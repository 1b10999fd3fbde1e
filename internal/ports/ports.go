// Package ports defines the boundary interfaces between the application
// services and the infrastructure adapters.
package ports

import (
	"context"

	"github.com/reviewassist/reviewctl/internal/domain"
)

// ConfigProvider loads deployment configuration and persists a default
// one on request. Load never writes.
type ConfigProvider interface {
	Load() (*domain.Config, error)
	Save(cfg *domain.Config) error
	Path() string
}

// CommandRunner executes external commands. Run returns the captured
// output even when the command exits non-zero so callers can surface
// diagnostics.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (domain.CommandResult, error)
	LookPath(name string) (string, error)
}

// Interpreter locates the language runtime used by the managed service.
type Interpreter interface {
	// Path returns the interpreter executable, preferring the project
	// virtual environment when it exists.
	Path(projectDir string) (string, error)
	// VenvPath returns the interpreter inside the virtual environment,
	// or an error when the environment is absent.
	VenvPath(projectDir string) (string, error)
	Version(ctx context.Context, interpreter string) (string, error)
	// CheckImport reports whether the named module imports cleanly under
	// the given interpreter.
	CheckImport(ctx context.Context, interpreter, module string) error
}

// PackageInstaller provisions the isolated environment and installs the
// dependency manifest into it.
type PackageInstaller interface {
	EnsureEnvironment(ctx context.Context, projectDir string) (created bool, err error)
	Install(ctx context.Context, projectDir, manifest string) error
}

// EnvMaterializer guarantees a runtime environment file exists without
// ever overwriting one that does.
type EnvMaterializer interface {
	Materialize(projectDir string) (domain.MaterializeResult, error)
	Inspect(path string) (*domain.EnvFile, error)
}

// ServiceManager registers and drives the managed unit under the system
// service supervisor.
type ServiceManager interface {
	Register(ctx context.Context, spec domain.ServiceUnitSpec) error
	Start(ctx context.Context, name string) error
	Restart(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Status(ctx context.Context, name string) (domain.ServiceStatus, error)
	// Diagnostics returns the supervisor's status text and recent journal
	// entries for a unit that failed to settle.
	Diagnostics(ctx context.Context, name string) string
}

// ProbeClient performs HTTP probes against the running service. Both
// methods report transport failure via ProbeResult.Unreachable rather
// than a Go error, so callers can classify unreachability as a warning.
type ProbeClient interface {
	Get(ctx context.Context, url string) domain.ProbeResult
	PostJSON(ctx context.Context, url string, payload any) domain.ProbeResult
}

// ProxyConfigurator renders, validates, and enables the reverse proxy
// site, and requests a TLS certificate for it.
type ProxyConfigurator interface {
	Install(ctx context.Context, spec domain.ProxySiteSpec) (domain.ProxyInstallResult, error)
	ObtainCertificate(ctx context.Context, domainName, email string) error
}

// HealthVerifier runs the liveness probes shared by the verify and
// deploy workflows, appending one CheckResult per probe.
type HealthVerifier interface {
	HealthChecks(ctx context.Context, baseURL string, report *domain.RunReport)
}

// RunHistory records workflow runs for later inspection.
type RunHistory interface {
	Save(record domain.RunRecord) error
	Records(limit int) ([]domain.RunRecord, error)
	Clear() error
}

// Reporter renders workflow progress for the operator.
type Reporter interface {
	Phase(name string)
	Result(result domain.CheckResult)
	Info(format string, args ...any)
	Summary(report *domain.RunReport)
}

// Logger provides structured logging capability.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
