package domain

// ServiceState tracks the lifecycle of the managed unit.
type ServiceState string

const (
	ServiceUnregistered ServiceState = "unregistered"
	ServiceStopped      ServiceState = "stopped"
	ServiceStarting     ServiceState = "starting"
	ServiceRunning      ServiceState = "running"
	ServiceFailed       ServiceState = "failed"
)

// ServiceUnitSpec declaratively describes the managed process. It is
// rendered into a systemd unit file at registration time; re-running the
// deploy rewrites the unit wholesale.
type ServiceUnitSpec struct {
	Name        string
	Description string
	WorkingDir  string
	ExecStart   string
	PathEnv     string
	User        string
	RestartSec  int
}

// ServiceStatus is the observed state of a registered unit.
type ServiceStatus struct {
	Name    string
	State   ServiceState
	Enabled bool
	Detail  string
}

// CommandResult captures one subprocess invocation.
type CommandResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
}

// CombinedOutput joins stdout and stderr for diagnostics.
func (r CommandResult) CombinedOutput() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}
