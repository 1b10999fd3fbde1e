// Package systemd drives the managed service unit through systemctl.
package systemd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/reviewassist/reviewctl/assets"
	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/pkg/filesystem"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// Manager registers and drives units under systemd.
type Manager struct {
	runner   ports.CommandRunner
	unitDir  string
	unitTmpl *template.Template
	settle   time.Duration
	sleep    func(time.Duration)
	logger   ports.Logger
}

// NewManager builds a systemd manager writing units to
// /etc/systemd/system.
func NewManager(runner ports.CommandRunner, logger ports.Logger) *Manager {
	return &Manager{
		runner:   runner,
		unitDir:  "/etc/systemd/system",
		unitTmpl: template.Must(template.New("unit").Parse(assets.ServiceUnitTemplate)),
		settle:   domain.SettleDelay,
		sleep:    time.Sleep,
		logger:   logger,
	}
}

// Register implements ports.ServiceManager. The unit file is replaced
// wholesale, the definition cache reloaded, and the unit enabled for
// boot.
func (m *Manager) Register(ctx context.Context, spec domain.ServiceUnitSpec) error {
	var rendered bytes.Buffer
	if err := m.unitTmpl.Execute(&rendered, spec); err != nil {
		return fmt.Errorf("render unit %s: %w", spec.Name, err)
	}

	path := m.unitPath(spec.Name)
	m.logger.Info("writing unit file", map[string]interface{}{"path": path})
	if err := filesystem.WriteFileAtomic(path, rendered.Bytes(), domain.SharedFilePermissions); err != nil {
		return fmt.Errorf("write unit %s: %w", path, err)
	}

	if result, err := m.runner.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload: %s", firstDetail(result, err))
	}
	if result, err := m.runner.Run(ctx, "systemctl", "enable", spec.Name); err != nil {
		return fmt.Errorf("enable %s: %s", spec.Name, firstDetail(result, err))
	}
	return nil
}

// Start implements ports.ServiceManager.
func (m *Manager) Start(ctx context.Context, name string) error {
	return m.startAndSettle(ctx, "start", name)
}

// Restart implements ports.ServiceManager.
func (m *Manager) Restart(ctx context.Context, name string) error {
	return m.startAndSettle(ctx, "restart", name)
}

// startAndSettle issues the verb, waits the fixed settle delay, then
// polls once. There is no retry loop: recovery from later crashes
// belongs to systemd's own Restart= policy.
func (m *Manager) startAndSettle(ctx context.Context, verb, name string) error {
	if result, err := m.runner.Run(ctx, "systemctl", verb, name); err != nil {
		return &domain.ServiceStartFailureError{
			Unit:        name,
			ActiveState: string(domain.ServiceFailed),
			Diagnostics: firstDetail(result, err),
		}
	}

	m.sleep(m.settle)

	status, err := m.Status(ctx, name)
	if err != nil {
		return err
	}
	if status.State != domain.ServiceRunning {
		return &domain.ServiceStartFailureError{
			Unit:        name,
			ActiveState: string(status.State),
			Diagnostics: m.Diagnostics(ctx, name),
		}
	}
	return nil
}

// Stop implements ports.ServiceManager.
func (m *Manager) Stop(ctx context.Context, name string) error {
	if result, err := m.runner.Run(ctx, "systemctl", "stop", name); err != nil {
		return fmt.Errorf("stop %s: %s", name, firstDetail(result, err))
	}
	return nil
}

// Status implements ports.ServiceManager. is-active exits non-zero for
// every state but active, so only the printed state matters here.
func (m *Manager) Status(ctx context.Context, name string) (domain.ServiceStatus, error) {
	status := domain.ServiceStatus{Name: name}

	if _, err := os.Stat(m.unitPath(name)); errors.Is(err, fs.ErrNotExist) {
		status.State = domain.ServiceUnregistered
		return status, nil
	}

	result, _ := m.runner.Run(ctx, "systemctl", "is-active", name)
	active := strings.TrimSpace(result.Stdout)
	status.Detail = active
	switch active {
	case "active":
		status.State = domain.ServiceRunning
	case "activating":
		status.State = domain.ServiceStarting
	case "failed":
		status.State = domain.ServiceFailed
	default:
		status.State = domain.ServiceStopped
	}

	enabled, _ := m.runner.Run(ctx, "systemctl", "is-enabled", name)
	status.Enabled = strings.TrimSpace(enabled.Stdout) == "enabled"

	return status, nil
}

// Diagnostics implements ports.ServiceManager. Collection is best
// effort; whatever systemctl and journalctl print is returned even on
// non-zero exit.
func (m *Manager) Diagnostics(ctx context.Context, name string) string {
	var sections []string

	if result, _ := m.runner.Run(ctx, "systemctl", "status", name, "--no-pager", "-l"); result.CombinedOutput() != "" {
		sections = append(sections, strings.TrimSpace(result.CombinedOutput()))
	}
	tail := fmt.Sprintf("-n%d", domain.JournalTailLines)
	if result, _ := m.runner.Run(ctx, "journalctl", "-u", name, tail, "--no-pager"); result.CombinedOutput() != "" {
		sections = append(sections, strings.TrimSpace(result.CombinedOutput()))
	}

	return strings.Join(sections, "\n\n")
}

func (m *Manager) unitPath(name string) string {
	return filepath.Join(m.unitDir, name+".service")
}

func firstDetail(result domain.CommandResult, err error) string {
	if detail := strings.TrimSpace(result.CombinedOutput()); detail != "" {
		return detail
	}
	return err.Error()
}

var _ ports.ServiceManager = (*Manager)(nil)
