package nginx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/pkg/filesystem"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// Configurator installs the rendered site under sites-available,
// enables it, and obtains the TLS certificate through certbot.
type Configurator struct {
	runner         ports.CommandRunner
	sitesAvailable string
	sitesEnabled   string
	logger         ports.Logger
}

// NewConfigurator builds a configurator for the Debian-style nginx
// layout.
func NewConfigurator(runner ports.CommandRunner, sitesAvailable, sitesEnabled string, logger ports.Logger) *Configurator {
	if sitesAvailable == "" {
		sitesAvailable = "/etc/nginx/sites-available"
	}
	if sitesEnabled == "" {
		sitesEnabled = "/etc/nginx/sites-enabled"
	}
	return &Configurator{
		runner:         runner,
		sitesAvailable: sitesAvailable,
		sitesEnabled:   sitesEnabled,
		logger:         logger,
	}
}

// Install implements ports.ProxyConfigurator. Any prior definition for
// the domain is replaced wholesale. nginx is only reloaded once its own
// validator accepts the new configuration; on rejection the returned
// result still carries the written site path for the operator.
func (c *Configurator) Install(ctx context.Context, spec domain.ProxySiteSpec) (domain.ProxyInstallResult, error) {
	rendered, err := RenderSite(spec)
	if err != nil {
		return domain.ProxyInstallResult{}, err
	}

	sitePath := filepath.Join(c.sitesAvailable, spec.Domain)
	c.logger.Info("writing proxy site", map[string]interface{}{"path": sitePath})
	if err := filesystem.WriteFileAtomic(sitePath, []byte(rendered), domain.SharedFilePermissions); err != nil {
		return domain.ProxyInstallResult{}, err
	}
	result := domain.ProxyInstallResult{SitePath: sitePath}

	if err := replaceSymlink(sitePath, filepath.Join(c.sitesEnabled, spec.Domain)); err != nil {
		return result, fmt.Errorf("enable site %s: %w", spec.Domain, err)
	}

	// The stock default site would shadow ours on a fresh host.
	defaultLink := filepath.Join(c.sitesEnabled, "default")
	if err := os.Remove(defaultLink); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("could not remove default site", map[string]interface{}{"path": defaultLink, "error": err.Error()})
	}

	if check, err := c.runner.Run(ctx, "nginx", "-t"); err != nil {
		return result, &domain.ProxyConfigInvalidError{SitePath: sitePath, Output: check.CombinedOutput()}
	}
	if reload, err := c.runner.Run(ctx, "systemctl", "reload", "nginx"); err != nil {
		return result, fmt.Errorf("reload nginx: %s", runDetail(reload, err))
	}
	result.Reloaded = true
	return result, nil
}

// ObtainCertificate implements ports.ProxyConfigurator. certbot runs
// non-interactively; on failure the site keeps serving plain HTTP.
func (c *Configurator) ObtainCertificate(ctx context.Context, domainName, email string) error {
	args := []string{"--nginx", "-d", domainName, "--non-interactive", "--agree-tos"}
	if email != "" {
		args = append(args, "-m", email)
	} else {
		args = append(args, "--register-unsafely-without-email")
	}

	if result, err := c.runner.Run(ctx, "certbot", args...); err != nil {
		return &domain.CertificateError{Domain: domainName, Output: result.CombinedOutput(), Err: err}
	}
	return nil
}

func replaceSymlink(target, link string) error {
	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Symlink(target, link)
}

func runDetail(result domain.CommandResult, err error) string {
	if detail := strings.TrimSpace(result.CombinedOutput()); detail != "" {
		return detail
	}
	return err.Error()
}

var _ ports.ProxyConfigurator = (*Configurator)(nil)
