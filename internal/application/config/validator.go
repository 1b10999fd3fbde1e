// Package config validates the deployment configuration beyond what
// YAML decoding can express.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/reviewassist/reviewctl/internal/domain"
)

// Validate ensures a loaded config is internally consistent. It expects
// a hydrated config: defaults are filled in by the loader, so empty
// required fields here mean the operator explicitly blanked them.
func Validate(cfg domain.Config) error {
	if cfg.Project.Dir == "" {
		return errors.New("project.dir must be set")
	}
	if err := validateService(cfg.Service); err != nil {
		return err
	}
	if err := validateProxy(cfg.Proxy); err != nil {
		return err
	}
	if err := validateHealth(cfg.Health); err != nil {
		return err
	}
	return nil
}

func validateService(svc domain.ServiceSettings) error {
	if svc.Name == "" {
		return errors.New("service.name must be set")
	}
	if strings.ContainsAny(svc.Name, "/ \t") {
		return fmt.Errorf("service.name %q is not a valid unit name", svc.Name)
	}
	if svc.Port < 1 || svc.Port > 65535 {
		return fmt.Errorf("service.port must be within 1-65535, got %d", svc.Port)
	}
	if svc.AppModule == "" {
		return errors.New("service.app_module must be set")
	}
	if svc.RestartSec < 0 {
		return fmt.Errorf("service.restart_sec must be >= 0, got %d", svc.RestartSec)
	}
	return nil
}

func validateProxy(proxy domain.ProxySettings) error {
	if proxy.Domain == "" {
		// No domain, no proxy stage; the remaining proxy fields are inert.
		return nil
	}
	if strings.Contains(proxy.Domain, "://") || strings.ContainsAny(proxy.Domain, "/ ") {
		return fmt.Errorf("proxy.domain must be a bare hostname, got %q", proxy.Domain)
	}
	if proxy.Email != "" && !strings.Contains(proxy.Email, "@") {
		return fmt.Errorf("proxy.email %q is not an email address", proxy.Email)
	}
	return nil
}

func validateHealth(health domain.HealthSettings) error {
	u, err := url.Parse(health.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("health.base_url must be an http(s) URL, got %q", health.BaseURL)
	}
	if health.TimeoutSeconds <= 0 {
		return fmt.Errorf("health.timeout must be > 0, got %d", health.TimeoutSeconds)
	}
	return nil
}
