package domain

import "fmt"

// The deploy pipeline distinguishes fatal failure kinds so the CLI can
// print the right remediation. Every fatal error aborts the linear
// pipeline immediately; nothing downstream runs.

// MissingPrerequisiteError reports an absent runtime or tool. Raised
// before any mutation happens.
type MissingPrerequisiteError struct {
	Name   string
	Detail string
}

func (e *MissingPrerequisiteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("missing prerequisite: %s", e.Name)
	}
	return fmt.Sprintf("missing prerequisite: %s (%s)", e.Name, e.Detail)
}

// InstallFailureError reports a non-zero exit from the package manager.
type InstallFailureError struct {
	Manifest string
	Output   string
	Err      error
}

func (e *InstallFailureError) Error() string {
	return fmt.Sprintf("dependency install from %s failed: %v", e.Manifest, e.Err)
}

func (e *InstallFailureError) Unwrap() error {
	return e.Err
}

// ServiceStartFailureError reports a unit that did not reach active
// state after the settle delay. Diagnostics carries the service
// manager's own status and journal output.
type ServiceStartFailureError struct {
	Unit        string
	ActiveState string
	Diagnostics string
}

func (e *ServiceStartFailureError) Error() string {
	return fmt.Sprintf("service %s failed to start (state: %s)", e.Unit, e.ActiveState)
}

// ProxyConfigInvalidError reports a rendered proxy configuration that
// failed validation. The proxy is never reloaded in this state.
type ProxyConfigInvalidError struct {
	SitePath string
	Output   string
}

func (e *ProxyConfigInvalidError) Error() string {
	return fmt.Sprintf("proxy configuration %s failed validation", e.SitePath)
}

// CertificateError reports a failed ACME issuance. Fatal for the TLS
// step only: the proxy stays up on plain HTTP and the partial success is
// reported to the operator.
type CertificateError struct {
	Domain string
	Output string
	Err    error
}

func (e *CertificateError) Error() string {
	return fmt.Sprintf("certificate issuance for %s failed: %v", e.Domain, e.Err)
}

func (e *CertificateError) Unwrap() error {
	return e.Err
}
