package domain

import "fmt"

// ProxySiteSpec is the reverse-proxy rule binding one public domain to
// the local upstream. The rendered site file is replaced wholesale on
// every deploy, never merged.
type ProxySiteSpec struct {
	Domain       string
	ListenPort   int
	UpstreamHost string
	UpstreamPort int
	StaticDir    string
}

// Upstream returns the proxy_pass target for the local service.
func (s ProxySiteSpec) Upstream() string {
	host := s.UpstreamHost
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, s.UpstreamPort)
}

// ProxyInstallResult reports what the proxy configurator did.
type ProxyInstallResult struct {
	SitePath string
	Reloaded bool
}
