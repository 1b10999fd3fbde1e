package domain

import "path/filepath"

// Resolve interprets a config path entry relative to the project
// directory. Absolute entries and the empty string pass through
// unchanged.
func (p ProjectSettings) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// ManifestPath returns the resolved dependency manifest path.
func (p ProjectSettings) ManifestPath() string { return p.Resolve(p.Manifest) }

// EnvFilePath returns the resolved runtime env file path.
func (p ProjectSettings) EnvFilePath() string { return p.Resolve(p.EnvFile) }

// EnvTemplatePath returns the resolved env template path.
func (p ProjectSettings) EnvTemplatePath() string { return p.Resolve(p.EnvTemplate) }

// VenvRoot returns the resolved virtual environment directory.
func (p ProjectSettings) VenvRoot() string { return p.Resolve(p.VenvDir) }

// ProxyEnabled reports whether a public domain is configured. Without
// one the deploy pipeline ends after the health checks and the service
// stays on plain localhost HTTP.
func (c *Config) ProxyEnabled() bool {
	return c.Proxy.Domain != ""
}

// StaticDir returns the directory the proxy serves static files from,
// defaulting to the checkout's static/ directory when unset.
func (c *Config) StaticDir() string {
	if c.Proxy.StaticDir != "" {
		return c.Proxy.StaticDir
	}
	return c.Project.Resolve("static")
}
