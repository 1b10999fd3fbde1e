package domain

// Config mirrors reviewctl.yaml, the deployment description for one
// review-assistant checkout.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Project             ProjectSettings `yaml:"project"`
	Service             ServiceSettings `yaml:"service"`
	Proxy               ProxySettings   `yaml:"proxy"`
	Health              HealthSettings  `yaml:"health"`
}

// ProjectSettings locates the Python project on disk. Relative paths are
// resolved against Dir.
type ProjectSettings struct {
	Dir           string   `yaml:"dir"`
	VenvDir       string   `yaml:"venv_dir"`
	Manifest      string   `yaml:"manifest"`
	EnvFile       string   `yaml:"env_file"`
	EnvTemplate   string   `yaml:"env_template"`
	Packages      []string `yaml:"packages"`
	RequiredPaths []string `yaml:"required_paths"`
	Docs          []string `yaml:"docs"`
}

// ServiceSettings describe the systemd unit running the service process.
// AppModule is the ASGI application reference passed to uvicorn.
type ServiceSettings struct {
	Name       string `yaml:"name"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	AppModule  string `yaml:"app_module"`
	RestartSec int    `yaml:"restart_sec"`
}

// ProxySettings configure the public-facing reverse proxy. An empty
// Domain disables the proxy/TLS stage entirely.
type ProxySettings struct {
	Domain         string `yaml:"domain"`
	Email          string `yaml:"email"`
	StaticDir      string `yaml:"static_dir"`
	SitesAvailable string `yaml:"sites_available"`
	SitesEnabled   string `yaml:"sites_enabled"`
}

// HealthSettings configure the HTTP probes.
type HealthSettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout"`
}
