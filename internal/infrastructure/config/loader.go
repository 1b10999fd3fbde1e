// Package config loads and persists the deployment configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/pkg/filesystem"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// FileLoader loads YAML configuration from ./reviewctl.yaml
// (overridable via REVIEWCTL_CONFIG). Load never writes: when the file
// is absent the built-in defaults are returned in memory, so read-only
// workflows stay read-only.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load() (*domain.Config, error) {
	path := l.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			return &cfg, nil
		}
		return nil, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	hydrateDefaults(&cfg)
	return &cfg, nil
}

// Save implements ports.ConfigProvider. The write goes through a
// temporary file so an interrupted save never leaves a truncated
// config behind.
func (l *FileLoader) Save(cfg *domain.Config) error {
	path := l.Path()
	if err := filesystem.EnsureDir(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return filesystem.WriteFileAtomic(path, raw, domain.SharedFilePermissions)
}

// Path implements ports.ConfigProvider.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("REVIEWCTL_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return "reviewctl.yaml"
}

// Default returns the configuration used when no file exists: a
// review-assistant checkout in the current directory, served on port
// 8000 with no public proxy.
func Default() domain.Config {
	cfg := domain.Config{
		ConfigFormatVersion: "1",
		Project: domain.ProjectSettings{
			Dir: ".",
		},
		Proxy: domain.ProxySettings{},
	}
	hydrateDefaults(&cfg)
	return cfg
}

func hydrateDefaults(cfg *domain.Config) {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	p := &cfg.Project
	if p.Dir == "" {
		p.Dir = "."
	}
	if p.VenvDir == "" {
		p.VenvDir = "venv"
	}
	if p.Manifest == "" {
		p.Manifest = "requirements.txt"
	}
	if p.EnvFile == "" {
		p.EnvFile = ".env"
	}
	if p.EnvTemplate == "" {
		p.EnvTemplate = ".env.example"
	}
	if len(p.Packages) == 0 {
		p.Packages = []string{"fastapi", "uvicorn", "sqlalchemy", "openai", "httpx", "apscheduler", "dotenv"}
	}
	if len(p.RequiredPaths) == 0 {
		p.RequiredPaths = []string{"app", "app/main.py", "app/api/routes", "app/services", "static"}
	}
	if len(p.Docs) == 0 {
		p.Docs = []string{"README.md", "DEPLOY.md"}
	}

	s := &cfg.Service
	if s.Name == "" {
		s.Name = "review-assistant"
	}
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8000
	}
	if s.AppModule == "" {
		s.AppModule = "app.main:app"
	}
	if s.RestartSec == 0 {
		s.RestartSec = domain.DefaultRestartSec
	}

	pr := &cfg.Proxy
	if pr.SitesAvailable == "" {
		pr.SitesAvailable = "/etc/nginx/sites-available"
	}
	if pr.SitesEnabled == "" {
		pr.SitesEnabled = "/etc/nginx/sites-enabled"
	}

	h := &cfg.Health
	if h.BaseURL == "" {
		h.BaseURL = fmt.Sprintf("http://localhost:%d", s.Port)
	}
	if h.TimeoutSeconds == 0 {
		h.TimeoutSeconds = 5
	}
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
