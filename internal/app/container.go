package app

import (
	"context"
	"time"

	"github.com/reviewassist/reviewctl/assets"
	"github.com/reviewassist/reviewctl/internal/application/deploy"
	"github.com/reviewassist/reviewctl/internal/application/probe"
	"github.com/reviewassist/reviewctl/internal/application/verify"
	"github.com/reviewassist/reviewctl/internal/infrastructure/config"
	"github.com/reviewassist/reviewctl/internal/infrastructure/envfile"
	"github.com/reviewassist/reviewctl/internal/infrastructure/executil"
	"github.com/reviewassist/reviewctl/internal/infrastructure/history"
	"github.com/reviewassist/reviewctl/internal/infrastructure/httpprobe"
	"github.com/reviewassist/reviewctl/internal/infrastructure/nginx"
	"github.com/reviewassist/reviewctl/internal/infrastructure/python"
	"github.com/reviewassist/reviewctl/internal/infrastructure/systemd"
	"github.com/reviewassist/reviewctl/internal/pkg/logger"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// Container wires up application services with infrastructure adapters.
// Reporter is nil after BuildContainer; the CLI layer injects its own
// before commands run.
type Container struct {
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Runner         ports.CommandRunner
	Interpreter    ports.Interpreter
	Installer      ports.PackageInstaller
	Materializer   ports.EnvMaterializer
	ServiceManager ports.ServiceManager
	Probe          ports.ProbeClient
	Proxy          ports.ProxyConfigurator
	History        ports.RunHistory
	Reporter       ports.Reporter
	Logger         ports.Logger

	ProbeService  *probe.Service
	VerifyService *verify.Service
	DeployService *deploy.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	log := logger.NewStd(verbose)

	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load()
	if err != nil {
		return nil, err
	}

	runner := executil.NewLocalRunner("")
	interpreter := python.NewSystemInterpreter(runner, cfg.Project.VenvDir)
	installer := python.NewPipInstaller(runner, interpreter, cfg.Project.VenvDir, log)
	materializer := envfile.NewFileMaterializer(cfg.Project.EnvFile, cfg.Project.EnvTemplate, assets.DefaultEnvFile, log)
	serviceManager := systemd.NewManager(runner, log)
	probeClient := httpprobe.NewClient(time.Duration(cfg.Health.TimeoutSeconds) * time.Second)
	proxy := nginx.NewConfigurator(runner, cfg.Proxy.SitesAvailable, cfg.Proxy.SitesEnabled, log)

	runHistory := history.NewSQLiteStore()
	log.Debug("run history location", map[string]interface{}{"path": runHistory.Path()})

	probeService := &probe.Service{
		ConfigProvider: cfgLoader,
		Interpreter:    interpreter,
		Materializer:   materializer,
		Logger:         log,
	}

	verifyService := &verify.Service{
		ConfigProvider: cfgLoader,
		Probe:          probeClient,
		Logger:         log,
	}

	deployService := &deploy.Service{
		ConfigProvider: cfgLoader,
		Runner:         runner,
		Interpreter:    interpreter,
		Installer:      installer,
		Materializer:   materializer,
		ServiceManager: serviceManager,
		Proxy:          proxy,
		Verifier:       verifyService,
		Logger:         log,
	}

	return &Container{
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Runner:         runner,
		Interpreter:    interpreter,
		Installer:      installer,
		Materializer:   materializer,
		ServiceManager: serviceManager,
		Probe:          probeClient,
		Proxy:          proxy,
		History:        runHistory,
		Logger:         log,

		ProbeService:  probeService,
		VerifyService: verifyService,
		DeployService: deployService,
	}, nil
}
