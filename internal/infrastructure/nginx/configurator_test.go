package nginx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/pkg/logger"
)

type scriptedRunner struct {
	calls []string
	fail  map[string]string
}

func newScriptedRunner() *scriptedRunner {
	return &scriptedRunner{fail: make(map[string]string)}
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) (domain.CommandResult, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	if output, ok := r.fail[key]; ok {
		return domain.CommandResult{Stderr: output, ExitCode: 1}, errors.New("exit status 1")
	}
	return domain.CommandResult{}, nil
}

func (r *scriptedRunner) LookPath(name string) (string, error) {
	return "/usr/sbin/" + name, nil
}

func (r *scriptedRunner) called(prefix string) bool {
	for _, call := range r.calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

func newTestConfigurator(t *testing.T, runner *scriptedRunner) (*Configurator, string, string) {
	t.Helper()
	available := t.TempDir()
	enabled := t.TempDir()
	return NewConfigurator(runner, available, enabled, logger.NewStd(false)), available, enabled
}

func testSite() domain.ProxySiteSpec {
	return domain.ProxySiteSpec{
		Domain:       "review-assistant.ru",
		ListenPort:   80,
		UpstreamPort: 8000,
	}
}

func TestInstallWritesSiteAndReloads(t *testing.T) {
	runner := newScriptedRunner()
	cfg, available, enabled := newTestConfigurator(t, runner)

	result, err := cfg.Install(context.Background(), testSite())
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}

	sitePath := filepath.Join(available, "review-assistant.ru")
	if result.SitePath != sitePath {
		t.Errorf("got site path %q, want %q", result.SitePath, sitePath)
	}
	if !result.Reloaded {
		t.Error("expected nginx reload after a valid config")
	}

	data, err := os.ReadFile(sitePath)
	if err != nil {
		t.Fatalf("site file not written: %v", err)
	}
	if !strings.Contains(string(data), "proxy_pass http://127.0.0.1:8000;") {
		t.Errorf("site lacks upstream:\n%s", data)
	}

	link, err := os.Readlink(filepath.Join(enabled, "review-assistant.ru"))
	if err != nil {
		t.Fatalf("enabled symlink missing: %v", err)
	}
	if link != sitePath {
		t.Errorf("symlink points at %q, want %q", link, sitePath)
	}

	wantCalls := []string{"nginx -t", "systemctl reload nginx"}
	if len(runner.calls) != len(wantCalls) {
		t.Fatalf("got calls %v, want %v", runner.calls, wantCalls)
	}
	for i, want := range wantCalls {
		if runner.calls[i] != want {
			t.Errorf("call %d = %q, want %q", i, runner.calls[i], want)
		}
	}
}

func TestInstallIsRerunnable(t *testing.T) {
	runner := newScriptedRunner()
	cfg, _, _ := newTestConfigurator(t, runner)

	if _, err := cfg.Install(context.Background(), testSite()); err != nil {
		t.Fatalf("first Install error: %v", err)
	}
	if _, err := cfg.Install(context.Background(), testSite()); err != nil {
		t.Fatalf("second Install error: %v", err)
	}
}

func TestInstallNeverReloadsOnInvalidConfig(t *testing.T) {
	runner := newScriptedRunner()
	runner.fail["nginx -t"] = "nginx: [emerg] unexpected end of file"
	cfg, _, _ := newTestConfigurator(t, runner)

	result, err := cfg.Install(context.Background(), testSite())
	if err == nil {
		t.Fatal("expected validation failure")
	}

	var invalid *domain.ProxyConfigInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %T, want ProxyConfigInvalidError", err)
	}
	if !strings.Contains(invalid.Output, "unexpected end of file") {
		t.Errorf("error lacks validator output: %q", invalid.Output)
	}
	if result.SitePath == "" {
		t.Error("result should carry the written site path for the operator")
	}
	if result.Reloaded || runner.called("systemctl reload") {
		t.Error("nginx must not be reloaded when its validator rejects the config")
	}
}

func TestObtainCertificate(t *testing.T) {
	runner := newScriptedRunner()
	cfg, _, _ := newTestConfigurator(t, runner)

	if err := cfg.ObtainCertificate(context.Background(), "review-assistant.ru", "admin@review-assistant.ru"); err != nil {
		t.Fatalf("ObtainCertificate error: %v", err)
	}

	want := "certbot --nginx -d review-assistant.ru --non-interactive --agree-tos -m admin@review-assistant.ru"
	if len(runner.calls) != 1 || runner.calls[0] != want {
		t.Errorf("got calls %v, want [%s]", runner.calls, want)
	}
}

func TestObtainCertificateWithoutEmail(t *testing.T) {
	runner := newScriptedRunner()
	cfg, _, _ := newTestConfigurator(t, runner)

	if err := cfg.ObtainCertificate(context.Background(), "review-assistant.ru", ""); err != nil {
		t.Fatalf("ObtainCertificate error: %v", err)
	}
	if len(runner.calls) != 1 || !strings.Contains(runner.calls[0], "--register-unsafely-without-email") {
		t.Errorf("got calls %v, want unsafe registration flag", runner.calls)
	}
}

func TestObtainCertificateFailure(t *testing.T) {
	runner := newScriptedRunner()
	runner.fail["certbot --nginx -d review-assistant.ru --non-interactive --agree-tos --register-unsafely-without-email"] = "Challenge failed for domain review-assistant.ru"
	cfg, _, _ := newTestConfigurator(t, runner)

	err := cfg.ObtainCertificate(context.Background(), "review-assistant.ru", "")
	if err == nil {
		t.Fatal("expected certbot failure")
	}

	var certErr *domain.CertificateError
	if !errors.As(err, &certErr) {
		t.Fatalf("got %T, want CertificateError", err)
	}
	if !strings.Contains(certErr.Output, "Challenge failed") {
		t.Errorf("error lacks certbot output: %q", certErr.Output)
	}
}
