package envfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/pkg/filesystem"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// FileMaterializer guarantees the runtime env file exists. File
// presence is the sole guard: an existing file is never read back,
// merged, or rewritten, so operator-edited secrets survive every run.
type FileMaterializer struct {
	envFile     string
	template    string
	defaultBody []byte
	logger      ports.Logger
}

// NewFileMaterializer builds a materializer. envFile and template are
// paths relative to the project directory; defaultBody is written when
// neither the target nor the template exists.
func NewFileMaterializer(envFile, template string, defaultBody []byte, logger ports.Logger) *FileMaterializer {
	return &FileMaterializer{
		envFile:     envFile,
		template:    template,
		defaultBody: defaultBody,
		logger:      logger,
	}
}

// Materialize implements ports.EnvMaterializer. The write is atomic: a
// crash mid-write can leave a stray temp file but never a truncated
// target.
func (m *FileMaterializer) Materialize(projectDir string) (domain.MaterializeResult, error) {
	target := filepath.Join(projectDir, m.envFile)

	if _, err := os.Stat(target); err == nil {
		return domain.MaterializeResult{Path: target, Source: domain.MaterializeExisting}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return domain.MaterializeResult{}, err
	}

	body := m.defaultBody
	source := domain.MaterializeDefault
	if m.template != "" {
		if data, err := os.ReadFile(filepath.Join(projectDir, m.template)); err == nil {
			body = data
			source = domain.MaterializeTemplate
		}
	}

	m.logger.Info("materializing env file", map[string]interface{}{"path": target, "source": string(source)})
	if err := filesystem.WriteFileAtomic(target, body, domain.SecureFilePermissions); err != nil {
		return domain.MaterializeResult{}, err
	}
	return domain.MaterializeResult{Path: target, Created: true, Source: source}, nil
}

// Inspect implements ports.EnvMaterializer.
func (m *FileMaterializer) Inspect(path string) (*domain.EnvFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

var _ ports.EnvMaterializer = (*FileMaterializer)(nil)
