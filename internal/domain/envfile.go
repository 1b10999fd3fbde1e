package domain

import "strings"

// EnvFile is a parsed KEY=VALUE configuration document. Keys preserve
// file order so reports read the way the file does.
type EnvFile struct {
	Keys   []string
	Values map[string]string
}

// Get returns the value for key, empty when absent.
func (f EnvFile) Get(key string) string {
	return f.Values[key]
}

// Has reports whether key appears in the file, even with an empty value.
func (f EnvFile) Has(key string) bool {
	_, ok := f.Values[key]
	return ok
}

// CredentialEnvKeys hold operator secrets. They must be present and
// carry a non-placeholder value before the service can talk to Ozon.
var CredentialEnvKeys = []string{
	"OZON_CLIENT_ID",
	"OZON_API_KEY",
}

// RequiredEnvKeys must at least be present for the service to boot.
var RequiredEnvKeys = []string{
	"DATABASE_URL",
	"HOST",
	"PORT",
}

// ProviderEnvKeys maps an AI provider selector to the credential keys it
// requires.
var ProviderEnvKeys = map[string][]string{
	"openai": {"OPENAI_API_KEY"},
	"yandex": {"YANDEX_API_KEY", "YANDEX_FOLDER_ID"},
}

// IsPlaceholder reports whether a value still looks like the seeded
// template text rather than an operator-provided credential.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	return strings.HasPrefix(v, "your_") || strings.HasSuffix(v, "_here") || v == "changeme"
}

// MaterializeSource records where a materialized env file came from.
type MaterializeSource string

const (
	MaterializeExisting MaterializeSource = "existing"
	MaterializeTemplate MaterializeSource = "template"
	MaterializeDefault  MaterializeSource = "default"
)

// MaterializeResult reports what the configuration materializer did.
type MaterializeResult struct {
	Path    string
	Created bool
	Source  MaterializeSource
}
