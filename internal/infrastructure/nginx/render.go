// Package nginx renders and installs the reverse-proxy site.
package nginx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/reviewassist/reviewctl/assets"
	"github.com/reviewassist/reviewctl/internal/domain"
)

var siteTmpl = template.Must(template.New("site").Parse(assets.ProxySiteTemplate))

// RenderSite renders the site definition for spec and structurally
// validates the result before it can reach disk.
func RenderSite(spec domain.ProxySiteSpec) (string, error) {
	if spec.Domain == "" {
		return "", errors.New("proxy site needs a domain")
	}
	if spec.UpstreamPort == 0 {
		return "", fmt.Errorf("proxy site for %s needs an upstream port", spec.Domain)
	}
	if spec.ListenPort == 0 {
		spec.ListenPort = 80
	}

	var buf bytes.Buffer
	if err := siteTmpl.Execute(&buf, spec); err != nil {
		return "", err
	}
	rendered := buf.String()
	if err := ValidateSite(rendered); err != nil {
		return "", fmt.Errorf("site for %s: %w", spec.Domain, err)
	}
	return rendered, nil
}

// ValidateSite structurally checks a site definition. nginx -t remains
// the authority; this catches broken output before it is written at
// all.
func ValidateSite(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("empty site definition")
	}
	if !balancedBraces(content) {
		return errors.New("unbalanced braces")
	}
	return nil
}

func balancedBraces(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
