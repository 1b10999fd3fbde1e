package assets

import (
	_ "embed"
)

// DefaultEnvFile contains the embedded fallback environment file with
// placeholder values for every required key.
//
//go:embed defaults/env.default
var DefaultEnvFile []byte

// ServiceUnitTemplate contains the embedded systemd unit template.
//
//go:embed defaults/unit.service.tmpl
var ServiceUnitTemplate string

// ProxySiteTemplate contains the embedded nginx site template.
//
//go:embed defaults/nginx-site.conf.tmpl
var ProxySiteTemplate string
