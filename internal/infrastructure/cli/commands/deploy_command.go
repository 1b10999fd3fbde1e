package commands

import (
	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	"github.com/reviewassist/reviewctl/internal/domain"
)

// NewDeployCommand creates the deploy command
func NewDeployCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Install, start, and verify the review assistant",
		Long: `Deploy takes the review assistant from a checked-out project directory
to a running service: it verifies prerequisites, creates the virtual
environment, installs the declared packages, seeds the environment
file, registers and starts the systemd unit, runs the health checks,
and, when a domain is configured, installs the nginx site and requests
a TLS certificate.

The stages run in order and stop at the first failure, so a broken
install never reaches the service restart and a broken service never
reaches the proxy. The exit code is the number of failed checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, container, domain.RunModeDeploy)
		},
	}
}
