package commands

import (
	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	"github.com/reviewassist/reviewctl/internal/domain"
)

// NewVerifyCommand creates the verify command
func NewVerifyCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Run health checks against the running service",
		Long: `Verify sends HTTP requests to the running review assistant and checks
that its health endpoints, API routes, and integrations respond the way
a healthy deployment does.

If the server is not reachable at all the run ends with a warning, not
a failure: an intentionally stopped service is not an error. The exit
code is the number of failed checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, container, domain.RunModeVerify)
		},
	}
}
