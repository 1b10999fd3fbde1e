package commands

import (
	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	"github.com/reviewassist/reviewctl/internal/domain"
)

// NewProbeCommand creates the probe command
func NewProbeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Inspect the local environment without changing it",
		Long: `Probe inspects the machine the review assistant would run on and
reports what is ready and what is missing: the Python runtime, the
virtual environment, the declared packages, the environment file, and
the expected project layout.

Probe never installs, writes, or restarts anything. The exit code is
the number of failed checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, container, domain.RunModeProbe)
		},
	}
}
