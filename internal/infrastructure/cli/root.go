package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	"github.com/reviewassist/reviewctl/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	reporter := NewReporter(os.Stdout)
	container.Reporter = reporter
	container.ProbeService.Reporter = reporter
	container.VerifyService.Reporter = reporter
	container.DeployService.Reporter = reporter

	root := &cobra.Command{
		Use:   "reviewctl",
		Short: "Deploy and verify the review-assistant service",
		Long: "reviewctl replaces the ad hoc install/deploy/check scripts of the " +
			"review-assistant service: it probes the host, installs Python " +
			"dependencies, materializes the env file, manages the systemd unit, " +
			"verifies HTTP health, and configures nginx with a TLS certificate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.NewDeployCommand(container))
	root.AddCommand(commands.NewVerifyCommand(container))
	root.AddCommand(commands.NewProbeCommand(container))
	root.AddCommand(commands.NewInitConfigCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewServiceCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}
