package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	configinfra "github.com/reviewassist/reviewctl/internal/infrastructure/config"
)

// NewInitConfigCommand creates the init-config command
func NewInitConfigCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default reviewctl.yaml",
		Long: `Init-config writes a configuration file with the default project
layout, service name, and health check settings, ready to edit.

The file is written to ./reviewctl.yaml unless REVIEWCTL_CONFIG points
somewhere else. An existing file is never overwritten without --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitConfig(cmd.OutOrStdout(), container, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

// runInitConfig writes the default configuration file
func runInitConfig(out io.Writer, container *app.Container, force bool) error {
	loader := container.ConfigLoader
	if loader == nil {
		return errors.New(ErrConfigLoaderUnavailable)
	}

	path := loader.Path()
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "%s already exists (use --force to overwrite)\n", path)
		return nil
	}

	cfg := configinfra.Default()
	if err := loader.Save(&cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s\n", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. Edit %s to point at your project directory\n", path)
	fmt.Fprintln(out, "  2. Run 'reviewctl probe' to check the environment")
	fmt.Fprintln(out, "  3. Run 'reviewctl deploy' when the probe looks good")

	return nil
}
