package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reviewassist/reviewctl/internal/app"
	configapp "github.com/reviewassist/reviewctl/internal/application/config"
	"github.com/reviewassist/reviewctl/internal/domain"
	configinfra "github.com/reviewassist/reviewctl/internal/infrastructure/config"
)

const (
	msgConfigValid        = "Configuration valid"
	msgConfigNoDifference = "No differences from the built-in defaults."
)

// NewConfigCommand creates the config command with all subcommands.
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the deployment configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigPathCommand(container),
		newConfigValidateCommand(container),
		newConfigDiffCommand(container),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand.
func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand.
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ConfigProvider == nil {
				return errors.New(ErrConfigLoaderUnavailable)
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigProvider.Path())
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand.
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(container)
			if err != nil {
				return err
			}
			if err := configapp.Validate(*cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msgConfigValid)
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand.
func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show differences from the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.OutOrStdout(), container)
		},
	}
}

// showConfiguration displays the effective configuration in YAML form,
// defaults hydrated. Operators can paste the output straight into
// reviewctl.yaml.
func showConfiguration(out io.Writer, container *app.Container) error {
	cfg, err := loadConfiguration(container)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// showConfigurationDiff shows the difference between the loaded and the
// built-in default configuration.
func showConfigurationDiff(out io.Writer, container *app.Container) error {
	cfg, err := loadConfiguration(container)
	if err != nil {
		return err
	}

	defaults := configinfra.Default()
	diff := cmp.Diff(&defaults, cfg)
	if diff == "" {
		fmt.Fprintln(out, msgConfigNoDifference)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

func loadConfiguration(container *app.Container) (*domain.Config, error) {
	if container.ConfigProvider == nil {
		return nil, errors.New(ErrConfigLoaderUnavailable)
	}
	cfg, err := container.ConfigProvider.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
