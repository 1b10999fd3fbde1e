package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	"github.com/reviewassist/reviewctl/internal/domain"
)

// NewServiceCommand creates the service command group
func NewServiceCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Inspect and control the installed service",
	}

	cmd.AddCommand(
		newServiceStatusCommand(container),
		newServiceRestartCommand(container),
		newServiceStopCommand(container),
	)

	return cmd
}

func newServiceStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current service state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceStatus(cmd, cmd.OutOrStdout(), container)
		},
	}
}

func newServiceRestartCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the service and wait for it to settle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceRestart(cmd, cmd.OutOrStdout(), container)
		},
	}
}

func newServiceStopCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceStop(cmd, cmd.OutOrStdout(), container)
		},
	}
}

// runServiceStatus prints the supervisor's view of the unit
func runServiceStatus(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	name, err := managedServiceName(container)
	if err != nil {
		return err
	}

	status, err := container.ServiceManager.Status(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("failed to query service status: %w", err)
	}

	fmt.Fprintf(out, "Service:  %s\n", status.Name)
	fmt.Fprintf(out, "State:    %s\n", status.State)
	if status.State != domain.ServiceUnregistered {
		fmt.Fprintf(out, "Enabled:  %s\n", yesNo(status.Enabled))
	}
	if status.Detail != "" && status.Detail != string(status.State) {
		fmt.Fprintf(out, "Detail:   %s\n", status.Detail)
	}

	if status.State == domain.ServiceFailed {
		return &ExitError{Code: 1}
	}
	return nil
}

// runServiceRestart restarts the unit and reports diagnostics on failure
func runServiceRestart(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	name, err := managedServiceName(container)
	if err != nil {
		return err
	}

	if err := container.ServiceManager.Restart(cmd.Context(), name); err != nil {
		var startErr *domain.ServiceStartFailureError
		if errors.As(err, &startErr) {
			fmt.Fprintf(out, "Service %s did not settle (state: %s)\n", startErr.Unit, startErr.ActiveState)
			if startErr.Diagnostics != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, startErr.Diagnostics)
			}
			return &ExitError{Code: 1}
		}
		return fmt.Errorf("failed to restart service: %w", err)
	}

	fmt.Fprintf(out, "Service %s restarted.\n", name)
	return nil
}

// runServiceStop stops the unit
func runServiceStop(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	name, err := managedServiceName(container)
	if err != nil {
		return err
	}

	if err := container.ServiceManager.Stop(cmd.Context(), name); err != nil {
		return fmt.Errorf("failed to stop service: %w", err)
	}

	fmt.Fprintf(out, "Service %s stopped.\n", name)
	return nil
}

// managedServiceName resolves the configured unit name
func managedServiceName(container *app.Container) (string, error) {
	if container.ServiceManager == nil {
		return "", errors.New(ErrServiceManagerUnavailable)
	}
	if container.ConfigProvider == nil {
		return "", errors.New(ErrConfigLoaderUnavailable)
	}

	cfg, err := container.ConfigProvider.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Service.Name, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
