package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	configapp "github.com/reviewassist/reviewctl/internal/application/config"
	"github.com/reviewassist/reviewctl/internal/domain"
)

// runWorkflow executes one of the check workflows, prints the summary,
// records the run, and maps failed checks onto the exit code.
func runWorkflow(cmd *cobra.Command, container *app.Container, mode domain.RunMode) error {
	ctx := cmd.Context()
	started := time.Now()

	if err := validateConfiguration(container); err != nil {
		return err
	}

	report, runErr := dispatchWorkflow(ctx, container, mode)
	if report == nil {
		return runErr
	}

	if container.Reporter != nil {
		container.Reporter.Summary(report)
	}
	recordRun(container, mode, started, report, runErr)

	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return runErr
}

// validateConfiguration rejects a broken configuration before any
// workflow touches the host. A bad config aborts without a history
// record: nothing ran, so nothing is worth recording.
func validateConfiguration(container *app.Container) error {
	cfg, err := loadConfiguration(container)
	if err != nil {
		return err
	}
	if err := configapp.Validate(*cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// dispatchWorkflow resolves the service for a run mode and executes it
func dispatchWorkflow(ctx context.Context, container *app.Container, mode domain.RunMode) (*domain.RunReport, error) {
	switch mode {
	case domain.RunModeProbe:
		if container.ProbeService == nil {
			return nil, errors.New(ErrProbeServiceUnavailable)
		}
		return container.ProbeService.Run(ctx)
	case domain.RunModeVerify:
		if container.VerifyService == nil {
			return nil, errors.New(ErrVerifyServiceUnavailable)
		}
		return container.VerifyService.Run(ctx)
	default:
		if container.DeployService == nil {
			return nil, errors.New(ErrDeployServiceUnavailable)
		}
		return container.DeployService.Run(ctx)
	}
}

// recordRun persists the outcome in the run history. History failures
// are logged, never surfaced; a broken history file must not change the
// exit code of a deployment.
func recordRun(container *app.Container, mode domain.RunMode, started time.Time, report *domain.RunReport, runErr error) {
	if container.History == nil {
		return
	}

	record := domain.RunRecord{
		ID:         uuid.NewString(),
		Mode:       mode,
		StartedAt:  started.UTC(),
		DurationMS: time.Since(started).Milliseconds(),
		Passed:     report.Passed,
		Warned:     report.Warned,
		Failed:     report.Failed,
	}
	if runErr != nil {
		record.Notes = runErr.Error()
	}

	if err := container.History.Save(record); err != nil && container.Logger != nil {
		container.Logger.Warn("failed to record run", map[string]interface{}{
			"mode":  string(mode),
			"error": err.Error(),
		})
	}
}
