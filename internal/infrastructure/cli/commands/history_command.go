package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/reviewassist/reviewctl/internal/app"
	"github.com/reviewassist/reviewctl/internal/domain"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max runs to show")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearRuns(cmd.OutOrStdout(), container)
		},
	}
}

// listRuns prints recent runs, newest first
func listRuns(out io.Writer, container *app.Container, limit int) error {
	if container.History == nil {
		return errors.New(ErrHistoryUnavailable)
	}

	records, err := container.History.Records(limit)
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoRunsRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%-8s  %-7s  %-15s  %8s  %d passed / %d warned / %d failed",
			shortRunID(rec.ID),
			rec.Mode,
			humanize.Time(rec.StartedAt),
			formatRunDuration(rec.DurationMS),
			rec.Passed, rec.Warned, rec.Failed)
		if rec.Notes != "" {
			fmt.Fprintf(out, "  (%s)", truncateNote(rec.Notes, 60))
		}
		fmt.Fprintln(out)
	}

	return nil
}

// clearRuns deletes the run history
func clearRuns(out io.Writer, container *app.Container) error {
	if container.History == nil {
		return errors.New(ErrHistoryUnavailable)
	}

	if err := container.History.Clear(); err != nil {
		return fmt.Errorf("failed to clear run history: %w", err)
	}

	fmt.Fprintln(out, MsgHistoryCleared)
	return nil
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRunDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return d.String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func truncateNote(note string, max int) string {
	if len(note) <= max {
		return note
	}
	return note[:max] + "..."
}
