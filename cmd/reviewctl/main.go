package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/reviewassist/reviewctl/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		// Workflows report their own failures check by check; an error
		// carrying an exit code has already been rendered.
		var coded interface{ ExitCode() int }
		if errors.As(err, &coded) {
			os.Exit(coded.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("REVIEWCTL_DEBUG"), "1") || strings.EqualFold(os.Getenv("REVIEWCTL_DEBUG"), "true")
}
