package commands

import "fmt"

// ExitError signals that the process should terminate with a specific
// exit code after a workflow already reported its outcome. main checks
// for it to avoid printing the error a second time.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the process exit code to use.
func (e *ExitError) ExitCode() int {
	return e.Code
}
