package domain

// CheckStatus classifies a single verification outcome.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckWarning CheckStatus = "warning"
	CheckFailed  CheckStatus = "failed"
)

// CheckResult captures one verification outcome.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
}

// Pass creates a passing check result.
func Pass(name, message string) CheckResult {
	return CheckResult{Name: name, Status: CheckPassed, Message: message}
}

// Warn creates a warning check result. Warnings never contribute to the
// exit code; they mark recommended-but-missing conditions.
func Warn(name, message string) CheckResult {
	return CheckResult{Name: name, Status: CheckWarning, Message: message}
}

// Fail creates a failing check result.
func Fail(name, message string) CheckResult {
	return CheckResult{Name: name, Status: CheckFailed, Message: message}
}

// RunReport aggregates check results in execution order. Counters are
// maintained by Append so they always agree with Results.
type RunReport struct {
	Results []CheckResult
	Passed  int
	Warned  int
	Failed  int
}

// Append records a result and bumps the matching counter.
func (r *RunReport) Append(result CheckResult) {
	r.Results = append(r.Results, result)
	switch result.Status {
	case CheckPassed:
		r.Passed++
	case CheckWarning:
		r.Warned++
	case CheckFailed:
		r.Failed++
	}
}

// ExitCode is the process exit code for this report: exactly the number
// of failed checks, zero only when nothing failed.
func (r *RunReport) ExitCode() int {
	return r.Failed
}

// Total returns the number of recorded checks.
func (r *RunReport) Total() int {
	return len(r.Results)
}
