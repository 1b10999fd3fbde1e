package commands

// Error messages
const (
	ErrProbeServiceUnavailable   = "probe service unavailable"
	ErrVerifyServiceUnavailable  = "verify service unavailable"
	ErrDeployServiceUnavailable  = "deploy service unavailable"
	ErrConfigLoaderUnavailable   = "config loader unavailable"
	ErrServiceManagerUnavailable = "service manager unavailable"
	ErrHistoryUnavailable        = "run history unavailable"
)

// User-facing messages
const (
	MsgNoRunsRecorded = "No runs recorded yet."
	MsgHistoryCleared = "Run history cleared."
)
