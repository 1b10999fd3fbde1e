package domain

// ProbeResult is the outcome of a single HTTP probe against the running
// service. Unreachable means no response arrived at all (connection
// refused, timeout); StatusCode and Body are only meaningful when
// Unreachable is false.
type ProbeResult struct {
	StatusCode  int
	Body        string
	Unreachable bool
	Err         error
}
