package domain

import "time"

// RunMode distinguishes the recorded workflow kinds.
type RunMode string

const (
	RunModeProbe  RunMode = "probe"
	RunModeVerify RunMode = "verify"
	RunModeDeploy RunMode = "deploy"
)

// RunRecord captures the outcome of one workflow execution for the run
// history.
type RunRecord struct {
	ID         string    `json:"id"`
	Mode       RunMode   `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Passed     int       `json:"passed"`
	Warned     int       `json:"warned"`
	Failed     int       `json:"failed"`
	Notes      string    `json:"notes,omitempty"`
}
