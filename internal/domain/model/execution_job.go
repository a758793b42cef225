package model

import (
	"time"
)

const (
	JobStatusQueued     = "Queued"
	JobStatusProcessing = "Processing"
	JobStatusCompleted  = "Completed"
	JobStatusFailed     = "Failed"

	// ExitCodeTimeout is reported when the sandbox kills a run that exceeded
	// its time limit.
	ExitCodeTimeout = 124
)

// RunRequest is the body of POST /run.
type RunRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// RunResult is what the sandbox reports for one run.
type RunResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// ExecutionJob is a run handed to the execution worker through the queue.
type ExecutionJob struct {
	ID         string     `json:"id"`
	UserID     *int64     `json:"user_id,omitempty"` // nil for anonymous runs
	Language   string     `json:"language"`
	Code       string     `json:"code"`
	Status     string     `json:"status"`
	LastError  *string    `json:"last_error,omitempty"`
	Result     *RunResult `json:"result,omitempty"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
