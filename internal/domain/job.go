package domain

import "time"

// JobType enumerates supported generation job categories.
type JobType string

const (
	JobTypeGenerate JobType = "generate"
)

// JobStatus enumerates job lifecycle states. Terminal states are
// JobStatusCompleted and JobStatusFailed; a job never transitions out of
// either.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is an asynchronous unit of generation work with pollable status.
// It references its session by ID but does not own it.
type Job struct {
	ID          string    `json:"job_id"`
	SessionID   string    `json:"session_id"`
	Type        JobType   `json:"job_type"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	Message     string    `json:"message"`
	Error       string    `json:"error,omitempty"`
	Result      any       `json:"result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}
