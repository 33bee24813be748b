package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a CV generation job.
type JobStatus string

const (
	StatusQueued  JobStatus = "queued"
	StatusRunning JobStatus = "running"
	StatusSuccess JobStatus = "success"
	StatusError   JobStatus = "error"
)

// Terminal reports whether no further status transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// CanTransition reports whether moving from s to next is a legal forward
// transition: queued -> running -> success|error.
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusQueued:
		return next == StatusRunning || next == StatusError
	case StatusRunning:
		return next == StatusSuccess || next == StatusError
	default:
		return false
	}
}

// CVJob is one asynchronous CV generation attempt.
type CVJob struct {
	ID           string    `json:"id"`
	Opportunity  string    `json:"opportunity"`
	UserID       string    `json:"user_id"`
	Status       JobStatus `json:"status"`
	Progress     int       `json:"progress"`
	Stage        string    `json:"stage"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OutputPath   string    `json:"output_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCVJob creates a queued job record with a fresh id.
func NewCVJob(opportunity, userID string) *CVJob {
	now := time.Now()
	if userID == "" {
		userID = "default"
	}
	return &CVJob{
		ID:          uuid.New().String(),
		Opportunity: opportunity,
		UserID:      userID,
		Status:      StatusQueued,
		Progress:    0,
		Stage:       "Queued",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// JobUpdate carries a partial update; nil fields are left untouched.
type JobUpdate struct {
	Status       *JobStatus
	Progress     *int
	Stage        *string
	ErrorMessage *string
	OutputPath   *string
}

// Apply merges the update into the job, enforcing the record invariants:
// a terminal status never changes again, and progress never decreases.
func (u JobUpdate) Apply(j *CVJob) {
	if u.Status != nil && !j.Status.Terminal() && j.Status.CanTransition(*u.Status) {
		j.Status = *u.Status
	}
	if u.Progress != nil && *u.Progress > j.Progress {
		j.Progress = *u.Progress
	}
	if u.Stage != nil {
		j.Stage = *u.Stage
	}
	if u.ErrorMessage != nil {
		j.ErrorMessage = *u.ErrorMessage
	}
	if u.OutputPath != nil {
		j.OutputPath = *u.OutputPath
	}
	j.UpdatedAt = time.Now()
}

// Helpers for building JobUpdate literals.
func StatusPtr(s JobStatus) *JobStatus { return &s }
func IntPtr(i int) *int                { return &i }
func StrPtr(s string) *string          { return &s }
