package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		want     bool
	}{
		{StatusQueued, StatusRunning, true},
		{StatusQueued, StatusError, true},
		{StatusQueued, StatusSuccess, false},
		{StatusRunning, StatusSuccess, true},
		{StatusRunning, StatusError, true},
		{StatusRunning, StatusQueued, false},
		{StatusSuccess, StatusError, false},
		{StatusError, StatusRunning, false},
		{StatusRunning, StatusRunning, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNewCVJobDefaults(t *testing.T) {
	job := NewCVJob("backend-role", "")
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "default", job.UserID)
	assert.Equal(t, StatusQueued, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, "Queued", job.Stage)
}

func TestApplyPartialUpdate(t *testing.T) {
	job := NewCVJob("backend-role", "u1")
	JobUpdate{Stage: StrPtr("Compiling HTML...")}.Apply(job)

	assert.Equal(t, StatusQueued, job.Status)
	assert.Equal(t, "Compiling HTML...", job.Stage)
	assert.Equal(t, "u1", job.UserID)
}

func TestApplyTerminalStatusImmutable(t *testing.T) {
	job := NewCVJob("backend-role", "")
	JobUpdate{Status: StatusPtr(StatusRunning)}.Apply(job)
	JobUpdate{Status: StatusPtr(StatusSuccess), Progress: IntPtr(100)}.Apply(job)
	require.Equal(t, StatusSuccess, job.Status)

	JobUpdate{Status: StatusPtr(StatusRunning)}.Apply(job)
	assert.Equal(t, StatusSuccess, job.Status)
	JobUpdate{Status: StatusPtr(StatusError)}.Apply(job)
	assert.Equal(t, StatusSuccess, job.Status)
}

func TestApplyProgressNeverDecreases(t *testing.T) {
	job := NewCVJob("backend-role", "")
	JobUpdate{Progress: IntPtr(80)}.Apply(job)
	JobUpdate{Progress: IntPtr(40)}.Apply(job)
	assert.Equal(t, 80, job.Progress)
	JobUpdate{Progress: IntPtr(100)}.Apply(job)
	assert.Equal(t, 100, job.Progress)
}

func TestApplySkipsIllegalTransition(t *testing.T) {
	job := NewCVJob("backend-role", "")
	// queued -> success skips running and is rejected.
	JobUpdate{Status: StatusPtr(StatusSuccess)}.Apply(job)
	assert.Equal(t, StatusQueued, job.Status)
}
