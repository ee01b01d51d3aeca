package reminder

import (
	"sync"

	"github.com/google/uuid"
)

// TaskReminderStatus is the per-task outcome of a reminder run.
type TaskReminderStatus struct {
	TaskID uuid.UUID `json:"task_id"`
	Sent   bool      `json:"sent"`
	Reason string    `json:"reason"`
}

// RunStatus holds the outcomes of the most recent reminder run.
//
// It is an explicitly owned state holder: the job is the single writer,
// the status endpoint reads concurrently, and reads return a snapshot so
// callers never observe a run in progress half-populated. The contents are
// process-local and lost on restart.
type RunStatus struct {
	mu      sync.Mutex
	entries []TaskReminderStatus
}

// NewRunStatus creates an empty RunStatus.
func NewRunStatus() *RunStatus {
	return &RunStatus{}
}

// Reset discards the previous run's entries.
func (s *RunStatus) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Append records one task outcome.
func (s *RunStatus) Append(entry TaskReminderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Snapshot returns a copy of the current entries in insertion order.
func (s *RunStatus) Snapshot() []TaskReminderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TaskReminderStatus, len(s.entries))
	copy(out, s.entries)
	return out
}
