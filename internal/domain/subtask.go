package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Subtask validation errors
var (
	ErrEmptySubtaskID      = errors.New("subtask ID cannot be empty")
	ErrEmptySubtaskTitle   = errors.New("subtask title cannot be empty")
	ErrSubtaskTaskRequired = errors.New("subtask must belong to a task")
)

// Subtask is a checklist item under a task. It is owned transitively through
// its parent task and is removed when the parent task is deleted.
type Subtask struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	TaskID    uuid.UUID `json:"task_id"`
}

// NewSubtask creates an incomplete Subtask under the given task.
// Returns an error if validation fails.
func NewSubtask(taskID uuid.UUID, title string) (*Subtask, error) {
	subtask := &Subtask{
		ID:        uuid.New(),
		Title:     title,
		Completed: false,
		TaskID:    taskID,
	}

	if err := subtask.Validate(); err != nil {
		return nil, err
	}

	return subtask, nil
}

// Validate checks if the Subtask has valid data.
func (s *Subtask) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySubtaskID
	}

	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptySubtaskTitle
	}

	if s.TaskID == uuid.Nil {
		return ErrSubtaskTaskRequired
	}

	return nil
}

// SubtaskUpdate carries a partial update: nil fields are left untouched.
type SubtaskUpdate struct {
	Title     *string
	Completed *bool
}

// Apply merges the update into the subtask.
// Returns a validation error if the merged result is invalid.
func (s *Subtask) Apply(u SubtaskUpdate) error {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Completed != nil {
		s.Completed = *u.Completed
	}

	return s.Validate()
}

// Toggle flips the completed flag.
func (s *Subtask) Toggle() {
	s.Completed = !s.Completed
}
