package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrTaskOwnerRequired  = errors.New("task must have an owning user")
	ErrDescriptionTooLong = errors.New("task description must be at most 1000 characters")
)

// maxDescriptionLength bounds the free-text description column.
const maxDescriptionLength = 1000

// Priority is the urgency classification of a task.
type Priority string

// Task priorities, ordered from least to most urgent.
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority converts a string (case-insensitive) to a Priority.
// Returns ErrInvalidPriority for unknown values.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToUpper(s)) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task. Only TaskStatusToDo is ever
// assigned; the completed flag, not this enum, drives all current behavior.
type TaskStatus string

// Known task statuses.
const (
	TaskStatusToDo TaskStatus = "TO_DO"
)

// Task represents a single unit of work owned by exactly one user.
// Ownership never transfers for the lifetime of the task.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     Priority   `json:"priority"`
	Status       TaskStatus `json:"status"`
	Completed    bool       `json:"completed"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ReminderSent bool       `json:"reminder_sent"`
	UserID       uuid.UUID  `json:"user_id"`
}

// NewTask creates a Task owned by userID with default status and flags.
// DueDate may be nil for tasks without a deadline.
// Returns an error if validation fails.
func NewTask(
	userID uuid.UUID,
	title, description string,
	priority Priority,
	dueDate *time.Time,
	completed bool,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		Priority:     priority,
		Status:       TaskStatusToDo,
		Completed:    completed,
		DueDate:      dueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
		ReminderSent: false,
		UserID:       userID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Description) > maxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if !t.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}

	if t.UserID == uuid.Nil {
		return ErrTaskOwnerRequired
	}

	return nil
}

// TaskUpdate carries a partial update: nil fields are left untouched,
// non-nil fields overwrite the corresponding task field.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	Completed   *bool
}

// Apply merges the update into the task and refreshes the updated timestamp.
// Returns a validation error (leaving the task modified) if the merged
// result is invalid; callers should discard the task in that case.
func (t *Task) Apply(u TaskUpdate) error {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DueDate != nil {
		t.DueDate = u.DueDate
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}

	t.UpdatedAt = time.Now().UTC()

	return t.Validate()
}

// TaskSummary aggregates a user's tasks for the dashboard.
type TaskSummary struct {
	TotalTasks           int64   `json:"total_tasks"`
	CompletedTasks       int64   `json:"completed_tasks"`
	PendingTasks         int64   `json:"pending_tasks"`
	HighPriorityTasks    int64   `json:"high_priority_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// NewTaskSummary derives the summary from raw counts.
// CompletionPercentage is 0 when there are no tasks.
func NewTaskSummary(total, completed, highPriority int64) TaskSummary {
	var pct float64
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}

	return TaskSummary{
		TotalTasks:           total,
		CompletedTasks:       completed,
		PendingTasks:         total - completed,
		HighPriorityTasks:    highPriority,
		CompletionPercentage: pct,
	}
}
