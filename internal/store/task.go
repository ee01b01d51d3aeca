package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SarikaG13/taskapp-backend/internal/domain"
)

// ReminderCandidate pairs a task that qualifies for a due-date reminder with
// its owning user, loaded in the same query to avoid a per-task lookup.
// Owner is nil when no user row could be joined.
type ReminderCandidate struct {
	Task  *domain.Task
	Owner *domain.User
}

// TaskStore defines the interface for task data persistence.
// All single-task reads and writes are owner-scoped: a task owned by a
// different user is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with the given ID owned by userID.
	// Returns ErrTaskNotFound if the task does not exist or is owned by
	// someone else.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// Update writes the full task row, scoped to the task's owner.
	// Returns ErrTaskNotFound if no owned row matches.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task owned by userID; subtasks cascade.
	// Returns ErrTaskNotFound if no owned row matches.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// ListByUser returns all of userID's tasks ordered by due date ascending,
	// tasks without a due date last.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListByCompletion returns userID's tasks filtered by the completed flag.
	ListByCompletion(ctx context.Context, userID uuid.UUID, completed bool) ([]*domain.Task, error)

	// ListByPriority returns userID's tasks with the given priority,
	// ordered by due date ascending.
	ListByPriority(ctx context.Context, userID uuid.UUID, priority domain.Priority) ([]*domain.Task, error)

	// SearchByTitle returns userID's tasks whose title contains the given
	// substring, case-insensitively.
	SearchByTitle(ctx context.Context, userID uuid.UUID, title string) ([]*domain.Task, error)

	// ListDueTodayAndOverdue returns userID's incomplete tasks whose due date
	// is on or before the given day.
	ListDueTodayAndOverdue(ctx context.Context, userID uuid.UUID, today time.Time) ([]*domain.Task, error)

	// Summary returns the aggregate counts for userID's tasks.
	Summary(ctx context.Context, userID uuid.UUID) (domain.TaskSummary, error)

	// ListDueForReminder returns every task, regardless of owner, with
	// due_date on or before dueBy, not completed and not yet reminded,
	// each joined with its owning user. Result order is stable (due date,
	// then creation time) so reminder runs are reproducible.
	ListDueForReminder(ctx context.Context, dueBy time.Time) ([]ReminderCandidate, error)

	// MarkReminderSent flips the task's reminder_sent flag to true.
	MarkReminderSent(ctx context.Context, taskID uuid.UUID) error
}
