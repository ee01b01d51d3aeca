package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/SarikaG13/taskapp-backend/internal/domain"
)

// SubtaskStore defines the interface for subtask data persistence.
// Ownership is derived through the parent task: every owner-scoped method
// joins the parent task and reports ErrSubtaskNotFound when the subtask is
// absent or the parent task belongs to someone else.
type SubtaskStore interface {
	// Create saves a new subtask. The caller must have verified ownership of
	// the parent task.
	Create(ctx context.Context, subtask *domain.Subtask) error

	// GetByID retrieves the subtask whose parent task is owned by userID.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Subtask, error)

	// ListByTask returns all subtasks of the given task. The caller must have
	// verified ownership of the parent task.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Subtask, error)

	// Update writes the subtask row, scoped to the parent task's owner.
	Update(ctx context.Context, subtask *domain.Subtask, userID uuid.UUID) error

	// Delete removes the subtask whose parent task is owned by userID.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
