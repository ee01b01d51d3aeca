package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SarikaG13/taskapp-backend/internal/domain"
	"github.com/SarikaG13/taskapp-backend/internal/platform/logger"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// PostgresSubtaskStore implements the store.SubtaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubtaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubtaskStore creates a new PostgreSQL implementation of the
// SubtaskStore interface. If logger is nil, a default logger will be used.
func NewPostgresSubtaskStore(db store.DBTX, logger *slog.Logger) *PostgresSubtaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubtaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "subtask_store")),
	}
}

// Ensure PostgresSubtaskStore implements store.SubtaskStore interface
var _ store.SubtaskStore = (*PostgresSubtaskStore)(nil)

// Create implements store.SubtaskStore.Create
func (s *PostgresSubtaskStore) Create(ctx context.Context, subtask *domain.Subtask) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subtask.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO subtasks (id, title, completed, task_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.ExecContext(ctx, query,
		subtask.ID,
		subtask.Title,
		subtask.Completed,
		subtask.TaskID,
	)
	if err != nil {
		log.Error("failed to create subtask", "error", err, "subtask_id", subtask.ID, "task_id", subtask.TaskID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.SubtaskStore.GetByID.
// The join against tasks enforces ownership through the parent.
func (s *PostgresSubtaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Subtask, error) {
	query := `
		SELECT s.id, s.title, s.completed, s.task_id
		FROM subtasks s
		JOIN tasks t ON t.id = s.task_id
		WHERE s.id = $1 AND t.user_id = $2
	`

	var subtask domain.Subtask
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&subtask.ID,
		&subtask.Title,
		&subtask.Completed,
		&subtask.TaskID,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, fmt.Errorf("%w: %v", store.ErrSubtaskNotFound, err)
		}
		return nil, MapError(err)
	}

	return &subtask, nil
}

// ListByTask implements store.SubtaskStore.ListByTask
func (s *PostgresSubtaskStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Subtask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, completed, task_id
		FROM subtasks
		WHERE task_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query subtasks", "error", err, "task_id", taskID)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var subtasks []*domain.Subtask
	for rows.Next() {
		var subtask domain.Subtask
		if err := rows.Scan(&subtask.ID, &subtask.Title, &subtask.Completed, &subtask.TaskID); err != nil {
			return nil, MapError(err)
		}
		subtasks = append(subtasks, &subtask)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return subtasks, nil
}

// Update implements store.SubtaskStore.Update.
// The subquery scopes the write to subtasks whose parent task is owned by
// userID.
func (s *PostgresSubtaskStore) Update(ctx context.Context, subtask *domain.Subtask, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subtask.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE subtasks
		SET title = $1, completed = $2
		WHERE id = $3
		  AND task_id IN (SELECT id FROM tasks WHERE user_id = $4)
	`

	result, err := s.db.ExecContext(ctx, query,
		subtask.Title,
		subtask.Completed,
		subtask.ID,
		userID,
	)
	if err != nil {
		log.Error("failed to update subtask", "error", err, "subtask_id", subtask.ID)
		return MapError(err)
	}

	return CheckRowsAffected(result, "subtask")
}

// Delete implements store.SubtaskStore.Delete
func (s *PostgresSubtaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM subtasks
		WHERE id = $1
		  AND task_id IN (SELECT id FROM tasks WHERE user_id = $2)
	`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete subtask", "error", err, "subtask_id", id)
		return MapError(err)
	}

	return CheckRowsAffected(result, "subtask")
}
