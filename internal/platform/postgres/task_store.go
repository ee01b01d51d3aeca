package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SarikaG13/taskapp-backend/internal/domain"
	"github.com/SarikaG13/taskapp-backend/internal/platform/logger"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// taskColumns is the canonical column list for task scans.
const taskColumns = `id, title, description, priority, status, completed, due_date, created_at, updated_at, reminder_sent, user_id`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, title, description, priority, status, completed, due_date, created_at, updated_at, reminder_sent, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.Completed,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
		task.ReminderSent,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to create task", "error", err, "task_id", task.ID, "user_id", task.UserID)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
		}
		return nil, MapError(err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
// The WHERE clause includes the owner, so a task owned by someone else
// reports ErrTaskNotFound rather than being written.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4, completed = $5,
		    due_date = $6, updated_at = $7, reminder_sent = $8
		WHERE id = $9 AND user_id = $10
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.Completed,
		task.DueDate,
		task.UpdatedAt,
		task.ReminderSent,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task", "error", err, "task_id", task.ID)
		return MapError(err)
	}

	return CheckRowsAffected(result, "task")
}

// Delete implements store.TaskStore.Delete.
// Subtasks are removed by the ON DELETE CASCADE on subtasks.task_id.
func (s *PostgresTaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete task", "error", err, "task_id", id)
		return MapError(err)
	}

	return CheckRowsAffected(result, "task")
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY due_date ASC NULLS LAST, created_at ASC
	`
	return s.queryTasks(ctx, query, userID)
}

// ListByCompletion implements store.TaskStore.ListByCompletion
func (s *PostgresTaskStore) ListByCompletion(ctx context.Context, userID uuid.UUID, completed bool) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND completed = $2
		ORDER BY due_date ASC NULLS LAST, created_at ASC
	`
	return s.queryTasks(ctx, query, userID, completed)
}

// ListByPriority implements store.TaskStore.ListByPriority
func (s *PostgresTaskStore) ListByPriority(ctx context.Context, userID uuid.UUID, priority domain.Priority) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND priority = $2
		ORDER BY due_date ASC NULLS LAST, created_at ASC
	`
	return s.queryTasks(ctx, query, userID, priority)
}

// SearchByTitle implements store.TaskStore.SearchByTitle
func (s *PostgresTaskStore) SearchByTitle(ctx context.Context, userID uuid.UUID, title string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY due_date ASC NULLS LAST, created_at ASC
	`
	return s.queryTasks(ctx, query, userID, title)
}

// ListDueTodayAndOverdue implements store.TaskStore.ListDueTodayAndOverdue
func (s *PostgresTaskStore) ListDueTodayAndOverdue(ctx context.Context, userID uuid.UUID, today time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1 AND completed = false AND due_date <= $2
		ORDER BY due_date ASC, created_at ASC
	`
	return s.queryTasks(ctx, query, userID, today)
}

// Summary implements store.TaskStore.Summary.
// The counts come back in a single scan; the derived fields are computed in
// the domain so the division-by-zero rule lives in one place.
func (s *PostgresTaskStore) Summary(ctx context.Context, userID uuid.UUID) (domain.TaskSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE completed),
			COUNT(*) FILTER (WHERE priority = $2)
		FROM tasks
		WHERE user_id = $1
	`

	var total, completed, highPriority int64
	err := s.db.QueryRowContext(ctx, query, userID, domain.PriorityHigh).
		Scan(&total, &completed, &highPriority)
	if err != nil {
		return domain.TaskSummary{}, MapError(err)
	}

	return domain.NewTaskSummary(total, completed, highPriority), nil
}

// ListDueForReminder implements store.TaskStore.ListDueForReminder.
// The LEFT JOIN keeps tasks whose owner row is missing so the reminder job
// can record them instead of silently dropping them.
func (s *PostgresTaskStore) ListDueForReminder(ctx context.Context, dueBy time.Time) ([]store.ReminderCandidate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.title, t.description, t.priority, t.status, t.completed,
		       t.due_date, t.created_at, t.updated_at, t.reminder_sent, t.user_id,
		       u.id, u.name, u.username, u.email, u.hashed_password, u.role, u.created_at, u.updated_at
		FROM tasks t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.due_date <= $1 AND t.completed = false AND t.reminder_sent = false
		ORDER BY t.due_date ASC, t.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, dueBy)
	if err != nil {
		log.Error("failed to query reminder candidates", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []store.ReminderCandidate
	for rows.Next() {
		var task domain.Task
		var owner domain.User
		var ownerID *uuid.UUID
		var ownerName, ownerUsername, ownerEmail, ownerHash *string
		var ownerRole *domain.Role
		var ownerCreated, ownerUpdated *time.Time

		err := rows.Scan(
			&task.ID, &task.Title, &task.Description, &task.Priority, &task.Status,
			&task.Completed, &task.DueDate, &task.CreatedAt, &task.UpdatedAt,
			&task.ReminderSent, &task.UserID,
			&ownerID, &ownerName, &ownerUsername, &ownerEmail, &ownerHash,
			&ownerRole, &ownerCreated, &ownerUpdated,
		)
		if err != nil {
			return nil, MapError(err)
		}

		candidate := store.ReminderCandidate{Task: &task}
		if ownerID != nil {
			owner.ID = *ownerID
			owner.Name = derefString(ownerName)
			owner.Username = derefString(ownerUsername)
			owner.Email = derefString(ownerEmail)
			owner.HashedPassword = derefString(ownerHash)
			if ownerRole != nil {
				owner.Role = *ownerRole
			}
			if ownerCreated != nil {
				owner.CreatedAt = *ownerCreated
			}
			if ownerUpdated != nil {
				owner.UpdatedAt = *ownerUpdated
			}
			candidate.Owner = &owner
		}
		candidates = append(candidates, candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return candidates, nil
}

// MarkReminderSent implements store.TaskStore.MarkReminderSent
func (s *PostgresTaskStore) MarkReminderSent(ctx context.Context, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET reminder_sent = true, updated_at = $2 WHERE id = $1`,
		taskID, time.Now().UTC())
	if err != nil {
		log.Error("failed to mark reminder sent", "error", err, "task_id", taskID)
		return MapError(err)
	}

	return CheckRowsAffected(result, "task")
}

// queryTasks runs a multi-row task query and scans the results.
func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// scanTask scans one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.Completed,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.ReminderSent,
		&task.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// derefString returns the pointed-to string or "" for nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time check that sql.Rows satisfies rowScanner.
var _ rowScanner = (*sql.Rows)(nil)
