package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SarikaG13/taskapp-backend/internal/api/shared"
	"github.com/SarikaG13/taskapp-backend/internal/domain"
	"github.com/SarikaG13/taskapp-backend/internal/platform/mailer"
	"github.com/SarikaG13/taskapp-backend/internal/reminder"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// TaskHandler handles task CRUD, query and reminder-related API requests.
type TaskHandler struct {
	taskStore   store.TaskStore
	userStore   store.UserStore
	reminderJob *reminder.Job
	mailer      mailer.Mailer
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskStore store.TaskStore,
	userStore store.UserStore,
	reminderJob *reminder.Job,
	m mailer.Mailer,
) *TaskHandler {
	return &TaskHandler{
		taskStore:   taskStore,
		userStore:   userStore,
		reminderJob: reminderJob,
		mailer:      m,
		validator:   validator.New(),
	}
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "priority must be LOW, MEDIUM or HIGH")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	completed := false
	if req.Completed != nil {
		completed = *req.Completed
	}

	task, err := domain.NewTask(userID, req.Title, req.Description, priority, dueDate, completed)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id}.
// The request is a partial merge: only fields present in the body overwrite.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	update := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "priority must be LOW, MEDIUM or HIGH")
			return
		}
		update.Priority = &priority
	}

	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		update.DueDate = dueDate
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := task.Apply(update); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// GetTask handles GET /api/tasks/{id} and GET /api/tasks/task/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/task/{id}.
// Subtasks of the deleted task are removed by the cascade.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// ListTasks handles GET /api/tasks/all.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.taskStore.ListByUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// ListTasksByCompletion handles GET /api/tasks/status?completed=.
func (h *TaskHandler) ListTasksByCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	completed, err := strconv.ParseBool(r.URL.Query().Get("completed"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "completed must be true or false")
		return
	}

	tasks, err := h.taskStore.ListByCompletion(r.Context(), userID, completed)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// ListTasksByPriority handles GET /api/tasks/priority?priority=.
func (h *TaskHandler) ListTasksByPriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	priority, err := domain.ParsePriority(r.URL.Query().Get("priority"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "priority must be LOW, MEDIUM or HIGH")
		return
	}

	tasks, err := h.taskStore.ListByPriority(r.Context(), userID, priority)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// SearchTasks handles GET /api/tasks/search?title=.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	title := r.URL.Query().Get("title")
	if title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "title query parameter is required")
		return
	}

	tasks, err := h.taskStore.SearchByTitle(r.Context(), userID, title)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// ListOverdueTasks handles GET /api/tasks/overdue: incomplete tasks due
// today or earlier.
func (h *TaskHandler) ListOverdueTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.taskStore.ListDueTodayAndOverdue(r.Context(), userID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// TaskSummary handles GET /api/tasks/summary.
func (h *TaskHandler) TaskSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.taskStore.Summary(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// ReminderStatus handles GET /api/tasks/reminder-status: the outcomes of
// the most recent reminder run.
func (h *TaskHandler) ReminderStatus(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.reminderJob.LastRunStatus())
}

// TriggerReminder handles POST /api/tasks/trigger-reminder: runs the
// reminder job on demand. Overlapping with an in-flight run yields 409.
func (h *TaskHandler) TriggerReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.reminderJob.Run(r.Context()); err != nil {
		if errors.Is(err, reminder.ErrRunInProgress) {
			shared.RespondWithError(w, r, http.StatusConflict, "Reminder run already in progress")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Reminder run failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Reminder job triggered manually"})
}

// TestEmail handles GET /api/tasks/test-email: sends a test email to the
// authenticated caller's own address.
func (h *TaskHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	body := "<p>Hi " + user.Name + ",</p><p>This is a test email from TaskApp. " +
		"If you are reading this, outbound mail is configured correctly.</p>"

	if err := h.mailer.Send(r.Context(), user.Email, "TaskApp Test Email", body); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Test email failed", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Test email sent"})
}
