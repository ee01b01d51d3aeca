package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/SarikaG13/taskapp-backend/internal/api/shared"
	"github.com/SarikaG13/taskapp-backend/internal/domain"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// SubtaskHandler handles subtask API requests. Every operation is scoped
// through the parent task's owner.
type SubtaskHandler struct {
	subtaskStore store.SubtaskStore
	taskStore    store.TaskStore
	validator    *validator.Validate
}

// NewSubtaskHandler creates a new SubtaskHandler with the given dependencies.
func NewSubtaskHandler(subtaskStore store.SubtaskStore, taskStore store.TaskStore) *SubtaskHandler {
	return &SubtaskHandler{
		subtaskStore: subtaskStore,
		taskStore:    taskStore,
		validator:    validator.New(),
	}
}

// CreateSubtask handles POST /api/subtasks.
func (h *SubtaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateSubtaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	taskID := req.TaskID
	if taskID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "task_id is required")
		return
	}

	// Confirms the parent task exists and belongs to the caller before
	// inserting, so foreign tasks surface as 404.
	if _, err := h.taskStore.GetByID(r.Context(), taskID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	subtask, err := domain.NewSubtask(taskID, req.Title)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid subtask data: "+err.Error())
		return
	}

	if err := h.subtaskStore.Create(r.Context(), subtask); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, subtask)
}

// ListSubtasks handles GET /api/subtasks/task/{taskId}.
func (h *SubtaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskId")
	if !ok {
		return
	}

	if _, err := h.taskStore.GetByID(r.Context(), taskID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	subtasks, err := h.subtaskStore.ListByTask(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subtasks)
}

// ToggleSubtask handles PATCH /api/subtasks/{id}/toggle.
func (h *SubtaskHandler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	userID, subtaskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	subtask, err := h.subtaskStore.GetByID(r.Context(), subtaskID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	subtask.Toggle()

	if err := h.subtaskStore.Update(r.Context(), subtask, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subtask)
}

// UpdateSubtask handles PUT /api/subtasks/{id}.
func (h *SubtaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	userID, subtaskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateSubtaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	subtask, err := h.subtaskStore.GetByID(r.Context(), subtaskID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := subtask.Apply(domain.SubtaskUpdate{Title: req.Title, Completed: req.Completed}); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid subtask data: "+err.Error())
		return
	}

	if err := h.subtaskStore.Update(r.Context(), subtask, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subtask)
}

// DeleteSubtask handles DELETE /api/subtasks/{id}.
func (h *SubtaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	userID, subtaskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.subtaskStore.Delete(r.Context(), subtaskID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Subtask deleted successfully"})
}
