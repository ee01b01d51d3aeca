package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT bearer token used for API authorization
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for task creation.
// DueDate uses the YYYY-MM-DD calendar-date format.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"max=1000"`
	Priority    string `json:"priority"    validate:"required"`
	DueDate     string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
	Completed   *bool  `json:"completed"`
}

// UpdateTaskRequest defines the payload for partial task updates.
// Nil fields leave the corresponding task field untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
	Completed   *bool   `json:"completed"`
}

// CreateSubtaskRequest defines the payload for subtask creation.
type CreateSubtaskRequest struct {
	TaskID uuid.UUID `json:"task_id" validate:"required"`
	Title  string    `json:"title"   validate:"required"`
}

// UpdateSubtaskRequest defines the payload for partial subtask updates.
type UpdateSubtaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// MessageResponse is a plain informational response body.
type MessageResponse struct {
	Message string `json:"message"`
}
