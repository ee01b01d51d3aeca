package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SarikaG13/taskapp-backend/internal/api"
	apiMiddleware "github.com/SarikaG13/taskapp-backend/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	taskHandler := api.NewTaskHandler(app.taskStore, app.userStore, app.reminderJob, app.mailer)
	subtaskHandler := api.NewSubtaskHandler(app.subtaskStore, app.taskStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task endpoints. Fixed segments win over {id} in chi's routing.
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks/all", taskHandler.ListTasks)
			r.Get("/tasks/status", taskHandler.ListTasksByCompletion)
			r.Get("/tasks/priority", taskHandler.ListTasksByPriority)
			r.Get("/tasks/search", taskHandler.SearchTasks)
			r.Get("/tasks/overdue", taskHandler.ListOverdueTasks)
			r.Get("/tasks/summary", taskHandler.TaskSummary)
			r.Get("/tasks/reminder-status", taskHandler.ReminderStatus)
			r.Post("/tasks/trigger-reminder", taskHandler.TriggerReminder)
			r.Get("/tasks/test-email", taskHandler.TestEmail)
			r.Get("/tasks/task/{id}", taskHandler.GetTask)
			r.Delete("/tasks/task/{id}", taskHandler.DeleteTask)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)

			// Subtask endpoints
			r.Post("/subtasks", subtaskHandler.CreateSubtask)
			r.Get("/subtasks/task/{taskId}/subtasks", subtaskHandler.ListSubtasks)
			r.Put("/subtasks/toggle/{id}", subtaskHandler.ToggleSubtask)
			r.Put("/subtasks/{id}", subtaskHandler.UpdateSubtask)
			r.Delete("/subtasks/{id}", subtaskHandler.DeleteSubtask)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
