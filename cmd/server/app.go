package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/SarikaG13/taskapp-backend/internal/config"
	"github.com/SarikaG13/taskapp-backend/internal/platform/mailer"
	"github.com/SarikaG13/taskapp-backend/internal/platform/postgres"
	"github.com/SarikaG13/taskapp-backend/internal/reminder"
	"github.com/SarikaG13/taskapp-backend/internal/service/auth"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	subtaskStore store.SubtaskStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	mailer            mailer.Mailer
	reminderJob       *reminder.Job
	reminderScheduler *reminder.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger and database connection must be
// established before calling this.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	verifier := auth.NewBcryptVerifier(cfg.Auth.BcryptCost)
	app.passwordHasher = verifier
	app.passwordVerifier = verifier

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.subtaskStore = postgres.NewPostgresSubtaskStore(db, logger)

	app.mailer = mailer.NewSMTPMailer(cfg.SMTP, logger)

	app.reminderJob = reminder.NewJob(
		cfg.Reminder,
		app.taskStore,
		app.mailer,
		reminder.NewRunStatus(),
		logger,
	)
	app.reminderScheduler = reminder.NewScheduler(cfg.Reminder.CronSpec, app.reminderJob, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the reminder scheduler and the HTTP server, handling lifecycle
// and cleanup. It returns an error if the server fails to start or
// encounters problems.
func (app *application) Run(ctx context.Context) error {
	if err := app.reminderScheduler.Start(); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.reminderScheduler != nil {
		app.reminderScheduler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
