package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SarikaG13/taskapp-backend/internal/config"
	"github.com/SarikaG13/taskapp-backend/internal/platform/logger"
	"github.com/SarikaG13/taskapp-backend/internal/platform/mailer"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// ErrRunInProgress is returned when a run is requested while another run is
// still executing. Overlapping runs would double-send reminders, so the
// second invocation is rejected rather than queued.
var ErrRunInProgress = errors.New("reminder run already in progress")

// Status reasons recorded per task.
const (
	ReasonNoUser       = "No user linked"
	ReasonMissingEmail = "User email is missing"
	ReasonSent         = "Email sent"
	ReasonSendFailed   = "Email send failed"
)

// Job scans for tasks due within the configured horizon and emails each
// task's owner once. Outcomes of the most recent run are recorded in the
// injected RunStatus.
type Job struct {
	tasks       store.TaskStore
	mailer      mailer.Mailer
	status      *RunStatus
	horizonDays int
	frontendURL string
	logger      *slog.Logger
	timeFunc    func() time.Time // Injectable for testing

	// runMu is the single-flight guard between the cron trigger and the
	// manual trigger endpoint.
	runMu sync.Mutex
}

// NewJob creates a reminder job.
// If logger is nil, a default logger will be used.
func NewJob(
	cfg config.ReminderConfig,
	tasks store.TaskStore,
	m mailer.Mailer,
	status *RunStatus,
	logger *slog.Logger,
) *Job {
	if logger == nil {
		logger = slog.Default()
	}

	return &Job{
		tasks:       tasks,
		mailer:      m,
		status:      status,
		horizonDays: cfg.HorizonDays,
		frontendURL: cfg.FrontendURL,
		logger:      logger.With(slog.String("component", "reminder_job")),
		timeFunc:    time.Now,
	}
}

// Run executes one reminder pass: clear the status list, scan for candidate
// tasks, attempt one email per task, and mark successfully notified tasks so
// they never re-qualify.
//
// A task whose email fails to send is recorded but NOT marked, so it
// re-qualifies on the next run. Returns ErrRunInProgress when another run
// holds the guard.
func (j *Job) Run(ctx context.Context) error {
	if !j.runMu.TryLock() {
		return ErrRunInProgress
	}
	defer j.runMu.Unlock()

	log := logger.FromContextOrDefault(ctx, j.logger)

	j.status.Reset()

	dueBy := j.timeFunc().UTC().AddDate(0, 0, j.horizonDays)
	candidates, err := j.tasks.ListDueForReminder(ctx, dueBy)
	if err != nil {
		return fmt.Errorf("failed to list reminder candidates: %w", err)
	}

	log.Info("running task reminder check",
		"candidates", len(candidates),
		"due_by", dueBy.Format("2006-01-02"))

	var sent int
	for _, c := range candidates {
		entry := TaskReminderStatus{TaskID: c.Task.ID}

		if c.Owner == nil {
			log.Warn("skipping task: no user linked", "task_id", c.Task.ID)
			entry.Reason = ReasonNoUser
			j.status.Append(entry)
			continue
		}

		if c.Owner.Email == "" {
			log.Warn("skipping task: user email is missing", "task_id", c.Task.ID)
			entry.Reason = ReasonMissingEmail
			j.status.Append(entry)
			continue
		}

		subject := "REMINDER: Task Due Soon - " + c.Task.Title
		body := j.renderBody(c)

		if err := j.mailer.Send(ctx, c.Owner.Email, subject, body); err != nil {
			log.Error("reminder email failed",
				"task_id", c.Task.ID,
				"user_id", c.Owner.ID,
				"error", err)
			entry.Reason = ReasonSendFailed
			j.status.Append(entry)
			continue
		}

		if err := j.tasks.MarkReminderSent(ctx, c.Task.ID); err != nil {
			// The email went out; an unrecorded send means a duplicate on
			// the next run.
			log.Error("failed to mark reminder sent", "task_id", c.Task.ID, "error", err)
		}

		entry.Sent = true
		entry.Reason = ReasonSent
		j.status.Append(entry)
		sent++
	}

	log.Info("task reminder check complete", "sent", sent, "candidates", len(candidates))
	return nil
}

// LastRunStatus returns a snapshot of the most recent run's outcomes.
func (j *Job) LastRunStatus() []TaskReminderStatus {
	return j.status.Snapshot()
}

// renderBody builds the fixed HTML reminder body.
func (j *Job) renderBody(c store.ReminderCandidate) string {
	name := c.Owner.Name
	if name == "" {
		name = "User"
	}

	dueDate := ""
	if c.Task.DueDate != nil {
		dueDate = c.Task.DueDate.Format("2006-01-02")
	}

	return fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Your task <strong>%s</strong> is due on <strong>%s</strong>.</p>
<p><a href='%s/tasks'>Click here to view your task</a></p>
<p>Stay focused and keep crushing it!<br>- TaskApp</p>`,
		name, c.Task.Title, dueDate, j.frontendURL)
}
