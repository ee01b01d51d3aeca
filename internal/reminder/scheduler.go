package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reminder job on a fixed cron schedule.
type Scheduler struct {
	cronScheduler *cron.Cron
	job           *Job
	spec          string
	entryID       cron.EntryID
	logger        *slog.Logger
}

// NewScheduler creates a scheduler that triggers the job per the given
// 5-field cron spec (e.g. "0 9 * * *" for daily at 09:00).
// If logger is nil, a default logger will be used.
func NewScheduler(spec string, job *Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cronScheduler: cron.New(),
		job:           job,
		spec:          spec,
		logger:        logger.With(slog.String("component", "reminder_scheduler")),
	}
}

// Start registers the job and begins the cron loop.
// Returns an error if the cron spec is invalid.
func (s *Scheduler) Start() error {
	id, err := s.cronScheduler.AddFunc(s.spec, func() {
		if err := s.job.Run(context.Background()); err != nil {
			if errors.Is(err, ErrRunInProgress) {
				s.logger.Warn("skipping scheduled reminder run: previous run still in progress")
				return
			}
			s.logger.Error("scheduled reminder run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", s.spec, err)
	}

	s.entryID = id
	s.cronScheduler.Start()
	s.logger.Info("reminder scheduler started", "cron_spec", s.spec)
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cronScheduler.Stop()
	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
}
