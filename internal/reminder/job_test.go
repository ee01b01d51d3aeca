package reminder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SarikaG13/taskapp-backend/internal/config"
	"github.com/SarikaG13/taskapp-backend/internal/domain"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// fakeTaskStore implements store.TaskStore with canned reminder candidates.
type fakeTaskStore struct {
	store.TaskStore

	mu         sync.Mutex
	candidates []store.ReminderCandidate
	marked     []uuid.UUID
	listErr    error
	markErr    error
	lastDueBy  time.Time

	// listStarted/listRelease let a test hold a run open mid-flight.
	listStarted chan struct{}
	listRelease chan struct{}
}

func (f *fakeTaskStore) ListDueForReminder(ctx context.Context, dueBy time.Time) ([]store.ReminderCandidate, error) {
	if f.listStarted != nil {
		close(f.listStarted)
		<-f.listRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDueBy = dueBy
	if f.listErr != nil {
		return nil, f.listErr
	}

	// Marked tasks no longer qualify, mirroring the reminder_sent filter.
	var out []store.ReminderCandidate
	for _, c := range f.candidates {
		if !c.Task.ReminderSent {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) MarkReminderSent(ctx context.Context, taskID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, taskID)
	for _, c := range f.candidates {
		if c.Task.ID == taskID {
			c.Task.ReminderSent = true
		}
	}
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

// fakeMailer records sends and optionally fails for specific recipients.
type fakeMailer struct {
	mu     sync.Mutex
	sent   []sentMail
	failTo map[string]error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failTo[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func testConfig() config.ReminderConfig {
	return config.ReminderConfig{
		CronSpec:    "0 9 * * *",
		HorizonDays: 2,
		FrontendURL: "https://taskapp.example.com",
	}
}

func candidateWithOwner(title, email string) store.ReminderCandidate {
	userID := uuid.New()
	due := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(userID, title, "", domain.PriorityHigh, &due, false)
	if err != nil {
		panic(err)
	}

	owner := &domain.User{
		ID:    userID,
		Name:  "Sarika",
		Email: email,
	}
	return store.ReminderCandidate{Task: task, Owner: owner}
}

func TestJobRunSendsAndMarks(t *testing.T) {
	t.Parallel()

	c := candidateWithOwner("Finish report", "sarika@example.com")
	tasks := &fakeTaskStore{candidates: []store.ReminderCandidate{c}}
	m := &fakeMailer{}

	job := NewJob(testConfig(), tasks, m, NewRunStatus(), nil)
	fixedNow := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	job.timeFunc = func() time.Time { return fixedNow }

	require.NoError(t, job.Run(context.Background()))

	// Horizon is applied to the scan cutoff
	assert.Equal(t, fixedNow.AddDate(0, 0, 2), tasks.lastDueBy)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "sarika@example.com", m.sent[0].to)
	assert.Equal(t, "REMINDER: Task Due Soon - Finish report", m.sent[0].subject)
	assert.Contains(t, m.sent[0].body, "Hi Sarika")
	assert.Contains(t, m.sent[0].body, "Finish report")
	assert.Contains(t, m.sent[0].body, "2026-09-02")
	assert.Contains(t, m.sent[0].body, "https://taskapp.example.com/tasks")

	require.Len(t, tasks.marked, 1)
	assert.Equal(t, c.Task.ID, tasks.marked[0])

	status := job.LastRunStatus()
	require.Len(t, status, 1)
	assert.Equal(t, c.Task.ID, status[0].TaskID)
	assert.True(t, status[0].Sent)
	assert.Equal(t, ReasonSent, status[0].Reason)
}

func TestJobRunSkipsTaskWithoutOwner(t *testing.T) {
	t.Parallel()

	c := candidateWithOwner("Orphaned", "unused@example.com")
	c.Owner = nil
	tasks := &fakeTaskStore{candidates: []store.ReminderCandidate{c}}
	m := &fakeMailer{}

	job := NewJob(testConfig(), tasks, m, NewRunStatus(), nil)
	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, m.sent)
	assert.Empty(t, tasks.marked)

	status := job.LastRunStatus()
	require.Len(t, status, 1)
	assert.False(t, status[0].Sent)
	assert.Equal(t, ReasonNoUser, status[0].Reason)
}

func TestJobRunSkipsOwnerWithoutEmail(t *testing.T) {
	t.Parallel()

	c := candidateWithOwner("No address", "")
	tasks := &fakeTaskStore{candidates: []store.ReminderCandidate{c}}
	m := &fakeMailer{}

	job := NewJob(testConfig(), tasks, m, NewRunStatus(), nil)
	require.NoError(t, job.Run(context.Background()))

	assert.Empty(t, m.sent)
	assert.Empty(t, tasks.marked)

	status := job.LastRunStatus()
	require.Len(t, status, 1)
	assert.False(t, status[0].Sent)
	assert.Equal(t, ReasonMissingEmail, status[0].Reason)
}

func TestJobRunSendFailureLeavesTaskUnmarked(t *testing.T) {
	t.Parallel()

	good := candidateWithOwner("Deliverable", "good@example.com")
	bad := candidateWithOwner("Undeliverable", "bad@example.com")
	tasks := &fakeTaskStore{candidates: []store.ReminderCandidate{bad, good}}
	m := &fakeMailer{failTo: map[string]error{
		"bad@example.com": errors.New("smtp: connection refused"),
	}}

	job := NewJob(testConfig(), tasks, m, NewRunStatus(), nil)
	require.NoError(t, job.Run(context.Background()))

	// Only the deliverable task is marked, so the failed one re-qualifies
	// on the next run.
	require.Len(t, tasks.marked, 1)
	assert.Equal(t, good.Task.ID, tasks.marked[0])

	status := job.LastRunStatus()
	require.Len(t, status, 2)
	assert.Equal(t, bad.Task.ID, status[0].TaskID)
	assert.False(t, status[0].Sent)
	assert.Equal(t, ReasonSendFailed, status[0].Reason)
	assert.Equal(t, good.Task.ID, status[1].TaskID)
	assert.True(t, status[1].Sent)
}

func TestJobRunListErrorPropagates(t *testing.T) {
	t.Parallel()

	tasks := &fakeTaskStore{listErr: errors.New("db down")}
	job := NewJob(testConfig(), tasks, &fakeMailer{}, NewRunStatus(), nil)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db down"))
}

func TestJobRunSecondRunSendsNothing(t *testing.T) {
	t.Parallel()

	c := candidateWithOwner("Once", "once@example.com")
	tasks := &fakeTaskStore{candidates: []store.ReminderCandidate{c}}
	m := &fakeMailer{}

	job := NewJob(testConfig(), tasks, m, NewRunStatus(), nil)
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, m.sent, 1)
	require.Len(t, job.LastRunStatus(), 1)

	// The marked task no longer qualifies, and the stale status entry
	// must not linger
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, m.sent, 1)
	assert.Empty(t, job.LastRunStatus())
}

func TestJobRunRejectsOverlappingRun(t *testing.T) {
	t.Parallel()

	tasks := &fakeTaskStore{
		listStarted: make(chan struct{}),
		listRelease: make(chan struct{}),
	}
	job := NewJob(testConfig(), tasks, &fakeMailer{}, NewRunStatus(), nil)

	done := make(chan error, 1)
	go func() {
		done <- job.Run(context.Background())
	}()

	<-tasks.listStarted
	err := job.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(tasks.listRelease)
	require.NoError(t, <-done)
}
