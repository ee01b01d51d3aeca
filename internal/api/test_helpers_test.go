package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SarikaG13/taskapp-backend/internal/api/shared"
	"github.com/SarikaG13/taskapp-backend/internal/domain"
	"github.com/SarikaG13/taskapp-backend/internal/service/auth"
	"github.com/SarikaG13/taskapp-backend/internal/store"
)

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	users     map[uuid.UUID]*domain.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// fakeTaskStore is an in-memory store.TaskStore with owner scoping.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListByCompletion(ctx context.Context, userID uuid.UUID, completed bool) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.UserID == userID && t.Completed == completed {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListByPriority(ctx context.Context, userID uuid.UUID, priority domain.Priority) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.UserID == userID && t.Priority == priority {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) SearchByTitle(ctx context.Context, userID uuid.UUID, title string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.UserID == userID && containsFold(t.Title, title) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) ListDueTodayAndOverdue(ctx context.Context, userID uuid.UUID, today time.Time) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.UserID == userID && !t.Completed && t.DueDate != nil && !t.DueDate.After(today) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskStore) Summary(ctx context.Context, userID uuid.UUID) (domain.TaskSummary, error) {
	var total, completed, high int64
	for _, t := range f.tasks {
		if t.UserID != userID {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
		if t.Priority == domain.PriorityHigh {
			high++
		}
	}
	return domain.NewTaskSummary(total, completed, high), nil
}

func (f *fakeTaskStore) ListDueForReminder(ctx context.Context, dueBy time.Time) ([]store.ReminderCandidate, error) {
	return nil, nil
}

func (f *fakeTaskStore) MarkReminderSent(ctx context.Context, taskID uuid.UUID) error {
	if t, ok := f.tasks[taskID]; ok {
		t.ReminderSent = true
	}
	return nil
}

// fakeSubtaskStore is an in-memory store.SubtaskStore. Owner scoping is
// resolved through the companion task store.
type fakeSubtaskStore struct {
	tasks    *fakeTaskStore
	subtasks map[uuid.UUID]*domain.Subtask
}

func newFakeSubtaskStore(tasks *fakeTaskStore) *fakeSubtaskStore {
	return &fakeSubtaskStore{tasks: tasks, subtasks: make(map[uuid.UUID]*domain.Subtask)}
}

func (f *fakeSubtaskStore) ownedBy(subtask *domain.Subtask, userID uuid.UUID) bool {
	parent, ok := f.tasks.tasks[subtask.TaskID]
	return ok && parent.UserID == userID
}

func (f *fakeSubtaskStore) Create(ctx context.Context, subtask *domain.Subtask) error {
	cp := *subtask
	f.subtasks[subtask.ID] = &cp
	return nil
}

func (f *fakeSubtaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Subtask, error) {
	s, ok := f.subtasks[id]
	if !ok || !f.ownedBy(s, userID) {
		return nil, store.ErrSubtaskNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubtaskStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Subtask, error) {
	var out []*domain.Subtask
	for _, s := range f.subtasks {
		if s.TaskID == taskID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSubtaskStore) Update(ctx context.Context, subtask *domain.Subtask, userID uuid.UUID) error {
	existing, ok := f.subtasks[subtask.ID]
	if !ok || !f.ownedBy(existing, userID) {
		return store.ErrSubtaskNotFound
	}
	cp := *subtask
	f.subtasks[subtask.ID] = &cp
	return nil
}

func (f *fakeSubtaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s, ok := f.subtasks[id]
	if !ok || !f.ownedBy(s, userID) {
		return store.ErrSubtaskNotFound
	}
	delete(f.subtasks, id)
	return nil
}

// fakeJWTService issues a constant token and resolves it to a fixed user.
type fakeJWTService struct {
	token       string
	userID      uuid.UUID
	generateErr error
	validateErr error
}

func (f *fakeJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.token, nil
}

func (f *fakeJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if token != f.token {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: f.userID, Subject: f.userID.String()}, nil
}

var _ store.UserStore = (*fakeUserStore)(nil)
var _ store.TaskStore = (*fakeTaskStore)(nil)
var _ store.SubtaskStore = (*fakeSubtaskStore)(nil)
var _ auth.JWTService = (*fakeJWTService)(nil)

func containsFold(haystack, needle string) bool {
	h := bytes.ToLower([]byte(haystack))
	n := bytes.ToLower([]byte(needle))
	return bytes.Contains(h, n)
}

// newJSONRequest builds a request with a JSON-encoded body.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches an authenticated user ID to the request context, the way
// the auth middleware does for real requests.
func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withPathParam attaches a chi route parameter to the request context.
func withPathParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals the recorded response body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}
