package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/SarikaG13/taskapp-backend/internal/store"
)

func pgError(code, constraint string) error {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantNil bool
	}{
		{"nil passes through", nil, nil, true},
		{"no rows becomes not found", sql.ErrNoRows, store.ErrNotFound, false},
		{"wrapped no rows becomes not found", fmt.Errorf("query: %w", sql.ErrNoRows), store.ErrNotFound, false},
		{"unique violation becomes duplicate", pgError("23505", "users_email_key"), store.ErrDuplicate, false},
		{"fk violation becomes invalid entity", pgError("23503", "tasks_user_id_fkey"), store.ErrInvalidEntity, false},
		{"not null violation becomes invalid entity", pgError("23502", ""), store.ErrInvalidEntity, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tc.err)
			if tc.wantNil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.wantIs)
		})
	}

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		t.Parallel()

		err := errors.New("connection reset")
		assert.Equal(t, err, MapError(err))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	emailErr := pgError("23505", "users_email_key")

	assert.True(t, IsUniqueViolation(emailErr, ""))
	assert.True(t, IsUniqueViolation(emailErr, "users_email_key"))
	assert.False(t, IsUniqueViolation(emailErr, "users_username_key"))
	assert.False(t, IsUniqueViolation(pgError("23503", ""), ""))
	assert.False(t, IsUniqueViolation(errors.New("plain"), ""))

	// Wrapped errors still match
	wrapped := fmt.Errorf("insert user: %w", emailErr)
	assert.True(t, IsUniqueViolation(wrapped, "users_email_key"))
}

// fakeResult implements sql.Result with a fixed row count.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "task"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "task")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "task")

	assert.Error(t, CheckRowsAffected(nil, "task"))
	assert.Error(t, CheckRowsAffected(fakeResult{err: errors.New("driver")}, "task"))
}
