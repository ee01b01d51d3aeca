package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SarikaG13/taskapp-backend/internal/config"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

// newFixedTimeService builds a service whose clock is pinned, so expiry
// behavior is deterministic.
func newFixedTimeService(t *testing.T, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	t.Helper()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: int(lifetime.Minutes()),
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacJWTService)
	require.True(t, ok)
	impl.timeFunc = now
	return impl
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "too-short",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:            testSecret,
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := newFixedTimeService(t, tokenLifetime, func() time.Time {
		return fixedTime
	})

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	// Compare Unix timestamps to avoid timezone issues
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		now := fixedTime
		svc := newFixedTimeService(t, tokenLifetime, func() time.Time {
			return now
		})

		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		// Advance past the lifetime plus the clock skew allowance
		now = fixedTime.Add(tokenLifetime + svc.clockSkew + time.Minute)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("within clock skew", func(t *testing.T) {
		t.Parallel()

		now := fixedTime
		svc := newFixedTimeService(t, tokenLifetime, func() time.Time {
			return now
		})

		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		// Just past expiry but still inside the skew window
		now = fixedTime.Add(tokenLifetime + time.Minute)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		svc := newFixedTimeService(t, tokenLifetime, func() time.Time {
			return fixedTime
		})
		other := newFixedTimeService(t, tokenLifetime, func() time.Time {
			return fixedTime
		})
		other.signingKey = []byte("another-secret-that-is-32-chars-xx")

		token, err := other.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		svc := newFixedTimeService(t, tokenLifetime, func() time.Time {
			return fixedTime
		})

		_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
