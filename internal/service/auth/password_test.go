package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	// MinCost keeps the test fast
	verifier := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := verifier.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hash, "wrong password"))
}

func TestNewBcryptVerifierCostFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cost int
		want int
	}{
		{"zero falls back to default", 0, bcrypt.DefaultCost},
		{"too high falls back to default", 99, bcrypt.DefaultCost},
		{"valid cost kept", bcrypt.MinCost, bcrypt.MinCost},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := NewBcryptVerifier(tc.cost)
			assert.Equal(t, tc.want, v.cost)
		})
	}
}
