package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := hasher.Hash("pw12345678")
	require.NoError(t, err)
	assert.NotContains(t, hash, "pw12345678")

	assert.True(t, hasher.Verify("pw12345678", hash))
	assert.False(t, hasher.Verify("pw12345679", hash))
}

func TestPasswordHasherSaltsEveryHash(t *testing.T) {
	t.Parallel()

	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestPasswordHasherMalformedHashIsMismatch(t *testing.T) {
	t.Parallel()

	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, hasher.Verify("pw12345678", ""))
	assert.False(t, hasher.Verify("pw12345678", "not-a-bcrypt-hash"))
}

func TestPasswordHasherRejectsOverlongInput(t *testing.T) {
	t.Parallel()

	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = hasher.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.Error(t, err)
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	t.Parallel()

	hasher, err := NewPasswordHasher(0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
