package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
)

var alice = domain.Identity{UserID: "c0ffee00-0000-4000-8000-000000000001", Email: "a@x.com", Role: domain.RoleUser}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", "taskflow", time.Hour)
	token, expiresAt, err := svc.Issue(alice)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, alice, identity)
}

func TestTokenServiceZeroTTLIsExpired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", "taskflow", 0)
	token, _, err := svc.Issue(alice)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret", "taskflow", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue(alice)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceWrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenService("right-secret", "taskflow", time.Hour).Issue(alice)
	require.NoError(t, err)

	_, err = NewTokenService("wrong-secret", "taskflow", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceSignatureCheckedBeforeExpiry(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenService("right-secret", "taskflow", 0).Issue(alice)
	require.NoError(t, err)

	_, err = NewTokenService("wrong-secret", "taskflow", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceMalformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("k", "taskflow", time.Hour)
	for _, raw := range []string{"", "garbage", "a.b", "not.a.jwt"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", raw)
	}
}

func TestTokenServiceRejectsMissingClaims(t *testing.T) {
	t.Parallel()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": alice.UserID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenService("k", "taskflow", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenServiceRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Email: alice.Email,
		Role:  alice.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   alice.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenService("k", "taskflow", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenServiceRejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenService("shared", "other-service", time.Hour).Issue(alice)
	require.NoError(t, err)

	_, err = NewTokenService("shared", "taskflow", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: alice.Email,
		Role:  alice.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   alice.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("shared"))
	require.NoError(t, err)

	_, err = NewTokenService("shared", "taskflow", time.Hour).Verify(noIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenErrorsAreUnauthorized(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrInvalidToken, ErrTokenExpired, ErrMalformedToken} {
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	}
}
