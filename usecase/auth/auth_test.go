package auth

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/taskflow/domain"
	boltInfra "github.com/fastygo/taskflow/internal/infrastructure/bolt"
	"github.com/fastygo/taskflow/internal/security"
	"github.com/fastygo/taskflow/repository"
	boltRepo "github.com/fastygo/taskflow/repository/bolt"
	redisRepo "github.com/fastygo/taskflow/repository/redis"
)

type fixture struct {
	uc     *UseCase
	users  repository.UserRepository
	tokens *security.TokenService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := boltInfra.Open(filepath.Join(t.TempDir(), "auth.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hasher, err := security.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := security.NewTokenService("test-secret", "taskflow-test", time.Hour)
	users := boltRepo.NewUserRepository(db)

	return fixture{
		uc:     New(users, hasher, tokens, nil),
		users:  users,
		tokens: tokens,
	}
}

func TestRegisterCreatesPlainUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.uc.Register(ctx, " New@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Register(ctx, "dup@example.com", "password123")
	require.NoError(t, err)

	_, err = f.uc.Register(ctx, "DUP@example.com", "password456")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered, err := f.uc.Register(ctx, "login@example.com", "password123")
	require.NoError(t, err)

	result, err := f.uc.Login(ctx, "LOGIN@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered, result.User)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	identity, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, identity.UserID)
	assert.Equal(t, "login@example.com", identity.Email)
	assert.Equal(t, domain.RoleUser, identity.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Register(ctx, "known@example.com", "password123")
	require.NoError(t, err)

	_, wrongPassword := f.uc.Login(ctx, "known@example.com", "wrong-password")
	_, unknownEmail := f.uc.Login(ctx, "unknown@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f.uc.WithThrottle(redisRepo.NewAttemptRepository(client, ""), 2, time.Minute)

	_, err := f.uc.Register(ctx, "slow@example.com", "password123")
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, "slow@example.com", "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// A success in between resets the counter.
	_, err = f.uc.Login(ctx, "slow@example.com", "password123")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.uc.Login(ctx, "slow@example.com", "bad")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	_, err = f.uc.Login(ctx, "Slow@Example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	srv.FastForward(2 * time.Minute)
	_, err = f.uc.Login(ctx, "slow@example.com", "password123")
	assert.NoError(t, err)
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	f.uc.WithThrottle(redisRepo.NewAttemptRepository(client, ""), 1, time.Minute)

	_, err := f.uc.Register(ctx, "open@example.com", "password123")
	require.NoError(t, err)

	srv.Close()
	_, err = f.uc.Login(ctx, "open@example.com", "password123")
	assert.NoError(t, err)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.uc.SeedAdmin(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.uc.SeedAdmin(ctx, "ADMIN@example.com", "other-password")
	require.NoError(t, err)
	assert.False(t, created)

	result, err := f.uc.Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.User.Role)
}

func TestSeedAdminEnforcesPasswordPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, password := range []string{"x", "short", strings.Repeat("p", domain.MaxPasswordBytes+1)} {
		created, err := f.uc.SeedAdmin(ctx, "admin@example.com", password)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
		assert.False(t, created)
	}

	_, err := f.users.GetByEmail(ctx, "admin@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
