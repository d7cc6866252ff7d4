package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

// PasswordHasher is satisfied by security.PasswordHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
	Burn(plain string)
}

// TokenIssuer is satisfied by security.TokenService.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, time.Time, error)
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.PublicUser
}

type UseCase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger

	attempts    repository.AttemptRepository
	maxAttempts int
	window      time.Duration
}

func New(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// WithThrottle enables per-email failed login counting. A nil repository or
// non-positive limit leaves login unthrottled.
func (uc *UseCase) WithThrottle(attempts repository.AttemptRepository, maxAttempts int, window time.Duration) *UseCase {
	if attempts == nil || maxAttempts <= 0 {
		return uc
	}
	uc.attempts = attempts
	uc.maxAttempts = maxAttempts
	uc.window = window
	return uc
}

// Register creates a plain user account.
func (uc *UseCase) Register(ctx context.Context, email, password string) (domain.PublicUser, error) {
	user, err := uc.createUser(ctx, email, password, domain.RoleUser)
	if err != nil {
		return domain.PublicUser{}, err
	}
	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user.Public(), nil
}

// Login exchanges credentials for a signed token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if uc.throttled(ctx, email) {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		uc.hasher.Burn(password)
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if !uc.hasher.Verify(password, user.PasswordHash) {
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}
	uc.resetFailures(ctx, email)

	token, expiresAt, err := uc.tokens.Issue(domain.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Public(),
	}, nil
}

// SeedAdmin creates an admin account unless the email is already registered.
func (uc *UseCase) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := uc.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, err
	}

	user, err := uc.createUser(ctx, email, password, domain.RoleAdmin)
	if errors.Is(err, domain.ErrEmailTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	uc.logger.Info("admin seeded", zap.String("user_id", user.ID))
	return true, nil
}

func (uc *UseCase) createUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "password cannot be hashed", err)
	}

	return uc.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
}

func (uc *UseCase) throttled(ctx context.Context, email string) bool {
	if uc.attempts == nil {
		return false
	}
	count, err := uc.attempts.Count(ctx, email)
	if err != nil {
		uc.logger.Warn("login attempt counter unavailable", zap.Error(err))
		return false
	}
	return count >= uc.maxAttempts
}

func (uc *UseCase) recordFailure(ctx context.Context, email string) {
	if uc.attempts == nil {
		return
	}
	if _, err := uc.attempts.Increment(ctx, email, uc.window); err != nil {
		uc.logger.Warn("failed to record login attempt", zap.Error(err))
	}
}

func (uc *UseCase) resetFailures(ctx context.Context, email string) {
	if uc.attempts == nil {
		return
	}
	if err := uc.attempts.Reset(ctx, email); err != nil {
		uc.logger.Warn("failed to reset login attempts", zap.Error(err))
	}
}
