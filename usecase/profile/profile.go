package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// GetProfile loads the caller's stored account. A token may outlive its user,
// in which case ErrUserNotFound is returned.
func (uc *UseCase) GetProfile(ctx context.Context, caller domain.Identity) (domain.PublicUser, error) {
	if caller.UserID == "" {
		return domain.PublicUser{}, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}
