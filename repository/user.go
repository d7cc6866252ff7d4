package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// UserRepository persists accounts. Emails are stored normalized and are unique.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
}
