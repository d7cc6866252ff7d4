package usecase

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// FetchFunc loads an entity; a missing entity must surface as a NotFound domain error.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// RequireOwner fetches a fresh copy of an entity and confirms that caller owns it.
// Existence is checked first, so a missing entity is reported as NotFound and a
// foreign one as denied.
func RequireOwner[T any](ctx context.Context, caller domain.Identity, fetch FetchFunc[T], owner func(T) string, denied error) (T, error) {
	entity, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if caller.UserID == "" || owner(entity) != caller.UserID {
		var zero T
		return zero, denied
	}
	return entity, nil
}
