package repository

import (
	"context"

	"github.com/fastygo/taskflow/domain"
)

// TaskFilter selects tasks by equality; empty fields match everything.
type TaskFilter struct {
	OwnerID  string
	Status   domain.TaskStatus
	Priority domain.TaskPriority
	Limit    int
	Offset   int
}

// Matches reports whether task satisfies the equality predicates of the filter.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if task == nil {
		return false
	}
	if f.OwnerID != "" && task.OwnerID != f.OwnerID {
		return false
	}
	if f.Status != "" && task.Status != f.Status {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	return true
}

// TaskRepository persists tasks. Listings are sorted by creation time, newest first.
type TaskRepository interface {
	Find(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)
	Count(ctx context.Context, filter TaskFilter) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
