package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase"
)

// UseCase exposes task CRUD scoped to the calling identity.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// List returns the caller's own tasks, newest first.
func (uc *UseCase) List(ctx context.Context, caller domain.Identity, query domain.TaskQuery) (domain.Page[domain.Task], error) {
	if caller.UserID == "" {
		return domain.Page[domain.Task]{}, domain.ErrUnauthorized
	}
	return ListPage(ctx, uc.tasks, caller.UserID, query)
}

// Create stores a new task owned by the caller.
func (uc *UseCase) Create(ctx context.Context, caller domain.Identity, draft domain.TaskDraft) (*domain.Task, error) {
	if caller.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, draft.Task(caller.UserID))
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task created", zap.String("task_id", created.ID), zap.String("user_id", caller.UserID))
	return created, nil
}

// Get returns one task. Admins may read any task; everybody else only their own.
func (uc *UseCase) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Task, error) {
	if caller.IsAdmin() {
		return uc.tasks.GetByID(ctx, id)
	}
	return uc.owned(ctx, caller, id)
}

// Update applies a partial update to a task the caller owns.
func (uc *UseCase) Update(ctx context.Context, caller domain.Identity, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := uc.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}

	// A concurrent delete after the ownership check surfaces here as ErrTaskNotFound.
	updated, err := uc.tasks.Update(ctx, current.ID, patch)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes a task the caller owns.
func (uc *UseCase) Delete(ctx context.Context, caller domain.Identity, id string) error {
	current, err := uc.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, current.ID); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", current.ID), zap.String("user_id", caller.UserID))
	return nil
}

func (uc *UseCase) owned(ctx context.Context, caller domain.Identity, id string) (*domain.Task, error) {
	fetch := func(ctx context.Context) (*domain.Task, error) {
		return uc.tasks.GetByID(ctx, id)
	}
	owner := func(task *domain.Task) string {
		return task.OwnerID
	}
	return usecase.RequireOwner(ctx, caller, fetch, owner, domain.ErrTaskForbidden)
}

// ListPage runs a paginated task listing. An empty ownerID lists every owner.
func ListPage(ctx context.Context, tasks repository.TaskRepository, ownerID string, query domain.TaskQuery) (domain.Page[domain.Task], error) {
	if err := query.Validate(); err != nil {
		return domain.Page[domain.Task]{}, err
	}
	page := query.Page.Normalize()

	items, total, err := tasks.Find(ctx, repository.TaskFilter{
		OwnerID:  ownerID,
		Status:   query.Status,
		Priority: query.Priority,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		return domain.Page[domain.Task]{}, err
	}
	if items == nil {
		items = []domain.Task{}
	}

	return domain.Page[domain.Task]{
		Items: items,
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}
