package admin

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
	"github.com/fastygo/taskflow/usecase/task"
)

// UserTasks is one user's public projection plus a page of their tasks.
type UserTasks struct {
	User  domain.PublicUser
	Tasks domain.Page[domain.Task]
}

// UseCase serves cross-owner listings to administrators.
type UseCase struct {
	users  repository.UserRepository
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		tasks:  tasks,
		logger: logger,
	}
}

// ListTasks returns every task with its owner embedded. Owners are resolved in
// one batch; a task whose owner no longer exists gets a nil owner.
func (uc *UseCase) ListTasks(ctx context.Context, caller domain.Identity, query domain.TaskQuery) (domain.Page[domain.OwnedTask], error) {
	if !caller.IsAdmin() {
		return domain.Page[domain.OwnedTask]{}, domain.ErrForbidden
	}

	page, err := task.ListPage(ctx, uc.tasks, "", query)
	if err != nil {
		return domain.Page[domain.OwnedTask]{}, err
	}

	owners, err := uc.users.GetByIDs(ctx, ownerIDs(page.Items))
	if err != nil {
		return domain.Page[domain.OwnedTask]{}, err
	}

	items := make([]domain.OwnedTask, 0, len(page.Items))
	for _, t := range page.Items {
		item := domain.OwnedTask{Task: t}
		if owner, ok := owners[t.OwnerID]; ok {
			public := owner.Public()
			item.Owner = &public
		} else {
			uc.logger.Debug("task owner missing", zap.String("task_id", t.ID), zap.String("owner_id", t.OwnerID))
		}
		items = append(items, item)
	}

	return domain.Page[domain.OwnedTask]{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

// ListUserTasks returns the tasks owned by userID.
func (uc *UseCase) ListUserTasks(ctx context.Context, caller domain.Identity, userID string, query domain.TaskQuery) (*UserTasks, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	page, err := task.ListPage(ctx, uc.tasks, user.ID, query)
	if err != nil {
		return nil, err
	}

	return &UserTasks{
		User:  user.Public(),
		Tasks: page,
	}, nil
}

func ownerIDs(tasks []domain.Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.OwnerID]; ok {
			continue
		}
		seen[t.OwnerID] = struct{}{}
		ids = append(ids, t.OwnerID)
	}
	return ids
}
