package bolt

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/fastygo/taskflow/domain"
	boltInfra "github.com/fastygo/taskflow/internal/infrastructure/bolt"
	"github.com/fastygo/taskflow/repository"
)

type taskRepository struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewTaskRepository returns a BoltDB-backed implementation of TaskRepository.
func NewTaskRepository(db *bbolt.DB) repository.TaskRepository {
	return &taskRepository{db: db, now: time.Now}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}

	var task *domain.Task
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		task, err = getTask(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Find(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	matched, err := r.scan(filter)
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + clampLimit(filter.Limit)
	if end > total {
		end = total
	}

	tasks := make([]domain.Task, end-start)
	copy(tasks, matched[start:end])
	return tasks, total, nil
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	matched, err := r.scan(filter)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := *task
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := r.now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := r.db.Update(func(tx *bbolt.Tx) error {
		return putTask(tx, &created)
	}); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}

	var updated *domain.Task
	err := r.db.Update(func(tx *bbolt.Tx) error {
		task, err := getTask(tx, id)
		if err != nil {
			return err
		}
		patch.Apply(task)
		task.UpdatedAt = r.now().UTC()
		if err := putTask(tx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validID(id) {
		return domain.ErrTaskNotFound
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltInfra.BucketTasks)
		if bucket.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

func (r *taskRepository) scan(filter repository.TaskFilter) ([]domain.Task, error) {
	var matched []domain.Task
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltInfra.BucketTasks).ForEach(func(_, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if filter.Matches(&task) {
				matched = append(matched, task)
			}
			return nil
		})
	})
	return matched, err
}

func getTask(tx *bbolt.Tx, id string) (*domain.Task, error) {
	raw := tx.Bucket(boltInfra.BucketTasks).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func putTask(tx *bbolt.Tx, task *domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return tx.Bucket(boltInfra.BucketTasks).Put([]byte(task.ID), payload)
}
