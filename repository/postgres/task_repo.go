package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const taskColumns = `id::text, user_id::text, title, description, status, priority, due_date, created_at, updated_at`

type taskRepository struct {
	db DB
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(db DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	taskID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, taskID))
}

func (r *taskRepository) Find(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Task{}, 0, nil
	}

	where, args, _ := taskWhere(filter)
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	%s
	ORDER BY created_at DESC, id DESC
	LIMIT $%d OFFSET $%d
	`, taskColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, total, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	where, args, ok := taskWhere(filter)
	if !ok {
		return 0, nil
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	ownerID, ok := parseID(task.OwnerID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	created := *task
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, status, priority, due_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.db.QueryRow(ctx, query,
		created.ID,
		ownerID,
		created.Title,
		created.Description,
		string(created.Status),
		string(created.Priority),
		created.DueDate,
	).Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	taskID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	query := `
	UPDATE tasks
	SET title = COALESCE($2, title),
		description = COALESCE($3, description),
		status = COALESCE($4, status),
		priority = COALESCE($5, priority),
		due_date = COALESCE($6, due_date),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns

	return scanTask(r.db.QueryRow(ctx, query,
		taskID,
		patch.Title,
		patch.Description,
		stringPtr(patch.Status),
		stringPtr(patch.Priority),
		patch.DueDate,
	))
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	taskID, ok := parseID(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// taskWhere renders the equality predicates of filter. ok is false when the
// filter can never match, e.g. an owner id that is not a UUID.
func taskWhere(filter repository.TaskFilter) (where string, args []any, ok bool) {
	var clauses []string
	if filter.OwnerID != "" {
		ownerID, valid := parseID(filter.OwnerID)
		if !valid {
			return "", nil, false
		}
		args = append(args, ownerID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil, true
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, true
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var status, priority string

	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	return &task, nil
}
