package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/repository"
)

const userColumns = `id::text, email, password_hash, role, created_at, updated_at`

type userRepository struct {
	db DB
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(db DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}

	created := *user
	created.Email = domain.NormalizeEmail(created.Email)
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Role == "" {
		created.Role = domain.RoleUser
	}

	const query = `
	INSERT INTO users (id, email, password_hash, role)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`

	if err := r.db.QueryRow(ctx, query,
		created.ID,
		created.Email,
		created.PasswordHash,
		string(created.Role),
	).Scan(&created.CreatedAt, &created.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("userRepository.Create: %w", err)
	}

	return &created, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	userID, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email)))
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	users := make(map[string]domain.User, len(ids))

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if userID, ok := parseID(id); ok {
			parsed = append(parsed, userID)
		}
	}
	if len(parsed) == 0 {
		return users, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, parsed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users[user.ID] = *user
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var role string

	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = domain.Role(role)
	return &user, nil
}
