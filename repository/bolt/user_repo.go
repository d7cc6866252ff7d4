package bolt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/fastygo/taskflow/domain"
	boltInfra "github.com/fastygo/taskflow/internal/infrastructure/bolt"
	"github.com/fastygo/taskflow/repository"
)

// userRecord keeps the password hash, which domain.User never serializes.
type userRecord struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Role         domain.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (r userRecord) user() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type userRepository struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewUserRepository instantiates a BoltDB-backed user repository.
func NewUserRepository(db *bbolt.DB) repository.UserRepository {
	return &userRepository{db: db, now: time.Now}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	record := userRecord{
		ID:           user.ID,
		Email:        domain.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Role == "" {
		record.Role = domain.RoleUser
	}

	err := r.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket(boltInfra.BucketUserEmails)
		if emails.Get([]byte(record.Email)) != nil {
			return domain.ErrEmailTaken
		}
		payload, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err := tx.Bucket(boltInfra.BucketUsers).Put([]byte(record.ID), payload); err != nil {
			return err
		}
		return emails.Put([]byte(record.Email), []byte(record.ID))
	})
	if err != nil {
		return nil, err
	}
	return record.user(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}

	var user *domain.User
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *domain.User
	err := r.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(boltInfra.BucketUserEmails).Get([]byte(domain.NormalizeEmail(email)))
		if id == nil {
			return domain.ErrUserNotFound
		}
		var err error
		user, err = getUser(tx, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := make(map[string]domain.User, len(ids))
	err := r.db.View(func(tx *bbolt.Tx) error {
		for _, id := range ids {
			if _, seen := users[id]; seen || !validID(id) {
				continue
			}
			user, err := getUser(tx, id)
			if err == domain.ErrUserNotFound {
				continue
			}
			if err != nil {
				return err
			}
			users[id] = *user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func getUser(tx *bbolt.Tx, id string) (*domain.User, error) {
	raw := tx.Bucket(boltInfra.BucketUsers).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrUserNotFound
	}
	var record userRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record.user(), nil
}
