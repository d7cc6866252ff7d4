package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
	assert.False(t, isUniqueViolation(nil))
}

func TestUserRepositoryCreateMapsDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), "dup@x.com", "hash", "user").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.User{Email: " DUP@x.com ", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepositoryCreateAssignsIdentity(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), "new@x.com", "hash", "admin").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), &domain.User{Email: "New@x.com", PasswordHash: "hash", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "new@x.com", created.Email)
	assert.Equal(t, now, created.CreatedAt)
}

func TestUserRepositoryGetByIDsSkipsMalformedIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	known := uuid.New()
	missing := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = ANY($1)`)).
		WithArgs([]uuid.UUID{known, missing}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(known.String(), "k@x.com", "hash", "user", now, now))

	users, err := repo.GetByIDs(context.Background(), []string{known.String(), "bogus", missing.String()})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "k@x.com", users[known.String()].Email)

	empty, err := repo.GetByIDs(context.Background(), []string{"bogus"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
