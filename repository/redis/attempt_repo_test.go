package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*attemptRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAttemptRepository(client, "").(*attemptRepository), srv
}

func TestAttemptRepositoryCountsWithinWindow(t *testing.T) {
	ctx := context.Background()
	repo, srv := newRepo(t)

	count, err := repo.Count(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)

	for want := 1; want <= 3; want++ {
		got, err := repo.Increment(ctx, "a@x.com", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	count, err = repo.Count(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, srv.Exists("login_attempts:a@x.com"))

	srv.FastForward(2 * time.Minute)

	count, err = repo.Count(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAttemptRepositoryReset(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, err := repo.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.Reset(ctx, "k"))

	count, err := repo.Count(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAttemptRepositoryRepairsCounterWithoutTTL(t *testing.T) {
	ctx := context.Background()
	repo, srv := newRepo(t)

	require.NoError(t, srv.Set("login_attempts:victim@x.com", "1"))
	require.Zero(t, srv.TTL("login_attempts:victim@x.com"))

	count, err := repo.Increment(ctx, "victim@x.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, time.Minute, srv.TTL("login_attempts:victim@x.com"))

	for i := 0; i < 10; i++ {
		_, err := repo.Increment(ctx, "victim@x.com", time.Minute)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, srv.TTL("login_attempts:victim@x.com"), time.Minute)

	srv.FastForward(2 * time.Minute)

	count, err = repo.Count(ctx, "victim@x.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAttemptRepositoryKeepsWindowOpenedByFirstAttempt(t *testing.T) {
	ctx := context.Background()
	repo, srv := newRepo(t)

	_, err := repo.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	srv.FastForward(40 * time.Second)

	_, err = repo.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, srv.TTL("login_attempts:k"))
}
