package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskflow/repository"
)

type attemptRepository struct {
	client *redislib.Client
	prefix string
}

// NewAttemptRepository creates a Redis-backed attempt counter. Keys live under prefix.
func NewAttemptRepository(client *redislib.Client, prefix string) repository.AttemptRepository {
	if prefix == "" {
		prefix = "login_attempts:"
	}
	return &attemptRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *attemptRepository) Count(ctx context.Context, key string) (int, error) {
	count, err := r.client.Get(ctx, r.key(key)).Int()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// Increment bumps the counter. The window starts at the first attempt and is
// not extended; a counter found without a TTL gets one, so it always expires.
func (r *attemptRepository) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	if window <= 0 {
		window = 15 * time.Minute
	}

	var (
		incr *redislib.IntCmd
		ttl  *redislib.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		incr = pipe.Incr(ctx, r.key(key))
		ttl = pipe.TTL(ctx, r.key(key))
		return nil
	})
	if err != nil {
		return 0, err
	}

	if ttl.Val() < 0 {
		if err := r.client.Expire(ctx, r.key(key), window).Err(); err != nil {
			return 0, err
		}
	}
	return int(incr.Val()), nil
}

func (r *attemptRepository) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *attemptRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
