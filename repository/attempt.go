package repository

import (
	"context"
	"time"
)

// AttemptRepository counts events per key inside a sliding expiry window.
type AttemptRepository interface {
	Count(ctx context.Context, key string) (int, error)
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
	Reset(ctx context.Context, key string) error
}
